package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"localtube/internal/logging"
)

// SortField selects the video ordering for list and browse queries.
type SortField string

const (
	// SortRecent orders by creation time, newest first (default).
	SortRecent SortField = "recent"
	// SortRating orders by rating, ties broken by creation time.
	SortRating SortField = "rating"
	// SortViews orders by play count, ties broken by creation time.
	SortViews SortField = "views"
)

// ListOptions filters and paginates a video listing. Search and Folder
// are mutually exclusive: a non-empty Search overrides folder scoping.
// Folder distinguishes "not given" (nil) from root (pointer to "").
type ListOptions struct {
	Search   string
	Category string
	Folder   *string
	Sort     SortField
	Limit    int
	Offset   int
}

// orderClause maps a sort field to its ORDER BY clause. The id tie-break
// keeps ordering stable when rows share a creation second. Rating and
// play_count are NOT NULL DEFAULT 0 so plain DESC ordering is uniform.
func orderClause(sort SortField) string {
	switch sort {
	case SortRating:
		return " ORDER BY rating DESC, created_at DESC, id DESC"
	case SortViews:
		return " ORDER BY play_count DESC, created_at DESC, id DESC"
	default:
		return " ORDER BY created_at DESC, id DESC"
	}
}

func clampPagination(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListVideos returns videos matching the filter, paginated, with the
// total count of matching rows regardless of the pagination window.
func (d *Database) ListVideos(ctx context.Context, opts ListOptions) (*VideoListing, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_videos", start, err) }()

	opts.Limit, opts.Offset = clampPagination(opts.Limit, opts.Offset)

	var conditions []string
	var params []interface{}

	if opts.Search != "" {
		conditions = append(conditions, "title LIKE ? COLLATE NOCASE")
		params = append(params, "%"+opts.Search+"%")
	} else if opts.Folder != nil {
		if *opts.Folder == "" {
			conditions = append(conditions, "folder_path IS NULL")
		} else {
			conditions = append(conditions, "folder_path = ?")
			params = append(params, *opts.Folder)
		}
	}

	if opts.Category != "" && opts.Category != "All" {
		conditions = append(conditions, "category = ?")
		params = append(params, opts.Category)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int
	err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos"+where, params...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	query := "SELECT " + videoColumns + " FROM videos" + where + orderClause(opts.Sort) + " LIMIT ? OFFSET ?"
	queryParams := append(params, opts.Limit, opts.Offset)

	rows, err := d.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return nil, fmt.Errorf("select query failed: %w", err)
	}
	defer rows.Close()

	videos := []Video{}
	for rows.Next() {
		v, scanErr := scanVideo(rows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		videos = append(videos, *v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &VideoListing{
		Videos: videos,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}, nil
}

// Browse returns a folder-scoped catalog view: direct child folders
// (name ascending), the folder's videos sorted and paginated, the total
// video count for the folder, and the breadcrumb trail. An empty path
// browses the library root.
func (d *Database) Browse(ctx context.Context, path string, sort SortField, limit, offset int) (*BrowseResult, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("browse", start, err) }()

	logging.Debug("Browse called: path=%q sort=%s limit=%d offset=%d", path, sort, limit, offset)

	limit, offset = clampPagination(limit, offset)

	folderWhere := " WHERE parent_path IS NULL"
	videoWhere := " WHERE folder_path IS NULL"
	var scopeParams []interface{}
	if path != "" {
		folderWhere = " WHERE parent_path = ?"
		videoWhere = " WHERE folder_path = ?"
		scopeParams = []interface{}{path}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	folderRows, err := d.db.QueryContext(ctx, `
		SELECT id, path, name, parent_path, video_count, created_at
		FROM folders`+folderWhere+" ORDER BY name ASC", scopeParams...)
	if err != nil {
		return nil, fmt.Errorf("folder query failed: %w", err)
	}
	defer folderRows.Close()

	folders := []Folder{}
	for folderRows.Next() {
		f, scanErr := scanFolder(folderRows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf("folder scan failed: %w", err)
		}
		folders = append(folders, *f)
	}
	if err = folderRows.Err(); err != nil {
		return nil, fmt.Errorf("folder rows error: %w", err)
	}

	var total int
	err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos"+videoWhere, scopeParams...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	videoQuery := "SELECT " + videoColumns + " FROM videos" + videoWhere + orderClause(sort) + " LIMIT ? OFFSET ?"
	videoParams := append(append([]interface{}{}, scopeParams...), limit, offset)

	videoRows, err := d.db.QueryContext(ctx, videoQuery, videoParams...)
	if err != nil {
		return nil, fmt.Errorf("video query failed: %w", err)
	}
	defer videoRows.Close()

	videos := []Video{}
	for videoRows.Next() {
		v, scanErr := scanVideo(videoRows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf("video scan failed: %w", err)
		}
		videos = append(videos, *v)
	}
	if err = videoRows.Err(); err != nil {
		return nil, fmt.Errorf("video rows error: %w", err)
	}

	return &BrowseResult{
		Folders:     folders,
		Videos:      videos,
		Breadcrumbs: buildBreadcrumbs(path),
		CurrentPath: path,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// buildBreadcrumbs derives the trail from root to the given folder by
// splitting the path; it never touches the store. Catalog paths are
// slash-separated regardless of platform.
func buildBreadcrumbs(path string) []PathPart {
	breadcrumbs := []PathPart{}
	if path == "" {
		return breadcrumbs
	}

	currentPath := ""
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if currentPath == "" {
			currentPath = part
		} else {
			currentPath = currentPath + "/" + part
		}
		breadcrumbs = append(breadcrumbs, PathPart{
			Name: part,
			Path: currentPath,
		})
	}

	return breadcrumbs
}

// ListCategories returns the distinct categories in use, ordered, with
// the synthetic "All" sentinel prepended.
func (d *Database) ListCategories(ctx context.Context) ([]string, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_categories", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, "SELECT DISTINCT category FROM videos ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{"All"}
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// GetVideo fetches a video by id and records a play: play_count is
// bumped by one and last_played set, atomically with the read. The
// increment runs in SQL inside the transaction so concurrent plays
// never lose updates.
func (d *Database) GetVideo(ctx context.Context, id int64) (*Video, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_video", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("rollback failed after GetVideo error: %v", rbErr)
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE videos
		SET play_count = play_count + 1, last_played = strftime('%s', 'now')
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		err = ErrNotFound
		return nil, err
	}

	row := tx.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = ?", id)
	v, err := scanVideo(row)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateCategory sets a video's category.
func (d *Database) UpdateCategory(ctx context.Context, id int64, category string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_category", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, "UPDATE videos SET category = ? WHERE id = ?", category, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// UpdateRating sets a video's rating. Ratings outside 1..5 are rejected
// before reaching the store and leave the stored value unchanged.
func (d *Database) UpdateRating(ctx context.Context, id int64, rating int) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_rating", start, err) }()

	if rating < 1 || rating > 5 {
		err = ErrInvalidRating
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, "UPDATE videos SET rating = ? WHERE id = ?", rating, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}
