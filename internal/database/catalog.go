package database

import (
	"context"
	"database/sql"
	"time"
)

// InsertFolderIfAbsent creates a Folder row unless one with the same
// path already exists. parentPath is nil for top-level folders.
// It reports whether a new row was created.
func (d *Database) InsertFolderIfAbsent(ctx context.Context, path, name string, parentPath *string) (bool, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_folder", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, `
		INSERT INTO folders (path, name, parent_path)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO NOTHING
	`, path, name, parentPath)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// VideoExists reports whether a Video row with the given path exists.
func (d *Database) VideoExists(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("video_exists", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var id int64
	err = d.db.QueryRowContext(ctx, "SELECT id FROM videos WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		err = nil
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertVideo creates a Video row in the pending-artifacts state
// (duration, thumbnail and preview unset) and returns its id.
// A duplicate path returns ErrAlreadyIndexed; the path uniqueness
// constraint is what makes rescans idempotent.
func (d *Database) InsertVideo(ctx context.Context, filename, path, relativePath string, folderPath *string, title string, size int64) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_video", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, `
		INSERT INTO videos (filename, path, relative_path, folder_path, title, size)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO NOTHING
	`, filename, path, relativePath, folderPath, title, size)
	if err != nil {
		return 0, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrAlreadyIndexed
	}

	return res.LastInsertId()
}

// UpdateArtifacts records derivation results for a video. Nil arguments
// leave the corresponding column unchanged, so a partial derivation
// (say, thumbnail succeeded but probe failed) records only what it has.
func (d *Database) UpdateArtifacts(ctx context.Context, id int64, duration *int64, thumbnail, preview *string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_artifacts", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
		UPDATE videos SET
			duration = COALESCE(?, duration),
			thumbnail = COALESCE(?, thumbnail),
			preview_path = COALESCE(?, preview_path)
		WHERE id = ?
	`, duration, thumbnail, preview, id)
	return err
}

// IncrementFolderVideoCount atomically bumps a folder's video count.
// The increment happens in SQL, not read-modify-write, so concurrent
// scans cannot lose updates.
func (d *Database) IncrementFolderVideoCount(ctx context.Context, folderPath string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("increment_video_count", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx,
		"UPDATE folders SET video_count = video_count + 1 WHERE path = ?",
		folderPath)
	return err
}

// GetFolderByPath retrieves a single folder by its relative path.
func (d *Database) GetFolderByPath(ctx context.Context, path string) (*Folder, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx, `
		SELECT id, path, name, parent_path, video_count, created_at
		FROM folders WHERE path = ?
	`, path)

	f, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFolder(row rowScanner) (*Folder, error) {
	var f Folder
	var parentPath sql.NullString
	var createdAt int64

	if err := row.Scan(&f.ID, &f.Path, &f.Name, &parentPath, &f.VideoCount, &createdAt); err != nil {
		return nil, err
	}

	if parentPath.Valid {
		f.ParentPath = &parentPath.String
	}
	f.CreatedAt = time.Unix(createdAt, 0)
	return &f, nil
}

func scanVideo(row rowScanner) (*Video, error) {
	var v Video
	var relativePath, folderPath, thumbnail, previewPath sql.NullString
	var duration, lastPlayed sql.NullInt64
	var createdAt int64

	if err := row.Scan(
		&v.ID, &v.Filename, &v.Path, &relativePath, &folderPath, &v.Title,
		&duration, &v.Size, &thumbnail, &previewPath, &createdAt, &lastPlayed,
		&v.PlayCount, &v.Category, &v.Rating,
	); err != nil {
		return nil, err
	}

	if relativePath.Valid {
		v.RelativePath = relativePath.String
	}
	if folderPath.Valid {
		v.FolderPath = &folderPath.String
	}
	if duration.Valid {
		v.Duration = &duration.Int64
	}
	if thumbnail.Valid {
		v.Thumbnail = &thumbnail.String
	}
	if previewPath.Valid {
		v.PreviewPath = &previewPath.String
	}
	if lastPlayed.Valid {
		t := time.Unix(lastPlayed.Int64, 0)
		v.LastPlayed = &t
	}
	v.CreatedAt = time.Unix(createdAt, 0)
	return &v, nil
}

const videoColumns = `id, filename, path, relative_path, folder_path, title,
	duration, size, thumbnail, preview_path, created_at, last_played,
	play_count, category, rating`
