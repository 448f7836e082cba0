package database

import "time"

// DefaultCategory is assigned to videos that have not been categorized.
const DefaultCategory = "Uncategorized"

// Video is one indexed media file. Duration, thumbnail and preview are
// nil until derivation completes (or stay nil when derivation fails).
type Video struct {
	ID           int64      `json:"id"`
	Filename     string     `json:"filename"`
	Path         string     `json:"path"`
	RelativePath string     `json:"relativePath"`
	FolderPath   *string    `json:"folderPath"`
	Title        string     `json:"title"`
	Duration     *int64     `json:"duration"`
	Size         int64      `json:"size"`
	Thumbnail    *string    `json:"thumbnail"`
	PreviewPath  *string    `json:"previewPath"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastPlayed   *time.Time `json:"lastPlayed"`
	PlayCount    int64      `json:"playCount"`
	Category     string     `json:"category"`
	Rating       int        `json:"rating"`
}

// Folder is one directory under the library root. The root itself has
// no row; top-level folders have a nil ParentPath.
type Folder struct {
	ID         int64     `json:"id"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	ParentPath *string   `json:"parentPath"`
	VideoCount int64     `json:"videoCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PathPart is one element of a breadcrumb trail.
type PathPart struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// BrowseResult is a folder-scoped catalog view: child folders, the
// folder's videos (paginated), and the breadcrumb trail to the folder.
type BrowseResult struct {
	Folders     []Folder   `json:"folders"`
	Videos      []Video    `json:"videos"`
	Breadcrumbs []PathPart `json:"breadcrumbs"`
	CurrentPath string     `json:"currentPath"`
	Total       int        `json:"total"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
}

// VideoListing is a filtered, paginated list of videos. Total counts all
// rows matching the filter, independent of the pagination window.
type VideoListing struct {
	Videos []Video `json:"videos"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// CatalogStats summarizes the catalog for the stats endpoint.
type CatalogStats struct {
	TotalVideos       int       `json:"totalVideos"`
	TotalFolders      int       `json:"totalFolders"`
	TotalCategories   int       `json:"totalCategories"`
	MissingThumbnails int       `json:"missingThumbnails"`
	LastScanned       time.Time `json:"lastScanned,omitempty"`
	ScanDuration      string    `json:"scanDuration,omitempty"`
}
