package mediatypes

import (
	"path/filepath"
	"strings"
)

// VideoExtensions maps file extensions to whether they are recognized
// video container formats. Matching is on the final extension segment,
// case-insensitive.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".m4v":  true,
}

// MimeTypes maps video extensions to their MIME types.
var MimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".m4v":  "video/x-m4v",
}

// IsVideo reports whether the filename has a recognized video extension.
func IsVideo(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

// MimeType returns the MIME type for a video filename, or an empty
// string if the extension is not recognized.
func MimeType(name string) string {
	return MimeTypes[strings.ToLower(filepath.Ext(name))]
}

// TitleFromFilename derives a display title by stripping the extension.
func TitleFromFilename(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
