package handlers

import (
	"net/http"
	"strings"
)

// Artifacts never change once written (keyed by immutable video id),
// so clients may cache them for 30 days.
const artifactCacheControl = "public, max-age=2592000"

// ThumbnailServer serves generated artifacts (thumbnails and previews)
// from the artifacts directory with long-lived cache headers.
func (h *Handlers) ThumbnailServer() http.Handler {
	fs := http.StripPrefix("/thumbnails/", http.FileServer(http.Dir(h.thumbnailsDir)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reject path traversal before touching the filesystem.
		if strings.Contains(r.URL.Path, "..") {
			writeJSONError(w, "invalid path", http.StatusBadRequest)
			return
		}

		w.Header().Set("Cache-Control", artifactCacheControl)
		fs.ServeHTTP(w, r)
	})
}
