package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"localtube/internal/database"
	"localtube/internal/logging"
)

// ListVideos returns a filtered, sorted, paginated video listing.
// Query parameters: search, category, folder, sort, limit, offset.
// A non-empty search overrides folder scoping.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := database.ListOptions{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     database.SortField(q.Get("sort")),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	}
	if q.Has("folder") {
		folder := q.Get("folder")
		opts.Folder = &folder
	}

	listing, err := h.db.ListVideos(r.Context(), opts)
	if err != nil {
		logging.Error("list videos: %v", err)
		writeJSONError(w, "failed to list videos", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, listing)
}

// Browse returns the folders and videos directly under a catalog path,
// plus breadcrumbs. An empty or absent path browses the library root.
func (h *Handlers) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.db.Browse(r.Context(),
		q.Get("path"),
		database.SortField(q.Get("sort")),
		queryInt(r, "limit", 0),
		queryInt(r, "offset", 0),
	)
	if err != nil {
		logging.Error("browse %q: %v", q.Get("path"), err)
		writeJSONError(w, "failed to browse folder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, result)
}

// GetVideo returns a single video by id. Fetching counts as a play:
// the returned record reflects the incremented play count and fresh
// last-played time.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "invalid video id", http.StatusBadRequest)
		return
	}

	video, err := h.db.GetVideo(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("get video %d: %v", id, err)
		writeJSONError(w, "failed to get video", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, video)
}

// ListCategories returns all distinct categories in use, with the
// synthetic "All" entry first.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.db.ListCategories(r.Context())
	if err != nil {
		logging.Error("list categories: %v", err)
		writeJSONError(w, "failed to list categories", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, categories)
}

type updateCategoryRequest struct {
	Category string `json:"category"`
}

// UpdateCategory assigns a video to a category.
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "invalid video id", http.StatusBadRequest)
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		writeJSONError(w, "category is required", http.StatusBadRequest)
		return
	}

	err = h.db.UpdateCategory(r.Context(), id, req.Category)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("update category for video %d: %v", id, err)
		writeJSONError(w, "failed to update category", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "updated")
}

type updateRatingRequest struct {
	Rating int `json:"rating"`
}

// UpdateRating sets a video's rating. Only values 1 through 5 are
// accepted; anything else is rejected without touching the stored
// rating.
func (h *Handlers) UpdateRating(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "invalid video id", http.StatusBadRequest)
		return
	}

	var req updateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err = h.db.UpdateRating(r.Context(), id, req.Rating)
	if errors.Is(err, database.ErrInvalidRating) {
		writeJSONError(w, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("update rating for video %d: %v", id, err)
		writeJSONError(w, "failed to update rating", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "updated")
}

// TriggerRescan starts a library scan in the background and returns
// immediately; the response does not wait for scan completion.
func (h *Handlers) TriggerRescan(w http.ResponseWriter, _ *http.Request) {
	if h.scanner.IsScanning() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		writeJSON(w, map[string]string{"status": "scan_in_progress"})
		return
	}

	h.scanner.TriggerScan()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "scan_started"})
}

// GetStats returns catalog statistics plus scan progress.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.db.GetStats()
	progress := h.scanner.GetProgress()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"stats":        stats,
		"scanProgress": progress,
	})
}
