package handlers

import (
	"net/http"
	"runtime"

	"localtube/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status           string `json:"status"`
	Ready            bool   `json:"ready"`
	Version          string `json:"version"`
	Uptime           string `json:"uptime"`
	Scanning         bool   `json:"scanning"`
	LastScanned      string `json:"lastScanned,omitempty"`
	InitialScanError string `json:"initialScanError,omitempty"`

	// Progress info
	VideosDiscovered int64 `json:"videosDiscovered"`
	FoldersCreated   int64 `json:"foldersCreated"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Stats summary
	TotalVideos  int `json:"totalVideos,omitempty"`
	TotalFolders int `json:"totalFolders,omitempty"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	healthStatus := h.scanner.GetHealthStatus()
	stats := h.db.GetStats()

	response := HealthResponse{
		Ready:            healthStatus.Ready,
		Version:          startup.Version,
		Uptime:           healthStatus.Uptime,
		Scanning:         healthStatus.Scanning,
		VideosDiscovered: healthStatus.VideosDiscovered,
		FoldersCreated:   healthStatus.FoldersCreated,
		GoVersion:        runtime.Version(),
		NumCPU:           runtime.NumCPU(),
		NumGoroutine:     runtime.NumGoroutine(),
	}

	if healthStatus.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !healthStatus.LastScanned.IsZero() {
		response.LastScanned = healthStatus.LastScanned.Format("2006-01-02T15:04:05Z07:00")
	}

	if healthStatus.InitialScanError != "" {
		response.InitialScanError = healthStatus.InitialScanError
		response.Status = statusDegraded
	}

	if stats.TotalVideos > 0 || stats.TotalFolders > 0 {
		response.TotalVideos = stats.TotalVideos
		response.TotalFolders = stats.TotalFolders
	}

	w.Header().Set("Content-Type", "application/json")

	// 503 only when the initial scan has not completed yet
	if !healthStatus.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the service is ready to accept traffic
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.scanner.IsReady() {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
