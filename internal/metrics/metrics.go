package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localtube_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localtube_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localtube_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog store metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localtube_db_queries_total",
			Help: "Total number of catalog store queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localtube_db_query_duration_seconds",
			Help:    "Catalog store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localtube_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Scanner metrics
var (
	ScannerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "localtube_scanner_runs_total",
			Help: "Total number of library synchronization runs",
		},
	)

	ScannerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localtube_scanner_running",
			Help: "Whether a library scan is currently running (1 = running, 0 = idle)",
		},
	)

	ScannerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localtube_scanner_last_run_timestamp",
			Help: "Timestamp of the last completed scan",
		},
	)

	ScannerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localtube_scanner_last_run_duration_seconds",
			Help: "Duration of the last completed scan in seconds",
		},
	)

	ScannerVideosDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "localtube_scanner_videos_discovered_total",
			Help: "Total number of new videos discovered by the scanner",
		},
	)

	ScannerFoldersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "localtube_scanner_folders_created_total",
			Help: "Total number of folders created by the scanner",
		},
	)

	ScannerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "localtube_scanner_errors_total",
			Help: "Total number of per-item scanner errors",
		},
	)

	ScannerDeriveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localtube_scanner_derive_workers",
			Help: "Number of derivation workers in the pool",
		},
	)
)

// Derivation metrics
var (
	DerivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localtube_derivations_total",
			Help: "Total number of artifact derivations by kind and status",
		},
		[]string{"kind", "status"}, // kind: probe, thumbnail, preview
	)

	DerivationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localtube_derivation_duration_seconds",
			Help:    "Duration of artifact derivation by kind",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)
)
