// Package metrics defines the Prometheus instrumentation for LocalTube.
//
// Metric families cover the HTTP layer (request counts, durations,
// in-flight gauge), the catalog store (per-operation query counters and
// durations, open connections), the scanner (run counters, last-run
// gauges, discovery counters) and artifact derivation (per-kind counters
// and duration histograms).
//
// All metrics are registered with the default registry via promauto and
// served from a dedicated metrics listener.
package metrics
