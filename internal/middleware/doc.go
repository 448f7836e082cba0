// Package middleware provides HTTP middleware for the API server.
//
// Logger emits one W3C Extended Log Format line per request with all
// user-controlled fields sanitized against log injection. Metrics
// records Prometheus request counters and latency histograms, with
// dynamic path segments normalized to keep label cardinality bounded.
package middleware
