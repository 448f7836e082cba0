// Package handlers implements the HTTP API: browsing the folder tree,
// listing and searching videos, single-video fetch (which counts as a
// play), category and rating updates, rescan triggering, stats, health
// probes and static artifact serving.
//
// All responses are JSON. Domain errors from the database layer map to
// HTTP statuses: ErrNotFound becomes 404, ErrInvalidRating 400,
// anything else 500 with a generic message.
package handlers
