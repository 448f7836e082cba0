// Package scanner synchronizes the on-disk library tree into the catalog.
//
// A scan walks the library root depth-first. Directories become folder
// rows (created parent-before-child, never deleted); files matching the
// video extension allow-list become video rows. Newly discovered videos
// are inserted with no duration or artifacts, then handed to a bounded
// worker pool that probes duration and generates thumbnail/preview via
// ffmpeg, recording whatever succeeded.
//
// Scans are best-effort: a corrupt file or unreadable subtree is logged
// and skipped, never aborting the walk. Re-running a scan is idempotent;
// videos already in the catalog are not re-derived. Files removed from
// disk keep their catalog rows (reconciliation is an explicit non-goal).
package scanner
