// Package workers computes worker pool sizes for concurrent tasks.
//
// Derivation of media artifacts spawns external ffmpeg/ffprobe processes;
// the pool size bounds the number of concurrent subprocesses. Counts are
// based on GOMAXPROCS so container CPU limits are honored, and can be
// overridden with the DERIVE_WORKERS environment variable.
package workers
