// Package media derives metadata and preview artifacts from video files
// using the external ffmpeg/ffprobe tools.
//
// Three derivations exist per video:
//   - duration probe (ffprobe container metadata)
//   - static thumbnail, one frame at 10% of the timeline fitted into a
//     320x180 box
//   - animated preview, a 3-second 10fps gif starting at the 5-second mark
//
// Probe and thumbnail failures surface typed errors the caller records
// as "unknown"; preview generation is strictly best-effort and never
// returns an error.
package media
