// Package database is the catalog store for the LocalTube library.
//
// It persists two entities in SQLite:
//   - folders: directories under the library root, keyed by relative path,
//     with a derived video count
//   - videos: indexed media files, keyed by absolute path, with derived
//     duration and preview artifacts plus playback state (play count,
//     last played, rating, category)
//
// The store uses WAL mode so browse queries stay responsive while a
// library scan is writing. Counter mutations (video_count, play_count)
// are applied as atomic SQL increments, never read-modify-write.
package database
