package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"localtube/internal/database"
	"localtube/internal/media"
)

// setupScanner builds a scanner over a temp library tree and a temp
// catalog. Derivation runs against real ffmpeg/ffprobe invocations that
// fail on the fake files; scans must tolerate that.
func setupScanner(t *testing.T) (*Scanner, *database.Database, string) {
	t.Helper()

	tmpDir := t.TempDir()
	videosDir := filepath.Join(tmpDir, "videos")
	if err := os.MkdirAll(videosDir, 0o755); err != nil {
		t.Fatalf("failed to create videos dir: %v", err)
	}

	db, err := database.New(context.Background(), filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db, media.NewProber(), media.NewArtifactGenerator(filepath.Join(tmpDir, "thumbs")), videosDir)
	return s, db, videosDir
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("not a real video"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSynchronizeDiscoversTree(t *testing.T) {
	s, db, videosDir := setupScanner(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(videosDir, "root.mp4"))
	writeFile(t, filepath.Join(videosDir, "movies", "action.mkv"))
	writeFile(t, filepath.Join(videosDir, "movies", "nested", "deep.webm"))
	writeFile(t, filepath.Join(videosDir, "movies", "notes.txt"))
	writeFile(t, filepath.Join(videosDir, ".hidden", "skipped.mp4"))
	writeFile(t, filepath.Join(videosDir, ".skipme.mp4"))

	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	if got := s.videosDiscovered.Load(); got != 3 {
		t.Errorf("videos discovered = %d, want 3", got)
	}
	if got := s.foldersCreated.Load(); got != 2 {
		t.Errorf("folders created = %d, want 2", got)
	}

	// Root video has no owning folder
	listing, err := db.ListVideos(ctx, database.ListOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if listing.Total != 3 {
		t.Fatalf("catalog videos = %d, want 3", listing.Total)
	}
	for _, v := range listing.Videos {
		switch v.RelativePath {
		case "root.mp4":
			if v.FolderPath != nil {
				t.Errorf("root video FolderPath = %v, want nil", *v.FolderPath)
			}
			if v.Title != "root" {
				t.Errorf("root video Title = %q, want root", v.Title)
			}
		case "movies/action.mkv":
			if v.FolderPath == nil || *v.FolderPath != "movies" {
				t.Errorf("action.mkv FolderPath = %v, want movies", v.FolderPath)
			}
		case "movies/nested/deep.webm":
			if v.FolderPath == nil || *v.FolderPath != "movies/nested" {
				t.Errorf("deep.webm FolderPath = %v, want movies/nested", v.FolderPath)
			}
		default:
			t.Errorf("unexpected video in catalog: %q", v.RelativePath)
		}
	}

	// Folder hierarchy: parent-before-child with counts
	movies, err := db.GetFolderByPath(ctx, "movies")
	if err != nil {
		t.Fatalf("GetFolderByPath movies failed: %v", err)
	}
	if movies.ParentPath != nil {
		t.Errorf("movies ParentPath = %v, want nil", *movies.ParentPath)
	}
	if movies.VideoCount != 1 {
		t.Errorf("movies VideoCount = %d, want 1", movies.VideoCount)
	}

	nested, err := db.GetFolderByPath(ctx, "movies/nested")
	if err != nil {
		t.Fatalf("GetFolderByPath movies/nested failed: %v", err)
	}
	if nested.ParentPath == nil || *nested.ParentPath != "movies" {
		t.Errorf("nested ParentPath = %v, want movies", nested.ParentPath)
	}
	if nested.VideoCount != 1 {
		t.Errorf("nested VideoCount = %d, want 1", nested.VideoCount)
	}
}

func TestSynchronizeIsIdempotent(t *testing.T) {
	s, db, videosDir := setupScanner(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(videosDir, "movies", "a.mp4"))
	writeFile(t, filepath.Join(videosDir, "movies", "b.mp4"))

	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("first Synchronize failed: %v", err)
	}
	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("second Synchronize failed: %v", err)
	}

	// Second scan discovers nothing new
	if got := s.videosDiscovered.Load(); got != 0 {
		t.Errorf("second scan videos discovered = %d, want 0", got)
	}
	if got := s.foldersCreated.Load(); got != 0 {
		t.Errorf("second scan folders created = %d, want 0", got)
	}

	listing, err := db.ListVideos(ctx, database.ListOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if listing.Total != 2 {
		t.Errorf("catalog videos = %d after rescan, want 2", listing.Total)
	}

	// The folder count must not double on rescans
	movies, err := db.GetFolderByPath(ctx, "movies")
	if err != nil {
		t.Fatalf("GetFolderByPath failed: %v", err)
	}
	if movies.VideoCount != 2 {
		t.Errorf("movies VideoCount = %d after rescan, want 2", movies.VideoCount)
	}
}

func TestSynchronizePicksUpNewFiles(t *testing.T) {
	s, db, videosDir := setupScanner(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(videosDir, "a.mp4"))
	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	writeFile(t, filepath.Join(videosDir, "b.mp4"))
	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("second Synchronize failed: %v", err)
	}

	if got := s.videosDiscovered.Load(); got != 1 {
		t.Errorf("second scan videos discovered = %d, want 1", got)
	}

	listing, err := db.ListVideos(ctx, database.ListOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if listing.Total != 2 {
		t.Errorf("catalog videos = %d, want 2", listing.Total)
	}
}

func TestSynchronizeKeepsRemovedFiles(t *testing.T) {
	s, db, videosDir := setupScanner(t)
	ctx := context.Background()

	path := filepath.Join(videosDir, "gone.mp4")
	writeFile(t, path)
	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("second Synchronize failed: %v", err)
	}

	// Catalog entries outlive their files
	listing, err := db.ListVideos(ctx, database.ListOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if listing.Total != 1 {
		t.Errorf("catalog videos = %d after file removal, want 1", listing.Total)
	}
}

func TestSynchronizeMissingRoot(t *testing.T) {
	s, db, videosDir := setupScanner(t)
	ctx := context.Background()

	if err := os.RemoveAll(videosDir); err != nil {
		t.Fatalf("remove videos dir: %v", err)
	}

	// An unreadable root aborts the walk but is not a scan error
	if err := s.Synchronize(ctx); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	listing, err := db.ListVideos(ctx, database.ListOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if listing.Total != 0 {
		t.Errorf("catalog videos = %d, want 0", listing.Total)
	}
}

func TestScannerReadiness(t *testing.T) {
	s, _, videosDir := setupScanner(t)

	if s.IsReady() {
		t.Error("scanner should not be ready before first scan")
	}
	if s.IsScanning() {
		t.Error("scanner should not report scanning before a scan")
	}

	writeFile(t, filepath.Join(videosDir, "a.mp4"))
	if err := s.Synchronize(context.Background()); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	if !s.IsReady() {
		t.Error("scanner should be ready after a completed scan")
	}
	if s.IsScanning() {
		t.Error("scanner should not report scanning after completion")
	}
	if s.LastScanTime().IsZero() {
		t.Error("LastScanTime should be set after a scan")
	}

	progress := s.GetProgress()
	if progress.IsScanning {
		t.Error("progress should not report scanning after completion")
	}
	if progress.VideosDiscovered != 1 {
		t.Errorf("progress videos = %d, want 1", progress.VideosDiscovered)
	}

	status := s.GetHealthStatus()
	if !status.Ready {
		t.Error("health status should be ready")
	}
	if status.VideosDiscovered != 1 {
		t.Errorf("health videos = %d, want 1", status.VideosDiscovered)
	}
}

func TestSynchronizeUpdatesStats(t *testing.T) {
	s, db, videosDir := setupScanner(t)

	writeFile(t, filepath.Join(videosDir, "movies", "a.mp4"))
	if err := s.Synchronize(context.Background()); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	stats := db.GetStats()
	if stats.TotalVideos != 1 {
		t.Errorf("stats TotalVideos = %d, want 1", stats.TotalVideos)
	}
	if stats.TotalFolders != 1 {
		t.Errorf("stats TotalFolders = %d, want 1", stats.TotalFolders)
	}
	if stats.LastScanned.IsZero() {
		t.Error("stats LastScanned should be set")
	}
}
