package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// Integration tests for catalog operations against a real SQLite database.

// setupTestDB creates a catalog database in a temp directory.
func setupTestDB(t testing.TB) *Database {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

func TestNewDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if err := db.db.PingContext(context.Background()); err != nil {
		t.Errorf("Database ping failed: %v", err)
	}
}

func TestNewDatabaseIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	ctx := context.Background()

	db, err := New(ctx, dbPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := db.InsertVideo(ctx, "a.mp4", "/v/a.mp4", "a.mp4", nil, "a", 100); err != nil {
		t.Fatalf("InsertVideo failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening must not recreate the schema or lose data
	db, err = New(ctx, dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer db.Close()

	listing, err := db.ListVideos(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if listing.Total != 1 {
		t.Errorf("Total = %d after reopen, want 1", listing.Total)
	}
}

func TestNewDatabaseInvalidPath(t *testing.T) {
	_, err := New(context.Background(), "/nonexistent/path/test.db")
	if err == nil {
		t.Error("New() with unwritable path should fail")
	}
}

func TestCalculateStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	folder := "movies"
	if _, err := db.InsertFolderIfAbsent(ctx, folder, "movies", nil); err != nil {
		t.Fatalf("InsertFolderIfAbsent failed: %v", err)
	}
	id, err := db.InsertVideo(ctx, "a.mp4", "/v/movies/a.mp4", "movies/a.mp4", &folder, "a", 100)
	if err != nil {
		t.Fatalf("InsertVideo failed: %v", err)
	}
	if _, err := db.InsertVideo(ctx, "b.mp4", "/v/movies/b.mp4", "movies/b.mp4", &folder, "b", 100); err != nil {
		t.Fatalf("InsertVideo failed: %v", err)
	}

	thumb := "/thumbnails/1.jpg"
	if err := db.UpdateArtifacts(ctx, id, nil, &thumb, nil); err != nil {
		t.Fatalf("UpdateArtifacts failed: %v", err)
	}

	stats, err := db.CalculateStats(ctx)
	if err != nil {
		t.Fatalf("CalculateStats failed: %v", err)
	}

	if stats.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2", stats.TotalVideos)
	}
	if stats.TotalFolders != 1 {
		t.Errorf("TotalFolders = %d, want 1", stats.TotalFolders)
	}
	if stats.MissingThumbnails != 1 {
		t.Errorf("MissingThumbnails = %d, want 1", stats.MissingThumbnails)
	}
}

func TestStatsCache(t *testing.T) {
	db := setupTestDB(t)

	stats := CatalogStats{TotalVideos: 7, TotalFolders: 3}
	db.UpdateStats(stats)

	got := db.GetStats()
	if got.TotalVideos != 7 || got.TotalFolders != 3 {
		t.Errorf("GetStats() = %+v, want cached %+v", got, stats)
	}
}
