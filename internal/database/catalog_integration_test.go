package database

import (
	"context"
	"errors"
	"testing"
)

func TestInsertFolderIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := db.InsertFolderIfAbsent(ctx, "movies", "movies", nil)
	if err != nil {
		t.Fatalf("InsertFolderIfAbsent failed: %v", err)
	}
	if !created {
		t.Error("first insert should report created")
	}

	created, err = db.InsertFolderIfAbsent(ctx, "movies", "movies", nil)
	if err != nil {
		t.Fatalf("second InsertFolderIfAbsent failed: %v", err)
	}
	if created {
		t.Error("duplicate insert should not report created")
	}

	parent := "movies"
	created, err = db.InsertFolderIfAbsent(ctx, "movies/action", "action", &parent)
	if err != nil {
		t.Fatalf("nested InsertFolderIfAbsent failed: %v", err)
	}
	if !created {
		t.Error("nested insert should report created")
	}

	f, err := db.GetFolderByPath(ctx, "movies/action")
	if err != nil {
		t.Fatalf("GetFolderByPath failed: %v", err)
	}
	if f.ParentPath == nil || *f.ParentPath != "movies" {
		t.Errorf("ParentPath = %v, want movies", f.ParentPath)
	}

	top, err := db.GetFolderByPath(ctx, "movies")
	if err != nil {
		t.Fatalf("GetFolderByPath failed: %v", err)
	}
	if top.ParentPath != nil {
		t.Errorf("top-level folder ParentPath = %v, want nil", top.ParentPath)
	}
}

func TestGetFolderByPathNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetFolderByPath(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInsertVideo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.InsertVideo(ctx, "clip.mp4", "/v/clip.mp4", "clip.mp4", nil, "clip", 1234)
	if err != nil {
		t.Fatalf("InsertVideo failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("id = %d, want positive", id)
	}

	v, err := db.GetVideo(ctx, id)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}

	// New videos start in the pending-artifacts state with defaults
	if v.Duration != nil {
		t.Errorf("Duration = %v, want nil", *v.Duration)
	}
	if v.Thumbnail != nil {
		t.Errorf("Thumbnail = %v, want nil", *v.Thumbnail)
	}
	if v.PreviewPath != nil {
		t.Errorf("PreviewPath = %v, want nil", *v.PreviewPath)
	}
	if v.Category != DefaultCategory {
		t.Errorf("Category = %q, want %q", v.Category, DefaultCategory)
	}
	if v.Rating != 0 {
		t.Errorf("Rating = %d, want 0", v.Rating)
	}
	if v.FolderPath != nil {
		t.Errorf("FolderPath = %v, want nil for root video", *v.FolderPath)
	}
	if v.Size != 1234 {
		t.Errorf("Size = %d, want 1234", v.Size)
	}
	if v.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestInsertVideoDuplicatePath(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.InsertVideo(ctx, "clip.mp4", "/v/clip.mp4", "clip.mp4", nil, "clip", 100); err != nil {
		t.Fatalf("InsertVideo failed: %v", err)
	}

	_, err := db.InsertVideo(ctx, "clip.mp4", "/v/clip.mp4", "clip.mp4", nil, "clip", 100)
	if !errors.Is(err, ErrAlreadyIndexed) {
		t.Errorf("duplicate insert err = %v, want ErrAlreadyIndexed", err)
	}

	listing, err := db.ListVideos(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if listing.Total != 1 {
		t.Errorf("Total = %d after duplicate insert, want 1", listing.Total)
	}
}

func TestVideoExists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	exists, err := db.VideoExists(ctx, "/v/clip.mp4")
	if err != nil {
		t.Fatalf("VideoExists failed: %v", err)
	}
	if exists {
		t.Error("VideoExists = true for missing video")
	}

	if _, err := db.InsertVideo(ctx, "clip.mp4", "/v/clip.mp4", "clip.mp4", nil, "clip", 100); err != nil {
		t.Fatalf("InsertVideo failed: %v", err)
	}

	exists, err = db.VideoExists(ctx, "/v/clip.mp4")
	if err != nil {
		t.Fatalf("VideoExists failed: %v", err)
	}
	if !exists {
		t.Error("VideoExists = false for indexed video")
	}
}

func TestUpdateArtifactsPartial(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.InsertVideo(ctx, "clip.mp4", "/v/clip.mp4", "clip.mp4", nil, "clip", 100)
	if err != nil {
		t.Fatalf("InsertVideo failed: %v", err)
	}

	// Record duration only; thumbnail and preview stay unset
	duration := int64(120)
	if err := db.UpdateArtifacts(ctx, id, &duration, nil, nil); err != nil {
		t.Fatalf("UpdateArtifacts failed: %v", err)
	}

	v, err := db.GetVideo(ctx, id)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if v.Duration == nil || *v.Duration != 120 {
		t.Errorf("Duration = %v, want 120", v.Duration)
	}
	if v.Thumbnail != nil {
		t.Errorf("Thumbnail = %v, want nil", *v.Thumbnail)
	}

	// Record thumbnail and preview; duration must be unchanged
	thumb := "/thumbnails/1.jpg"
	preview := "/thumbnails/1_preview.gif"
	if err := db.UpdateArtifacts(ctx, id, nil, &thumb, &preview); err != nil {
		t.Fatalf("second UpdateArtifacts failed: %v", err)
	}

	v, err = db.GetVideo(ctx, id)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if v.Duration == nil || *v.Duration != 120 {
		t.Errorf("Duration = %v after partial update, want 120", v.Duration)
	}
	if v.Thumbnail == nil || *v.Thumbnail != thumb {
		t.Errorf("Thumbnail = %v, want %q", v.Thumbnail, thumb)
	}
	if v.PreviewPath == nil || *v.PreviewPath != preview {
		t.Errorf("PreviewPath = %v, want %q", v.PreviewPath, preview)
	}
}

func TestIncrementFolderVideoCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.InsertFolderIfAbsent(ctx, "movies", "movies", nil); err != nil {
		t.Fatalf("InsertFolderIfAbsent failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := db.IncrementFolderVideoCount(ctx, "movies"); err != nil {
			t.Fatalf("IncrementFolderVideoCount failed: %v", err)
		}
	}

	f, err := db.GetFolderByPath(ctx, "movies")
	if err != nil {
		t.Fatalf("GetFolderByPath failed: %v", err)
	}
	if f.VideoCount != 3 {
		t.Errorf("VideoCount = %d, want 3", f.VideoCount)
	}
}
