package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"localtube/internal/logging"
	"localtube/internal/metrics"

	"github.com/disintegration/imaging"

	_ "image/png" // ffmpeg frame extraction emits png
)

// ThumbnailError indicates thumbnail generation failed; the video keeps
// a nil thumbnail reference and stays listable.
type ThumbnailError struct {
	Path string
	Err  error
}

func (e *ThumbnailError) Error() string {
	return fmt.Sprintf("thumbnail %s: %v", e.Path, e.Err)
}

func (e *ThumbnailError) Unwrap() error { return e.Err }

const (
	thumbWidth  = 320
	thumbHeight = 180

	previewStartSeconds = 5
	previewDuration     = 3
	previewWidth        = 320
	previewFPS          = 10
)

// ArtifactGenerator produces preview artifacts (static thumbnail,
// animated preview) for videos, written to the artifacts directory and
// keyed by video id.
type ArtifactGenerator struct {
	artifactsDir string
}

// NewArtifactGenerator creates a generator writing into artifactsDir.
func NewArtifactGenerator(artifactsDir string) *ArtifactGenerator {
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		logging.Warn("ArtifactGenerator: failed to create artifacts dir: %v", err)
	}
	return &ArtifactGenerator{artifactsDir: artifactsDir}
}

// Thumbnail extracts one frame at 10% of the video's timeline, fits it
// into a 320x180 box and writes <videoID>.jpg under the artifacts
// directory. durationSeconds must be known and positive; a zero or
// unknown duration is a ThumbnailError.
func (g *ArtifactGenerator) Thumbnail(ctx context.Context, filePath string, videoID int64, durationSeconds int64) (string, error) {
	start := time.Now()

	if durationSeconds <= 0 {
		metrics.DerivationsTotal.WithLabelValues("thumbnail", "error").Inc()
		return "", &ThumbnailError{Path: filePath, Err: fmt.Errorf("zero or unknown duration")}
	}

	offset := float64(durationSeconds) * 0.10

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", fmt.Sprintf("%.2f", offset),
		"-i", filePath,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		metrics.DerivationsTotal.WithLabelValues("thumbnail", "error").Inc()
		return "", &ThumbnailError{Path: filePath, Err: fmt.Errorf("ffmpeg: %w - %s", err, stderr.String())}
	}

	if stdout.Len() == 0 {
		metrics.DerivationsTotal.WithLabelValues("thumbnail", "error").Inc()
		return "", &ThumbnailError{Path: filePath, Err: fmt.Errorf("ffmpeg produced no frame")}
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		metrics.DerivationsTotal.WithLabelValues("thumbnail", "error").Inc()
		return "", &ThumbnailError{Path: filePath, Err: fmt.Errorf("decode frame: %w", err)}
	}

	thumb := imaging.Fit(img, thumbWidth, thumbHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		metrics.DerivationsTotal.WithLabelValues("thumbnail", "error").Inc()
		return "", &ThumbnailError{Path: filePath, Err: fmt.Errorf("encode thumbnail: %w", err)}
	}

	outPath := filepath.Join(g.artifactsDir, fmt.Sprintf("%d.jpg", videoID))
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		metrics.DerivationsTotal.WithLabelValues("thumbnail", "error").Inc()
		return "", &ThumbnailError{Path: filePath, Err: fmt.Errorf("write thumbnail: %w", err)}
	}

	metrics.DerivationsTotal.WithLabelValues("thumbnail", "success").Inc()
	metrics.DerivationDuration.WithLabelValues("thumbnail").Observe(time.Since(start).Seconds())

	logging.Debug("Thumbnail written: %s", outPath)
	return fmt.Sprintf("/thumbnails/%d.jpg", videoID), nil
}

// Preview extracts a 3-second animated loop starting at the 5-second
// mark, downsampled to 320px wide at 10fps, written as
// <videoID>_preview.gif. Preview generation is best-effort: on any
// failure it returns an empty reference and no error, so a missing
// preview never blocks ingestion.
func (g *ArtifactGenerator) Preview(ctx context.Context, filePath string, videoID int64) string {
	start := time.Now()

	outPath := filepath.Join(g.artifactsDir, fmt.Sprintf("%d_preview.gif", videoID))

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-ss", fmt.Sprintf("%d", previewStartSeconds),
		"-t", fmt.Sprintf("%d", previewDuration),
		"-i", filePath,
		"-vf", fmt.Sprintf("scale=%d:-1,fps=%d", previewWidth, previewFPS),
		"-loop", "0",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		metrics.DerivationsTotal.WithLabelValues("preview", "error").Inc()
		logging.Debug("Preview generation failed for %s: %v - %s", filePath, err, stderr.String())
		return ""
	}

	metrics.DerivationsTotal.WithLabelValues("preview", "success").Inc()
	metrics.DerivationDuration.WithLabelValues("preview").Observe(time.Since(start).Seconds())

	logging.Debug("Preview written: %s", outPath)
	return fmt.Sprintf("/thumbnails/%d_preview.gif", videoID)
}
