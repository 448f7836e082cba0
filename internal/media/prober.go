package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"localtube/internal/logging"
	"localtube/internal/metrics"
)

// ProbeError indicates the external probe could not read a file as a
// media container. Callers treat it as "duration unknown", not fatal.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Prober extracts container metadata from video files via ffprobe.
type Prober struct{}

// NewProber creates a Prober.
func NewProber() *Prober {
	return &Prober{}
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns a video's duration in whole seconds.
func (p *Prober) Probe(ctx context.Context, filePath string) (int64, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		metrics.DerivationsTotal.WithLabelValues("probe", "error").Inc()
		return 0, &ProbeError{Path: filePath, Err: fmt.Errorf("ffprobe: %w - %s", err, stderr.String())}
	}

	var result probeFormat
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		metrics.DerivationsTotal.WithLabelValues("probe", "error").Inc()
		return 0, &ProbeError{Path: filePath, Err: fmt.Errorf("parse ffprobe output: %w", err)}
	}

	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		metrics.DerivationsTotal.WithLabelValues("probe", "error").Inc()
		return 0, &ProbeError{Path: filePath, Err: fmt.Errorf("no duration in container: %w", err)}
	}

	metrics.DerivationsTotal.WithLabelValues("probe", "success").Inc()
	metrics.DerivationDuration.WithLabelValues("probe").Observe(time.Since(start).Seconds())

	logging.Debug("Probed %s: %.1fs", filePath, seconds)
	return int64(seconds), nil
}
