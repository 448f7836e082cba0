package scanner

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"localtube/internal/database"
	"localtube/internal/logging"
	"localtube/internal/media"
	"localtube/internal/mediatypes"
	"localtube/internal/metrics"
	"localtube/internal/workers"
)

// Cap on concurrent derivation workers; each worker spawns external
// ffmpeg/ffprobe processes, so the pool bound is a resource bound.
const maxDeriveWorkers = 8

// Scanner reconciles the on-disk library tree into the catalog and
// dispatches artifact derivation for newly discovered videos.
type Scanner struct {
	db        *database.Database
	prober    *media.Prober
	artifacts *media.ArtifactGenerator
	videosDir string

	numWorkers int

	stopChan         chan struct{}
	scanMu           sync.Mutex
	isScanning       bool
	lastScanTime     time.Time
	initialScanDone  bool
	initialScanError error
	startTime        time.Time

	videosDiscovered  atomic.Int64
	foldersCreated    atomic.Int64
	derivationsDone   atomic.Int64
	derivationsFailed atomic.Int64
	scanProgress      atomic.Value
}

// ScanProgress tracks the progress of a running scan.
type ScanProgress struct {
	VideosDiscovered  int64     `json:"videosDiscovered"`
	FoldersCreated    int64     `json:"foldersCreated"`
	DerivationsDone   int64     `json:"derivationsDone"`
	DerivationsFailed int64     `json:"derivationsFailed"`
	IsScanning        bool      `json:"isScanning"`
	StartedAt         time.Time `json:"startedAt,omitempty"`
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready            bool          `json:"ready"`
	Scanning         bool          `json:"scanning"`
	StartTime        time.Time     `json:"startTime"`
	Uptime           string        `json:"uptime"`
	LastScanned      time.Time     `json:"lastScanned,omitempty"`
	InitialScanError string        `json:"initialScanError,omitempty"`
	VideosDiscovered int64         `json:"videosDiscovered"`
	FoldersCreated   int64         `json:"foldersCreated"`
	ScanProgress     *ScanProgress `json:"scanProgress,omitempty"`
}

// deriveJob is one video queued for artifact derivation.
type deriveJob struct {
	videoID int64
	path    string
}

// New creates a Scanner over the given library root.
func New(db *database.Database, prober *media.Prober, artifacts *media.ArtifactGenerator, videosDir string) *Scanner {
	s := &Scanner{
		db:         db,
		prober:     prober,
		artifacts:  artifacts,
		videosDir:  videosDir,
		numWorkers: workers.ForCPU(maxDeriveWorkers),
		stopChan:   make(chan struct{}),
		startTime:  time.Now(),
	}
	s.scanProgress.Store(ScanProgress{})
	return s
}

// Start runs the initial library scan in the background.
func (s *Scanner) Start() {
	go func() {
		logging.Info("Starting initial library scan in background...")
		if err := s.Synchronize(context.Background()); err != nil {
			logging.Error("Initial scan error: %v", err)
			s.scanMu.Lock()
			s.initialScanError = err
			s.scanMu.Unlock()
		}
	}()
}

// Stop aborts any running scan.
func (s *Scanner) Stop() {
	close(s.stopChan)
}

// Synchronize walks the library root depth-first and reconciles it into
// the catalog: missing folders are created parent-before-child, new
// video files are inserted in the pending-artifacts state and queued
// for derivation on a bounded worker pool. Per-item failures are logged
// and never abort the walk; a failed directory read aborts only that
// subtree. Safe to call repeatedly: path uniqueness makes re-runs
// idempotent and already-indexed videos are never re-derived.
func (s *Scanner) Synchronize(ctx context.Context) error {
	if !s.tryStartScan() {
		logging.Info("Scan already in progress, skipping...")
		return nil
	}
	defer s.finishScan()

	metrics.ScannerIsRunning.Set(1)
	defer metrics.ScannerIsRunning.Set(0)
	metrics.ScannerRunsTotal.Inc()
	metrics.ScannerDeriveWorkers.Set(float64(s.numWorkers))

	startTime := time.Now()
	logging.Info("Starting library scan of %s (%d derivation workers)", s.videosDir, s.numWorkers)

	s.resetCounters(startTime)

	jobs := make(chan deriveJob, 256)
	var wg sync.WaitGroup
	for i := 0; i < s.numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.deriveWorker(ctx, id, jobs)
		}(i)
	}

	s.scanFolder(ctx, s.videosDir, "", jobs)

	close(jobs)
	wg.Wait()

	s.finalizeScan(startTime)
	return ctx.Err()
}

// scanFolder processes one directory level: folders are registered and
// recursed into, video files are inserted and queued for derivation.
// A readdir failure abandons this subtree only.
func (s *Scanner) scanFolder(ctx context.Context, dir, relPath string, jobs chan<- deriveJob) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Warn("Error reading directory %s: %v", dir, err)
		metrics.ScannerErrors.Inc()
		return
	}

	for _, entry := range entries {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		// Catalog paths are slash-separated on every platform.
		entryRelPath := name
		if relPath != "" {
			entryRelPath = path.Join(relPath, name)
		}

		if entry.IsDir() {
			s.registerFolder(ctx, entryRelPath, name, relPath)
			s.scanFolder(ctx, filepath.Join(dir, name), entryRelPath, jobs)
			continue
		}

		if !mediatypes.IsVideo(name) {
			continue
		}

		s.registerVideo(ctx, filepath.Join(dir, name), entryRelPath, name, relPath, entry, jobs)
	}
}

// registerFolder creates the folder row if this is the first time the
// directory has been seen. The parent row always exists already because
// the walk is depth-first from the root.
func (s *Scanner) registerFolder(ctx context.Context, folderPath, name, parentPath string) {
	var parent *string
	if parentPath != "" {
		parent = &parentPath
	}

	created, err := s.db.InsertFolderIfAbsent(ctx, folderPath, name, parent)
	if err != nil {
		logging.Warn("Error registering folder %s: %v", folderPath, err)
		metrics.ScannerErrors.Inc()
		return
	}
	if created {
		s.foldersCreated.Add(1)
		metrics.ScannerFoldersCreated.Inc()
		s.updateProgress()
	}
}

// registerVideo inserts a newly discovered video in the
// pending-artifacts state, bumps the owning folder's video count and
// queues derivation. Videos already in the catalog are skipped without
// re-deriving, even if the on-disk content changed.
func (s *Scanner) registerVideo(ctx context.Context, absPath, relPath, filename, folderPath string, entry os.DirEntry, jobs chan<- deriveJob) {
	info, err := entry.Info()
	if err != nil {
		logging.Warn("Error stating file %s: %v", absPath, err)
		metrics.ScannerErrors.Inc()
		return
	}

	var folder *string
	if folderPath != "" {
		folder = &folderPath
	}

	title := mediatypes.TitleFromFilename(filename)

	id, err := s.db.InsertVideo(ctx, filename, absPath, relPath, folder, title, info.Size())
	if err == database.ErrAlreadyIndexed {
		return
	}
	if err != nil {
		logging.Warn("Error inserting video %s: %v", absPath, err)
		metrics.ScannerErrors.Inc()
		return
	}

	s.videosDiscovered.Add(1)
	metrics.ScannerVideosDiscovered.Inc()
	s.updateProgress()

	if folder != nil {
		if err := s.db.IncrementFolderVideoCount(ctx, *folder); err != nil {
			logging.Warn("Error incrementing video count for %s: %v", *folder, err)
			metrics.ScannerErrors.Inc()
		}
	}

	select {
	case jobs <- deriveJob{videoID: id, path: absPath}:
	case <-s.stopChan:
	case <-ctx.Done():
	}
}

// deriveWorker consumes derivation jobs: probe duration, generate the
// thumbnail and preview, and record whatever succeeded. Every failure
// is per-video; the scan never aborts because one file is corrupt.
func (s *Scanner) deriveWorker(ctx context.Context, id int, jobs <-chan deriveJob) {
	logging.Debug("Derivation worker %d started", id)

	for job := range jobs {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}
		s.derive(ctx, job)
	}

	logging.Debug("Derivation worker %d finished", id)
}

func (s *Scanner) derive(ctx context.Context, job deriveJob) {
	var durationPtr *int64
	var thumbPtr, previewPtr *string
	failed := false

	duration, err := s.prober.Probe(ctx, job.path)
	if err != nil {
		logging.Warn("Probe failed for %s: %v", job.path, err)
		failed = true
	} else {
		durationPtr = &duration
	}

	thumb, err := s.artifacts.Thumbnail(ctx, job.path, job.videoID, duration)
	if err != nil {
		logging.Warn("Thumbnail failed for %s: %v", job.path, err)
		failed = true
	} else {
		thumbPtr = &thumb
	}

	if preview := s.artifacts.Preview(ctx, job.path, job.videoID); preview != "" {
		previewPtr = &preview
	}

	if durationPtr != nil || thumbPtr != nil || previewPtr != nil {
		if err := s.db.UpdateArtifacts(ctx, job.videoID, durationPtr, thumbPtr, previewPtr); err != nil {
			logging.Warn("Error recording artifacts for video %d: %v", job.videoID, err)
			metrics.ScannerErrors.Inc()
			failed = true
		}
	}

	if failed {
		s.derivationsFailed.Add(1)
	} else {
		s.derivationsDone.Add(1)
	}
	s.updateProgress()
}

// tryStartScan attempts to start a scan, returns false if one is
// already in progress.
func (s *Scanner) tryStartScan() bool {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	if s.isScanning {
		return false
	}
	s.isScanning = true
	return true
}

func (s *Scanner) finishScan() {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	s.isScanning = false
	s.initialScanDone = true
}

func (s *Scanner) resetCounters(startTime time.Time) {
	s.videosDiscovered.Store(0)
	s.foldersCreated.Store(0)
	s.derivationsDone.Store(0)
	s.derivationsFailed.Store(0)
	s.scanProgress.Store(ScanProgress{
		IsScanning: true,
		StartedAt:  startTime,
	})
}

func (s *Scanner) updateProgress() {
	if progress, ok := s.scanProgress.Load().(ScanProgress); ok && progress.IsScanning {
		s.scanProgress.Store(ScanProgress{
			VideosDiscovered:  s.videosDiscovered.Load(),
			FoldersCreated:    s.foldersCreated.Load(),
			DerivationsDone:   s.derivationsDone.Load(),
			DerivationsFailed: s.derivationsFailed.Load(),
			IsScanning:        true,
			StartedAt:         progress.StartedAt,
		})
	}
}

func (s *Scanner) finalizeScan(startTime time.Time) {
	duration := time.Since(startTime)

	s.scanMu.Lock()
	s.lastScanTime = time.Now()
	s.scanMu.Unlock()

	s.scanProgress.Store(ScanProgress{
		VideosDiscovered:  s.videosDiscovered.Load(),
		FoldersCreated:    s.foldersCreated.Load(),
		DerivationsDone:   s.derivationsDone.Load(),
		DerivationsFailed: s.derivationsFailed.Load(),
		IsScanning:        false,
	})

	stats, err := s.db.CalculateStats(context.Background())
	if err != nil {
		logging.Warn("Error calculating catalog stats: %v", err)
	}
	stats.LastScanned = s.lastScanTime
	stats.ScanDuration = duration.String()
	s.db.UpdateStats(stats)

	metrics.ScannerLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.ScannerLastRunDuration.Set(duration.Seconds())

	logging.Info("Scan complete: %d new videos, %d new folders in %v (derivations: %d ok, %d failed)",
		s.videosDiscovered.Load(), s.foldersCreated.Load(), duration,
		s.derivationsDone.Load(), s.derivationsFailed.Load())
}

// TriggerScan starts a scan in the background; completion is observable
// only through subsequent catalog state, not a synchronous response.
func (s *Scanner) TriggerScan() {
	go func() {
		if err := s.Synchronize(context.Background()); err != nil {
			logging.Error("Triggered rescan failed: %v", err)
		}
	}()
}

// IsScanning returns whether a scan is currently in progress.
func (s *Scanner) IsScanning() bool {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.isScanning
}

// LastScanTime returns the completion time of the last scan.
func (s *Scanner) LastScanTime() time.Time {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.lastScanTime
}

// IsReady returns true once the initial scan has completed.
func (s *Scanner) IsReady() bool {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.initialScanDone
}

// GetProgress returns the current scan progress.
func (s *Scanner) GetProgress() ScanProgress {
	if progress, ok := s.scanProgress.Load().(ScanProgress); ok {
		return progress
	}
	return ScanProgress{}
}

// GetHealthStatus returns detailed health information.
func (s *Scanner) GetHealthStatus() HealthStatus {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	progress := s.GetProgress()

	status := HealthStatus{
		Ready:            s.initialScanDone,
		Scanning:         s.isScanning,
		StartTime:        s.startTime,
		Uptime:           time.Since(s.startTime).String(),
		LastScanned:      s.lastScanTime,
		VideosDiscovered: s.videosDiscovered.Load(),
		FoldersCreated:   s.foldersCreated.Load(),
	}

	if s.isScanning {
		status.ScanProgress = &progress
	}

	if s.initialScanError != nil {
		status.InitialScanError = s.initialScanError.Error()
	}

	return status
}
