package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"localtube/internal/logging"
	"localtube/internal/metrics"
)

// Default timeout for catalog store operations
const defaultTimeout = 5 * time.Second

// Sentinel errors surfaced by the catalog store.
var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyIndexed is returned when an insert hits the path
	// uniqueness constraint; callers treat it as "skip", not a failure.
	ErrAlreadyIndexed = errors.New("already indexed")
	// ErrInvalidRating is returned when a rating update is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Database is the catalog store: it owns the folders and videos tables
// and every persisted mutation goes through it.
type Database struct {
	db      *sql.DB
	dbPath  string
	mu      sync.RWMutex
	stats   CatalogStats
	statsMu sync.RWMutex
}

// New opens (or creates) the catalog database at dbPath.
// dbPath must be the full path to the database file and its parent
// directory must already exist and be writable; use startup.LoadConfig
// for the directory validation.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Catalog database path: %s", dbPath)

	// WAL mode keeps Browse reads responsive while a scan is writing.
	// busy_timeout prevents "database is locked" errors under load.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Catalog database initialized at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	start := time.Now()
	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		relative_path TEXT,
		folder_path TEXT,
		title TEXT NOT NULL,
		duration INTEGER,
		size INTEGER NOT NULL DEFAULT 0,
		thumbnail TEXT,
		preview_path TEXT,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		last_played INTEGER,
		play_count INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT 'Uncategorized',
		rating INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		parent_path TEXT,
		video_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_videos_folder_path ON videos(folder_path);
	CREATE INDEX IF NOT EXISTS idx_videos_rating ON videos(rating DESC);
	CREATE INDEX IF NOT EXISTS idx_videos_play_count ON videos(play_count DESC);
	CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_videos_title ON videos(title COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_videos_category ON videos(category);
	CREATE INDEX IF NOT EXISTS idx_folders_parent_path ON folders(parent_path);
	`

	_, err := d.db.ExecContext(ctx, schema)
	recordQuery("initialize_schema", start, err)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// UpdateStats replaces the cached catalog statistics.
func (d *Database) UpdateStats(stats CatalogStats) {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	d.stats = stats
}

// GetStats returns the cached catalog statistics.
func (d *Database) GetStats() CatalogStats {
	d.statsMu.RLock()
	defer d.statsMu.RUnlock()
	return d.stats
}

// CalculateStats computes current catalog statistics.
func (d *Database) CalculateStats(ctx context.Context) (CatalogStats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var stats CatalogStats

	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM videos", &stats.TotalVideos},
		{"SELECT COUNT(*) FROM folders", &stats.TotalFolders},
		{"SELECT COUNT(DISTINCT category) FROM videos", &stats.TotalCategories},
		{"SELECT COUNT(*) FROM videos WHERE thumbnail IS NULL", &stats.MissingThumbnails},
	}

	for _, q := range queries {
		if err := d.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// UpdateDBMetrics exports database connection metrics.
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// recordQuery records catalog store query metrics.
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
