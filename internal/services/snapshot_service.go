package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"retailpulse/internal/config"
	"retailpulse/internal/dataset"
	"retailpulse/internal/infrastructure"
)

// SnapshotService owns the in-memory transaction snapshot. The snapshot
// is loaded once at startup and swapped atomically on Reload, so readers
// never observe a half-loaded dataset.
type SnapshotService struct {
	cfg     config.DataConfig
	logger  *slog.Logger
	metrics *infrastructure.Metrics

	mu       sync.RWMutex
	snapshot dataset.Snapshot
	loadedAt time.Time
}

// NewSnapshotService creates a snapshot service. The snapshot is empty
// until Load is called.
func NewSnapshotService(cfg config.DataConfig, metrics *infrastructure.Metrics, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Load reads the configured workbook and replaces the current snapshot.
// Rows with negative or zero quantities are dropped at ingest unless the
// corresponding allow flag is set.
func (s *SnapshotService) Load(ctx context.Context) error {
	start := time.Now()

	snapshot, err := dataset.LoadFile(s.cfg.SnapshotPath, s.logger)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	loaded := snapshot.Len()
	snapshot = dataset.FilterValid(snapshot, s.cfg.AllowNegatives, s.cfg.AllowZeros)

	s.mu.Lock()
	s.snapshot = snapshot
	s.loadedAt = time.Now()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DatasetRecords.Set(float64(snapshot.Len()))
	}

	s.logger.InfoContext(ctx, "snapshot loaded",
		slog.String("path", s.cfg.SnapshotPath),
		slog.Int("records", snapshot.Len()),
		slog.Int("dropped", loaded-snapshot.Len()),
		slog.Int("skipped_rows", snapshot.SkippedRows),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

// Snapshot returns the current snapshot. The returned value shares the
// underlying record slice, which callers must treat as read-only.
func (s *SnapshotService) Snapshot() dataset.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// LoadedAt reports when the current snapshot was installed. The zero
// time means no snapshot has been loaded.
func (s *SnapshotService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Ready reports whether a non-empty snapshot is available.
func (s *SnapshotService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.snapshot.IsEmpty()
}
