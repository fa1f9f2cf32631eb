package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	snapshots *SnapshotService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// SnapshotHealth describes the state of the loaded dataset
type SnapshotHealth struct {
	Status   string    `json:"status"`
	Records  int       `json:"records"`
	Source   string    `json:"source,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// VersionInfo represents build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version, buildTime string, snapshots *SnapshotService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("health service initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		snapshots: snapshots,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Health returns the overall service health. The service is degraded
// when no snapshot is available, since every analysis endpoint depends
// on it.
func (s *HealthService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Services: map[string]interface{}{
			"snapshot": s.snapshotHealth(),
		},
	}

	if s.snapshots == nil || !s.snapshots.Ready() {
		status.Status = "degraded"
	}

	return status
}

// Ready reports whether the service can serve analysis requests.
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.snapshots != nil && s.snapshots.Ready()
}

// Version returns build information.
func (s *HealthService) Version(ctx context.Context) VersionInfo {
	return VersionInfo{
		Version:   s.version,
		BuildTime: s.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func (s *HealthService) snapshotHealth() SnapshotHealth {
	if s.snapshots == nil {
		return SnapshotHealth{Status: "unavailable"}
	}

	snapshot := s.snapshots.Snapshot()
	health := SnapshotHealth{
		Status:   "loaded",
		Records:  snapshot.Len(),
		Source:   snapshot.Source,
		LoadedAt: s.snapshots.LoadedAt(),
	}
	if snapshot.IsEmpty() {
		health.Status = "empty"
	}
	return health
}
