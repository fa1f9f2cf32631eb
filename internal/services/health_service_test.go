package services

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/config"
	"retailpulse/internal/dataset"
)

func TestHealthServiceDegradedWithoutSnapshot(t *testing.T) {
	snapshots := NewSnapshotService(config.DataConfig{SnapshotPath: "unused.xlsx"}, nil, testLogger())
	svc := NewHealthService("1.0.0", "", snapshots, testLogger())

	status := svc.Health(context.Background())

	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.False(t, svc.Ready(context.Background()))

	snapshot, ok := status.Services["snapshot"].(SnapshotHealth)
	require.True(t, ok)
	assert.Equal(t, "empty", snapshot.Status)
}

func TestHealthServiceHealthyWithSnapshot(t *testing.T) {
	snapshots := NewSnapshotService(config.DataConfig{SnapshotPath: "unused.xlsx"}, nil, testLogger())
	snapshots.mu.Lock()
	snapshots.snapshot = dataset.Snapshot{
		Records: []dataset.Record{{Store: "S1", ItemCode: 1, Quantity: 1, TotalSales: 5}},
		Source:  "test.xlsx",
	}
	snapshots.loadedAt = time.Now()
	snapshots.mu.Unlock()

	svc := NewHealthService("1.0.0", "2026-08-30", snapshots, testLogger())

	status := svc.Health(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, svc.Ready(context.Background()))

	snapshot, ok := status.Services["snapshot"].(SnapshotHealth)
	require.True(t, ok)
	assert.Equal(t, "loaded", snapshot.Status)
	assert.Equal(t, 1, snapshot.Records)
	assert.Equal(t, "test.xlsx", snapshot.Source)
}

func TestHealthServiceVersion(t *testing.T) {
	svc := NewHealthService("2.1.0", "2026-08-30", nil, testLogger())

	info := svc.Version(context.Background())
	assert.Equal(t, "2.1.0", info.Version)
	assert.Equal(t, "2026-08-30", info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}
