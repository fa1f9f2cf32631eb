package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"retailpulse/internal/config"
	"retailpulse/internal/infrastructure"
)

func writeSnapshotFile(t *testing.T) string {
	t.Helper()

	header := []interface{}{
		"Store Name", "Item_Code", "Item Barcode", "Description", "Category",
		"Department", "Sub-Department", "Section", "Quantity", "Total Sales",
		"RRP", "Supplier", "Date Of Sale",
	}
	rows := [][]interface{}{
		header,
		{"STORE ALPHA", "1001", "", "COLA", "BEV", "DRINKS", "SOFT", "CARB",
			"2", "6.0", "3.0", "ACME", "2026-08-01"},
		{"STORE BETA", "1001", "", "COLA", "BEV", "DRINKS", "SOFT", "CARB",
			"-1", "-3.0", "3.0", "ACME", "2026-08-02"},
		{"STORE BETA", "2002", "", "CHIPS", "SNACKS", "GROCERY", "SNACKS", "CRISPS",
			"0", "0", "", "SNACKO", "2026-08-02"},
	}

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "transactions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSnapshotServiceLoad(t *testing.T) {
	svc := NewSnapshotService(config.DataConfig{
		SnapshotPath: writeSnapshotFile(t),
	}, infrastructure.NewMetrics(), testLogger())

	assert.False(t, svc.Ready())
	assert.True(t, svc.LoadedAt().IsZero())

	require.NoError(t, svc.Load(context.Background()))

	// Negative and zero rows are dropped at ingest by default.
	assert.Equal(t, 1, svc.Snapshot().Len())
	assert.True(t, svc.Ready())
	assert.False(t, svc.LoadedAt().IsZero())
}

func TestSnapshotServiceAllowFlags(t *testing.T) {
	svc := NewSnapshotService(config.DataConfig{
		SnapshotPath:   writeSnapshotFile(t),
		AllowNegatives: true,
		AllowZeros:     true,
	}, nil, testLogger())

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 3, svc.Snapshot().Len())
}

func TestSnapshotServiceLoadMissingFile(t *testing.T) {
	svc := NewSnapshotService(config.DataConfig{
		SnapshotPath: filepath.Join(t.TempDir(), "missing.xlsx"),
	}, nil, testLogger())

	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.False(t, svc.Ready())
}
