package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"retailpulse/internal/infrastructure"
)

func writeTestSnapshot(t *testing.T) string {
	t.Helper()

	rows := [][]interface{}{
		{"Store Name", "Item_Code", "Item Barcode", "Description", "Category",
			"Department", "Sub-Department", "Section", "Quantity", "Total Sales",
			"RRP", "Supplier", "Date Of Sale"},
		{"STORE ALPHA", "1001", "", "COLA", "BEV", "DRINKS", "SOFT", "CARB",
			"12", "96.0", "10.0", "ACME FOODS", "2026-08-01"},
		{"STORE BETA", "1001", "", "COLA", "BEV", "DRINKS", "SOFT", "CARB",
			"4", "40.0", "10.0", "ACME FOODS", "2026-08-01"},
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

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	t.Setenv("RETAILPULSE_LOGGING_OUTPUT", "stdout")
	t.Setenv("RETAILPULSE_DATA_SNAPSHOT_PATH", writeTestSnapshot(t))
	t.Setenv("RETAILPULSE_SECURITY_RATE_LIMIT_ENABLED", "false")

	app, err := NewApplication()
	require.NoError(t, err)
	return app
}

func TestNewApplicationWiring(t *testing.T) {
	app := newTestApplication(t)

	require.NotNil(t, app.Router)
	require.NotNil(t, app.Server)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.True(t, app.Snapshots.Ready())
}

func TestApplicationServesRoutes(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		path string
		want int
	}{
		{"/api/health/live", http.StatusOK},
		{"/api/health", http.StatusOK},
		{"/api/version", http.StatusOK},
		{"/api/promos/ACME", http.StatusOK},
		{"/api/quality", http.StatusOK},
		{"/api/kpis/market", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, tt.path)
	}
}

func TestApplicationStartsDegradedWithoutSnapshot(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	t.Setenv("RETAILPULSE_LOGGING_OUTPUT", "stdout")
	t.Setenv("RETAILPULSE_DATA_SNAPSHOT_PATH", filepath.Join(t.TempDir(), "missing.xlsx"))

	app, err := NewApplication()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplicationStop(t *testing.T) {
	app := newTestApplication(t)

	// Stop without Start exercises the shutdown path on an idle server.
	require.NoError(t, app.Stop(context.Background()))
}
