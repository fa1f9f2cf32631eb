package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/dataset"
)

func cleanRecord(store, supplier string) dataset.Record {
	rrp := 10.0
	return dataset.Record{
		Store:         store,
		ItemCode:      100,
		Barcode:       "6001234567890",
		Description:   "COLA 330ML",
		Category:      "BEVERAGES",
		Department:    "DRINKS",
		SubDepartment: "SOFT DRINKS",
		Section:       "CARBONATED",
		Quantity:      5,
		TotalSales:    45,
		RRP:           &rrp,
		Supplier:      supplier,
		SaleDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultConfig(), nil)
	require.NoError(t, err)
	return a
}

func TestAnalyzeCleanDataset(t *testing.T) {
	a := newTestAnalyzer(t)
	snapshot := dataset.Snapshot{Records: []dataset.Record{
		cleanRecord("S1", "ACME"),
		cleanRecord("S1", "ACME"),
		cleanRecord("S2", "GLOBEX"),
	}}

	report, err := a.Analyze(snapshot)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 2, report.TotalStores)
	assert.Equal(t, 2, report.TotalSuppliers)
	assert.InDelta(t, 1.0, report.OverallCompleteness, 1e-9)
	assert.InDelta(t, 1.0, report.OverallConsistency, 1e-9)
	assert.Empty(t, report.CriticalIssues)

	require.Len(t, report.StoreScores, 2)
	for _, s := range report.StoreScores {
		assert.Equal(t, "store", s.EntityType)
		assert.True(t, s.Trusted)
		assert.Equal(t, "A", s.Grade)
		assert.InDelta(t, 1.0, s.Overall, 0.05)
	}
	assert.Equal(t, 2, report.TrustedStores)
	assert.Equal(t, 0, report.UntrustedStores)
	assert.Equal(t, 2, report.TrustedSuppliers)
}

func TestAnalyzeEmptySnapshot(t *testing.T) {
	a := newTestAnalyzer(t)
	_, err := a.Analyze(dataset.Snapshot{})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestAnalyzeFlagsDirtyEntity(t *testing.T) {
	a := newTestAnalyzer(t)

	var records []dataset.Record
	for i := 0; i < 10; i++ {
		records = append(records, cleanRecord("GOOD STORE", "ACME"))
	}
	// A store where most rows are returns or empty on required fields.
	for i := 0; i < 10; i++ {
		r := cleanRecord("BAD STORE", "ACME")
		r.Quantity = -1
		r.TotalSales = -9
		r.Description = ""
		r.Category = ""
		records = append(records, r)
	}

	report, err := a.Analyze(dataset.Snapshot{Records: records})
	require.NoError(t, err)

	require.Len(t, report.StoreScores, 2)
	// Sorted by overall score descending.
	assert.Equal(t, "GOOD STORE", report.StoreScores[0].EntityName)
	assert.Equal(t, "BAD STORE", report.StoreScores[1].EntityName)

	bad := report.StoreScores[1]
	assert.False(t, bad.Trusted)
	assert.Equal(t, "C", bad.Grade)
	assert.InDelta(t, 0.5, bad.Validity, 1e-9)
	assert.InDelta(t, 0.75, bad.Completeness, 1e-9)
	assert.NotEmpty(t, bad.Issues)

	assert.Equal(t, 1, report.TrustedStores)
	assert.Equal(t, 1, report.UntrustedStores)
}

func TestAnalyzeCriticalIssueForNegatives(t *testing.T) {
	a := newTestAnalyzer(t)

	var records []dataset.Record
	for i := 0; i < 8; i++ {
		records = append(records, cleanRecord("S1", "ACME"))
	}
	for i := 0; i < 2; i++ {
		r := cleanRecord("S1", "ACME")
		r.Quantity = -5
		records = append(records, r)
	}

	report, err := a.Analyze(dataset.Snapshot{Records: records})
	require.NoError(t, err)

	// 20% negative rows is far above the 5% critical cutoff.
	require.NotEmpty(t, report.CriticalIssues)
	assert.Equal(t, "negative_values", report.CriticalIssues[0].Type)
	assert.Equal(t, SeverityCritical, report.CriticalIssues[0].Severity)
	assert.Less(t, report.OverallValidity, 1.0)
}

func TestScoreConsistencyAboveRRP(t *testing.T) {
	a := newTestAnalyzer(t)

	overpriced := cleanRecord("S1", "ACME")
	overpriced.TotalSales = 75 // 15.0/unit vs RRP 10, >20% above

	score := a.scoreConsistency([]dataset.Record{
		cleanRecord("S1", "ACME"),
		overpriced,
	}, false, nil)

	// One of two priced rows inconsistent: 1 - 50/30 floors at 0.
	assert.Equal(t, 0.0, score)

	perfect := a.scoreConsistency([]dataset.Record{cleanRecord("S1", "ACME")}, false, nil)
	assert.Equal(t, 1.0, perfect)

	// No priced rows at all scores a neutral 1.0.
	noRRP := cleanRecord("S1", "ACME")
	noRRP.RRP = nil
	assert.Equal(t, 1.0, a.scoreConsistency([]dataset.Record{noRRP}, false, nil))
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, "A"}, {0.9, "A"},
		{0.85, "B"}, {0.8, "B"},
		{0.75, "C"}, {0.7, "C"},
		{0.65, "D"}, {0.6, "D"},
		{0.55, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeFor(tt.score), "score %.2f", tt.score)
	}
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 10.0, quantile(values, 0.99))
	assert.Equal(t, 5.0, quantile(values, 0.5))
	assert.Equal(t, 9.0, quantile(values, 0.9))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"weights must sum to one", func(c *Config) { c.ValidityWeight = 0.5 }, true},
		{"quantile out of range", func(c *Config) { c.PriceOutlierQuantile = 1.0 }, true},
		{"negative tolerance", func(c *Config) { c.MaxZeroPct = 0 }, true},
		{"trust score above one", func(c *Config) { c.MinTrustScore = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
