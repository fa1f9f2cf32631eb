package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/promo"
	"retailpulse/internal/quality"
)

func floatPtr(v float64) *float64 { return &v }

func readReport(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimPrefix(string(data), string(utf8BOM))
}

func TestWritePromoReport(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	summary := promo.Summary{
		Supplier:        "ACME",
		TotalProducts:   2,
		ProductsOnPromo: 1,
		PromoSKUPct:     50.0,
		AvgUpliftPct:    floatPtr(42.5),
		Insights:        []string{"1 of 2 SKUs currently on promotion (50.0%)"},
		GeneratedAt:     time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	products := []promo.ProductResult{
		{
			ItemCode:       100,
			Description:    "SPARKLING WATER 1L",
			Supplier:       "ACME",
			PromoStores:    2,
			BaselineStores: 1,
			PromoUnits:     140,
			BaselineUnits:  40,
			UpliftPct:      floatPtr(42.5),
			CoveragePct:    66.7,
			Status:         promo.StatusOnPromo,
		},
		{
			ItemCode:    200,
			Description: "STILL WATER 1L",
			Supplier:    "ACME",
			TotalStores: 1,
			Status:      promo.StatusInsufficientData,
		},
	}

	require.NoError(t, w.WritePromoReport("promo.csv", summary, products))

	content := readReport(t, filepath.Join(dir, "promo.csv"))
	assert.Contains(t, content, "PROMOTION ANALYSIS")
	assert.Contains(t, content, "Supplier:,ACME")
	assert.Contains(t, content, "Avg Uplift %:,42.50")
	assert.Contains(t, content, "1 of 2 SKUs currently on promotion (50.0%)")
	assert.Contains(t, content, "100,SPARKLING WATER 1L,ACME,on_promo,2,1,140,40,42.50,,66.7")

	// nil uplift renders as an empty cell, not zero
	assert.Contains(t, content, "200,STILL WATER 1L,ACME,insufficient_data,0,0,0,0,,,0.0")
}

func TestWritePromoReportAllSuppliers(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	summary := promo.Summary{GeneratedAt: time.Now()}
	require.NoError(t, w.WritePromoReport("promo.csv", summary, nil))

	content := readReport(t, filepath.Join(dir, "promo.csv"))
	assert.Contains(t, content, "Supplier:,ALL")
}

func TestWriteQualityReport(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	report := quality.Report{
		GeneratedAt:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		TotalRecords:        120,
		TotalStores:         3,
		TotalSuppliers:      2,
		OverallCompleteness: 0.95,
		OverallValidity:     0.9,
		OverallConsistency:  0.88,
		TrustedStores:       2,
		TrustedSuppliers:    2,
		StoreScores: []quality.Score{
			{
				EntityName:   "NAIROBI CBD",
				EntityType:   "store",
				Completeness: 0.97,
				Validity:     0.92,
				Consistency:  0.9,
				Overall:      0.93,
				Grade:        "A",
				TotalRecords: 60,
				Trusted:      true,
			},
		},
		CriticalIssues: []quality.Issue{
			{
				Type:        "null_values",
				Severity:    "critical",
				Field:       "supplier",
				Description: "supplier missing on too many rows",
				Count:       14,
				Percentage:  11.7,
			},
		},
	}

	require.NoError(t, w.WriteQualityReport("quality.csv", report))

	content := readReport(t, filepath.Join(dir, "quality.csv"))
	assert.Contains(t, content, "DATA QUALITY ASSESSMENT")
	assert.Contains(t, content, "Total Records:,120")
	assert.Contains(t, content, "NAIROBI CBD,store,0.97,0.92,0.90,0.93,A,60,yes")
	assert.Contains(t, content, "CRITICAL ISSUES")
	assert.Contains(t, content, "null_values,critical,supplier,supplier missing on too many rows,14,11.7")
}
