package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/dataset"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func record(store string, item int64, supplier, category string, qty, sales float64, d int) dataset.Record {
	return dataset.Record{
		Store:       store,
		ItemCode:    item,
		Description: "ITEM",
		Category:    category,
		Supplier:    supplier,
		Quantity:    qty,
		TotalSales:  sales,
		SaleDate:    day(d),
	}
}

func marketSnapshot() dataset.Snapshot {
	return dataset.Snapshot{Records: []dataset.Record{
		record("S1", 100, "ACME FOODS", "BEVERAGES", 10, 100, 1),
		record("S2", 100, "ACME FOODS", "BEVERAGES", 5, 50, 2),
		record("S1", 200, "ACME FOODS", "SNACKS", 20, 60, 1),
		record("S1", 300, "GLOBEX", "BEVERAGES", 10, 90, 2),
		record("S3", 300, "GLOBEX", "BEVERAGES", 10, 100, 3),
	}}
}

func TestMarketOverview(t *testing.T) {
	a := NewAggregator(nil)

	overview, err := a.MarketOverview(marketSnapshot())
	require.NoError(t, err)

	assert.Equal(t, 400.0, overview.TotalSales)
	assert.Equal(t, 55.0, overview.TotalUnits)
	assert.Equal(t, 5, overview.TotalTransactions)
	assert.Equal(t, 3, overview.UniqueStores)
	assert.Equal(t, 2, overview.UniqueSuppliers)
	assert.Equal(t, 3, overview.UniqueSKUs)
	assert.InDelta(t, 80.0, overview.AvgTransactionValue, 1e-9)
	assert.Equal(t, day(1), overview.DateRangeStart)
	assert.Equal(t, day(3), overview.DateRangeEnd)

	_, err = a.MarketOverview(dataset.Snapshot{})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSupplierMetrics(t *testing.T) {
	a := NewAggregator(nil)

	metrics, err := a.SupplierMetrics(marketSnapshot(), "acme")
	require.NoError(t, err)

	assert.Equal(t, 210.0, metrics.TotalSales)
	assert.Equal(t, 35.0, metrics.TotalUnits)
	assert.Equal(t, 3, metrics.TotalTransactions)
	assert.InDelta(t, 52.5, metrics.MarketSharePct, 1e-9)
	assert.Equal(t, 2, metrics.UniqueSKUs)
	assert.Equal(t, 2, metrics.StoresPresent)
	assert.Equal(t, []string{"BEVERAGES", "SNACKS"}, metrics.Categories)

	_, err = a.SupplierMetrics(marketSnapshot(), "NOSUCH")
	assert.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestCategoryBreakdown(t *testing.T) {
	a := NewAggregator(nil)

	categories, err := a.CategoryBreakdown(marketSnapshot(), "acme")
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// Sales descending.
	assert.Equal(t, "BEVERAGES", categories[0].Category)
	assert.Equal(t, 150.0, categories[0].Sales)
	assert.InDelta(t, 150.0/210.0*100, categories[0].SalesSharePct, 1e-9)
	assert.Equal(t, "SNACKS", categories[1].Category)
	assert.Equal(t, 1, categories[1].UniqueSKUs)
}

func TestStoreRankings(t *testing.T) {
	a := NewAggregator(nil)

	rankings, err := a.StoreRankings(marketSnapshot(), "", 10)
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	assert.Equal(t, "S1", rankings[0].Store)
	assert.Equal(t, 250.0, rankings[0].Sales)
	assert.Equal(t, 3, rankings[0].Transactions)
	assert.InDelta(t, 250.0/3, rankings[0].AvgTransactionValue, 1e-9)
	assert.Equal(t, "S3", rankings[1].Store)
	assert.Equal(t, "S2", rankings[2].Store)

	top1, err := a.StoreRankings(marketSnapshot(), "", 1)
	require.NoError(t, err)
	require.Len(t, top1, 1)
	assert.Equal(t, "S1", top1[0].Store)
}

func TestTopSKUs(t *testing.T) {
	a := NewAggregator(nil)

	bySales, err := a.TopSKUs(marketSnapshot(), "", false, 10)
	require.NoError(t, err)
	require.Len(t, bySales, 3)
	assert.Equal(t, int64(300), bySales[0].ItemCode) // 190 in sales
	assert.Equal(t, int64(100), bySales[1].ItemCode) // 150
	assert.Equal(t, int64(200), bySales[2].ItemCode) // 60

	byUnits, err := a.TopSKUs(marketSnapshot(), "", true, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(200), byUnits[0].ItemCode) // 20 units
	assert.Equal(t, int64(300), byUnits[1].ItemCode) // 20 units, higher code loses tie
}

func TestDailyTrends(t *testing.T) {
	a := NewAggregator(nil)

	trends, err := a.DailyTrends(marketSnapshot(), "")
	require.NoError(t, err)
	require.Len(t, trends, 3)

	assert.Equal(t, day(1), trends[0].Date)
	assert.Equal(t, 160.0, trends[0].Sales)
	assert.Equal(t, 2, trends[0].Transactions)
	assert.Equal(t, day(3), trends[2].Date)
}

func TestExecutiveSummary(t *testing.T) {
	a := NewAggregator(nil)

	summary, err := a.ExecutiveSummary(marketSnapshot(), "acme")
	require.NoError(t, err)

	assert.Equal(t, "acme", summary.Supplier)
	assert.Equal(t, 400.0, summary.Market.TotalSales)
	assert.Equal(t, 210.0, summary.SupplierPerformance.TotalSales)
	assert.Len(t, summary.Categories, 2)
	assert.Len(t, summary.TopStores, 2)
	assert.Len(t, summary.TopProducts, 2)
	assert.Equal(t, "52.50%", summary.KeyMetrics.MarketShare)
	assert.Equal(t, "KES 210.00", summary.KeyMetrics.TotalSales)
	assert.Equal(t, "2 of 3 stores", summary.KeyMetrics.StoreCoverage)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-4200.5, "-4,200.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.value))
	}
}
