package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rrp(v float64) *float64 { return &v }

func TestRealizedUnitPrice(t *testing.T) {
	tests := []struct {
		name      string
		record    Record
		wantPrice float64
		wantOK    bool
	}{
		{
			name:      "simple division",
			record:    Record{Quantity: 4, TotalSales: 10},
			wantPrice: 2.5,
			wantOK:    true,
		},
		{
			name:      "fractional quantity",
			record:    Record{Quantity: 0.5, TotalSales: 3},
			wantPrice: 6,
			wantOK:    true,
		},
		{
			name:      "negative values preserved",
			record:    Record{Quantity: -2, TotalSales: -5},
			wantPrice: 2.5,
			wantOK:    true,
		},
		{
			name:   "zero quantity undefined",
			record: Record{Quantity: 0, TotalSales: 10},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := RealizedUnitPrice(tt.record)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantPrice, price, 1e-9)
			}
		})
	}
}

func TestDiscountPct(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantPct float64
		wantOK  bool
	}{
		{
			name:    "selling below RRP",
			record:  Record{Quantity: 1, TotalSales: 8, RRP: rrp(10)},
			wantPct: 20,
			wantOK:  true,
		},
		{
			name:    "selling at RRP",
			record:  Record{Quantity: 2, TotalSales: 20, RRP: rrp(10)},
			wantPct: 0,
			wantOK:  true,
		},
		{
			name:    "selling above RRP is negative",
			record:  Record{Quantity: 1, TotalSales: 12, RRP: rrp(10)},
			wantPct: -20,
			wantOK:  true,
		},
		{
			name:   "missing RRP",
			record: Record{Quantity: 1, TotalSales: 8},
			wantOK: false,
		},
		{
			name:   "zero RRP",
			record: Record{Quantity: 1, TotalSales: 8, RRP: rrp(0)},
			wantOK: false,
		},
		{
			name:   "zero quantity",
			record: Record{Quantity: 0, TotalSales: 8, RRP: rrp(10)},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, ok := DiscountPct(tt.record)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantPct, pct, 1e-9)
			}
		})
	}
}

func TestMatchesSupplier(t *testing.T) {
	tests := []struct {
		name     string
		supplier string
		query    string
		want     bool
	}{
		{"exact match", "COCA-COLA CO", "COCA-COLA CO", true},
		{"case insensitive", "COCA-COLA CO", "coca-cola", true},
		{"substring", "THE COCA-COLA COMPANY LTD", "coca-cola", true},
		{"no match", "PEPSICO", "coca-cola", false},
		{"empty query matches all", "ANYONE", "", true},
		{"query longer than supplier", "COCA", "coca-cola", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesSupplier(Record{Supplier: tt.supplier}, tt.query)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterValid(t *testing.T) {
	snapshot := Snapshot{
		Source: "test.xlsx",
		Records: []Record{
			{Store: "A", Quantity: 2, TotalSales: 10},
			{Store: "B", Quantity: -1, TotalSales: -5},
			{Store: "C", Quantity: 0, TotalSales: 0},
			{Store: "D", Quantity: 3, TotalSales: 0},
		},
	}

	t.Run("default drops returns and zeros", func(t *testing.T) {
		out := FilterValid(snapshot, false, false)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "A", out.Records[0].Store)
		assert.Equal(t, "test.xlsx", out.Source)
	})

	t.Run("allow negatives keeps returns", func(t *testing.T) {
		out := FilterValid(snapshot, true, false)
		require.Equal(t, 2, out.Len())
		assert.Equal(t, "B", out.Records[1].Store)
	})

	t.Run("allow zeros keeps zero rows", func(t *testing.T) {
		out := FilterValid(snapshot, false, true)
		require.Equal(t, 2, out.Len())
		assert.Equal(t, "D", out.Records[1].Store)
	})

	t.Run("input not mutated", func(t *testing.T) {
		_ = FilterValid(snapshot, false, false)
		assert.Equal(t, 4, snapshot.Len())
	})
}

func TestFilterSupplier(t *testing.T) {
	snapshot := Snapshot{
		Records: []Record{
			{Store: "A", Supplier: "COCA-COLA CO"},
			{Store: "B", Supplier: "PEPSICO"},
			{Store: "C", Supplier: "Coca-Cola Bottlers"},
		},
	}

	out := FilterSupplier(snapshot, "coca-cola")
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "A", out.Records[0].Store)
	assert.Equal(t, "C", out.Records[1].Store)

	all := FilterSupplier(snapshot, "")
	assert.Equal(t, 3, all.Len())
}

func TestSnapshotAccessors(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
	}
	snapshot := Snapshot{
		Records: []Record{
			{Store: "A", ItemCode: 1, Supplier: "X", SaleDate: day(3)},
			{Store: "A", ItemCode: 2, Supplier: "Y", SaleDate: day(1)},
			{Store: "B", ItemCode: 1, Supplier: "X", SaleDate: day(9)},
		},
	}

	assert.Equal(t, 3, snapshot.Len())
	assert.False(t, snapshot.IsEmpty())
	assert.Equal(t, 2, snapshot.UniqueStores())
	assert.Equal(t, 2, snapshot.UniqueSuppliers())
	assert.Equal(t, 2, snapshot.UniqueItems())

	start, end := snapshot.DateRange()
	assert.Equal(t, day(1), start)
	assert.Equal(t, day(9), end)

	var empty Snapshot
	assert.True(t, empty.IsEmpty())
	start, end = empty.DateRange()
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}
