package promo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/dataset"
)

// txn builds one transaction at the given unit price. RRP of zero means no
// recommended price is available.
func txn(store string, item int64, qty, unitPrice, rrp float64, supplier string) dataset.Record {
	r := dataset.Record{
		Store:       store,
		ItemCode:    item,
		Description: "ITEM",
		Supplier:    supplier,
		Quantity:    qty,
		TotalSales:  qty * unitPrice,
		SaleDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if rrp != 0 {
		r.RRP = &rrp
	}
	return r
}

func TestClassifyStoresThresholdBoundary(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice float64
		wantPromo bool
	}{
		{"discount exactly at threshold promotes", 9.0, true}, // 10% off RRP 10
		{"discount just below threshold stays baseline", 9.01, false},
		{"deep discount promotes", 7.5, true},
		{"full price stays baseline", 10.0, false},
		{"above RRP stays baseline", 11.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []dataset.Record{txn("S1", 100, 5, tt.unitPrice, 10.0, "ACME")}
			obs := classifyStores(records, DefaultDiscountThresholdPct)
			require.Len(t, obs, 1)
			assert.Equal(t, tt.wantPromo, obs[0].OnPromo)
		})
	}
}

func TestClassifyStoresNoRRPNeverPromotes(t *testing.T) {
	// Half price, but with no RRP there is nothing to discount against.
	records := []dataset.Record{txn("S1", 100, 5, 5.0, 0, "ACME")}
	obs := classifyStores(records, DefaultDiscountThresholdPct)

	require.Len(t, obs, 1)
	assert.Nil(t, obs[0].MeanDiscountPct)
	assert.False(t, obs[0].OnPromo)
}

func TestClassifyStoresAggregatesCell(t *testing.T) {
	records := []dataset.Record{
		txn("S1", 100, 4, 8.0, 10.0, "ACME"),  // 20% off
		txn("S1", 100, 6, 10.0, 10.0, "ACME"), // at RRP
		txn("S2", 100, 3, 10.0, 10.0, "ACME"),
		txn("S1", 200, 2, 5.0, 5.0, "ACME"),
	}
	obs := classifyStores(records, DefaultDiscountThresholdPct)
	require.Len(t, obs, 3)

	// Ordered by item code then store.
	first := obs[0]
	assert.Equal(t, "S1", first.Store)
	assert.Equal(t, int64(100), first.ItemCode)
	assert.Equal(t, 10.0, first.Units)
	assert.InDelta(t, 92.0, first.SalesValue, 1e-9)
	assert.InDelta(t, 9.2, first.AvgPrice, 1e-9)
	assert.Equal(t, 2, first.Transactions)
	require.NotNil(t, first.MeanDiscountPct)
	assert.InDelta(t, 10.0, *first.MeanDiscountPct, 1e-9) // mean of 20% and 0%
	assert.True(t, first.OnPromo)
	require.NotNil(t, first.MedianRRP)
	assert.Equal(t, 10.0, *first.MedianRRP)

	assert.Equal(t, "S2", obs[1].Store)
	assert.Equal(t, int64(200), obs[2].ItemCode)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
	assert.Equal(t, 0.0, median(nil))

	// Input order preserved.
	values := []float64{5, 1, 3}
	median(values)
	assert.Equal(t, []float64{5, 1, 3}, values)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, mean(nil))
}
