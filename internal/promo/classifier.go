package promo

import (
	"sort"

	"retailpulse/internal/dataset"
)

type storeProductKey struct {
	store    string
	itemCode int64
}

// classifyStores folds transactions into one observation per store×product
// cell and flags the promotional cells. A cell is promotional when its mean
// transaction discount versus RRP meets or exceeds the configured threshold.
// Cells without any RRP coverage get a nil mean discount and stay baseline.
func classifyStores(records []dataset.Record, thresholdPct float64) []StoreObservation {
	type accumulator struct {
		first        dataset.Record
		units        float64
		salesValue   float64
		discounts    []float64
		rrps         []float64
		transactions int
	}

	cells := make(map[storeProductKey]*accumulator)
	var order []storeProductKey

	for _, r := range records {
		key := storeProductKey{store: r.Store, itemCode: r.ItemCode}
		acc, ok := cells[key]
		if !ok {
			acc = &accumulator{first: r}
			cells[key] = acc
			order = append(order, key)
		}
		acc.units += r.Quantity
		acc.salesValue += r.TotalSales
		acc.transactions++
		if pct, ok := dataset.DiscountPct(r); ok {
			acc.discounts = append(acc.discounts, pct)
		}
		if r.HasRRP() {
			acc.rrps = append(acc.rrps, *r.RRP)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].itemCode != order[j].itemCode {
			return order[i].itemCode < order[j].itemCode
		}
		return order[i].store < order[j].store
	})

	observations := make([]StoreObservation, 0, len(order))
	for _, key := range order {
		acc := cells[key]

		obs := StoreObservation{
			Store:         key.store,
			ItemCode:      key.itemCode,
			Description:   acc.first.Description,
			Supplier:      acc.first.Supplier,
			Category:      acc.first.Category,
			SubDepartment: acc.first.SubDepartment,
			Section:       acc.first.Section,
			Units:         acc.units,
			SalesValue:    acc.salesValue,
			Transactions:  acc.transactions,
		}
		if acc.units != 0 {
			obs.AvgPrice = acc.salesValue / acc.units
		}
		if len(acc.rrps) > 0 {
			m := median(acc.rrps)
			obs.MedianRRP = &m
		}
		if len(acc.discounts) > 0 {
			m := mean(acc.discounts)
			obs.MeanDiscountPct = &m
			obs.OnPromo = m >= thresholdPct
		}

		observations = append(observations, obs)
	}

	return observations
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median sorts a copy; callers keep their slice order.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
