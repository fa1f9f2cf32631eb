package promo

import (
	"sort"
)

// aggregateProducts rolls store observations up to one result per product and
// computes the cross-sectional uplift: per-store promo sales rate versus
// per-store baseline sales rate for the same product, measured over the same
// period. Results come back ordered by item code ascending.
func aggregateProducts(observations []StoreObservation, cfg Config) []ProductResult {
	grouped := make(map[int64][]StoreObservation)
	var codes []int64
	for _, obs := range observations {
		if _, ok := grouped[obs.ItemCode]; !ok {
			codes = append(codes, obs.ItemCode)
		}
		grouped[obs.ItemCode] = append(grouped[obs.ItemCode], obs)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	results := make([]ProductResult, 0, len(codes))
	for _, code := range codes {
		results = append(results, buildProductResult(grouped[code], cfg))
	}
	return results
}

func buildProductResult(cells []StoreObservation, cfg Config) ProductResult {
	result := ProductResult{
		ItemCode:      cells[0].ItemCode,
		Description:   cells[0].Description,
		Supplier:      cells[0].Supplier,
		Category:      cells[0].Category,
		SubDepartment: cells[0].SubDepartment,
		Section:       cells[0].Section,
		TotalStores:   len(cells),
	}

	var (
		promoUnits, promoValue       float64
		baselineUnits, baselineValue float64
		discounts                    []float64
		rrps                         []float64
	)
	for _, obs := range cells {
		if obs.OnPromo {
			result.PromoStores++
			promoUnits += obs.Units
			promoValue += obs.SalesValue
			if obs.MeanDiscountPct != nil {
				discounts = append(discounts, *obs.MeanDiscountPct)
			}
		} else {
			result.BaselineStores++
			baselineUnits += obs.Units
			baselineValue += obs.SalesValue
		}
		if obs.MedianRRP != nil {
			rrps = append(rrps, *obs.MedianRRP)
		}
	}

	result.PromoUnits = promoUnits
	result.BaselineUnits = baselineUnits

	if promoUnits != 0 {
		p := promoValue / promoUnits
		result.AvgPromoPrice = &p
	}
	if baselineUnits != 0 {
		p := baselineValue / baselineUnits
		result.AvgBaselinePrice = &p
	}
	if len(discounts) > 0 {
		d := mean(discounts)
		result.AvgDiscountPct = &d
	}
	if len(rrps) > 0 {
		m := median(rrps)
		result.MedianRRP = &m
	}

	result.UpliftPct = upliftPct(promoUnits, result.PromoStores, baselineUnits, result.BaselineStores)

	if result.TotalStores > 0 {
		result.CoveragePct = float64(result.PromoStores) / float64(result.TotalStores) * 100
	}

	result.Status = classifyStatus(result.PromoStores, result.BaselineStores, cfg.MinBaselineStores)

	return result
}

// upliftPct computes the per-store normalized uplift percentage. Nil means no
// comparison is possible: no promo stores, no baseline stores, or a zero
// baseline rate that would make the ratio undefined.
func upliftPct(promoUnits float64, promoStores int, baselineUnits float64, baselineStores int) *float64 {
	if promoStores == 0 || baselineStores == 0 || baselineUnits == 0 {
		return nil
	}
	promoRate := promoUnits / float64(promoStores)
	baselineRate := baselineUnits / float64(baselineStores)
	uplift := (promoRate - baselineRate) / baselineRate * 100
	return &uplift
}

// classifyStatus applies the product status state machine. The three states
// are mutually exclusive and cover every product with at least one
// observation.
func classifyStatus(promoStores, baselineStores, minBaselineStores int) Status {
	switch {
	case promoStores >= 1 && baselineStores >= 1:
		return StatusOnPromo
	case promoStores == 0 && baselineStores >= minBaselineStores:
		return StatusBaseline
	default:
		return StatusInsufficientData
	}
}
