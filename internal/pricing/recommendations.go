package pricing

import (
	"fmt"
)

// generateRecommendations turns the summary aggregates into pricing advice
// strings. Overall positioning first, then portfolio mix, then the most
// extreme categories.
func generateRecommendations(s Summary) []string {
	recommendations := []string{}

	if s.TotalSKUs == 0 {
		return append(recommendations, "Insufficient data for competitive comparison.")
	}

	switch {
	case s.AvgPriceIndex > 1.15:
		recommendations = append(recommendations,
			fmt.Sprintf("Overall premium pricing (index: %.2f). Consider selective price reductions on high-volume SKUs.", s.AvgPriceIndex))
	case s.AvgPriceIndex < 0.85:
		recommendations = append(recommendations,
			fmt.Sprintf("Overall discount positioning (index: %.2f). Opportunity to increase prices without losing competitiveness.", s.AvgPriceIndex))
	default:
		recommendations = append(recommendations,
			fmt.Sprintf("Competitive pricing (index: %.2f). Well-positioned vs market.", s.AvgPriceIndex))
	}

	premiumPct := float64(s.PremiumSKUs) / float64(s.TotalSKUs) * 100
	discountPct := float64(s.DiscountSKUs) / float64(s.TotalSKUs) * 100

	if premiumPct > 50 {
		recommendations = append(recommendations,
			fmt.Sprintf("%.0f%% of SKUs are premium-priced. Review if premium positioning is supported by brand perception.", premiumPct))
	}
	if discountPct > 50 {
		recommendations = append(recommendations,
			fmt.Sprintf("%.0f%% of SKUs are discount-priced. Potential margin opportunity through selective price increases.", discountPct))
	}

	if len(s.CategoryIndices) > 0 {
		maxCategory, maxIndex := extremeCategory(s.CategoryIndices, true)
		minCategory, minIndex := extremeCategory(s.CategoryIndices, false)

		if maxIndex > 1.2 {
			recommendations = append(recommendations,
				fmt.Sprintf("%s is significantly premium (index: %.2f). Consider price testing to optimize volume.", maxCategory, maxIndex))
		}
		if minIndex < 0.8 {
			recommendations = append(recommendations,
				fmt.Sprintf("%s is deeply discounted (index: %.2f). Opportunity for price increase.", minCategory, minIndex))
		}
	}

	return recommendations
}

// extremeCategory picks the highest or lowest indexed category, with name as
// tiebreak so the output is stable.
func extremeCategory(indices map[string]float64, highest bool) (string, float64) {
	var name string
	var value float64
	first := true
	for category, index := range indices {
		better := false
		switch {
		case first:
			better = true
		case highest && index > value:
			better = true
		case !highest && index < value:
			better = true
		case index == value && category < name:
			better = true
		}
		if better {
			name, value = category, index
			first = false
		}
	}
	return name, value
}
