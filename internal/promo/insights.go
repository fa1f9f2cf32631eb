package promo

import (
	"fmt"
)

// Insight rule thresholds. These shape the narrative text only; the
// statistical engine never reads them.
const (
	lowPromoCoveragePct  = 30.0
	highPromoCoveragePct = 70.0
	strongUpliftPct      = 50.0
	moderateUpliftPct    = 20.0
	deepDiscountPct      = 20.0
	shallowDiscountPct   = 10.0
)

// generateInsights turns the summary aggregates into actionable narrative
// strings via a fixed rule table. Output order is stable: coverage first,
// then uplift, then discount depth.
func generateInsights(promoSKUPct float64, avgUplift, avgDiscount *float64) []string {
	insights := []string{}

	if promoSKUPct < lowPromoCoveragePct {
		insights = append(insights,
			fmt.Sprintf("Only %.1f%% of SKUs are on promotion. Consider expanding promo coverage.", promoSKUPct))
	} else if promoSKUPct > highPromoCoveragePct {
		insights = append(insights,
			fmt.Sprintf("High promo activity (%.1f%% of SKUs). Evaluate ROI of promotional spend.", promoSKUPct))
	}

	if avgUplift != nil {
		switch uplift := *avgUplift; {
		case uplift > strongUpliftPct:
			insights = append(insights,
				fmt.Sprintf("Strong promo performance with %.1f%% average uplift. Promos are driving significant incremental volume.", uplift))
		case uplift > moderateUpliftPct:
			insights = append(insights,
				fmt.Sprintf("Moderate promo uplift (%.1f%%). Consider testing deeper discounts or better placement.", uplift))
		case uplift > 0:
			insights = append(insights,
				fmt.Sprintf("Low promo uplift (%.1f%%). Promotions may not be cost-effective at current discount levels.", uplift))
		default:
			insights = append(insights,
				fmt.Sprintf("Negative uplift (%.1f%%). Promos are cannibalizing baseline sales.", uplift))
		}
	}

	if avgDiscount != nil {
		if *avgDiscount > deepDiscountPct {
			insights = append(insights,
				fmt.Sprintf("Deep discounts (%.1f%% average). Ensure margin remains positive.", *avgDiscount))
		} else if *avgDiscount < shallowDiscountPct {
			insights = append(insights,
				fmt.Sprintf("Shallow discounts (%.1f%% average). May not be noticeable to consumers.", *avgDiscount))
		}
	}

	return insights
}
