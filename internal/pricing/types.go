package pricing

import (
	"fmt"
	"time"
)

// Position classifies a product's price versus its competitive set
type Position string

const (
	// PositionPremium means priced meaningfully above the competitive set
	PositionPremium Position = "premium"
	// PositionAtMarket means priced in line with the competitive set
	PositionAtMarket Position = "at_market"
	// PositionDiscount means priced meaningfully below the competitive set
	PositionDiscount Position = "discount"
	// PositionInsufficientData means no competitive comparison was possible
	PositionInsufficientData Position = "insufficient_data"
)

// Default index parameters
const (
	DefaultPremiumThreshold  = 1.10
	DefaultDiscountThreshold = 0.90
	DefaultMinCompetitors    = 2
	DefaultMinTransactions   = 5
)

// Config holds the tunable parameters of the price index calculator
type Config struct {
	// PremiumThreshold and DiscountThreshold bound the at_market band of
	// the index (target price / competitor average)
	PremiumThreshold  float64 `json:"premium_threshold"`
	DiscountThreshold float64 `json:"discount_threshold"`

	// MinCompetitors is the minimum number of competitor SKUs a competitive
	// set needs before an index is computed against it
	MinCompetitors int `json:"min_competitors"`

	// MinTransactions is the minimum transaction count per SKU for its
	// average price to be considered stable
	MinTransactions int `json:"min_transactions"`
}

// DefaultConfig returns the standard price index parameters
func DefaultConfig() Config {
	return Config{
		PremiumThreshold:  DefaultPremiumThreshold,
		DiscountThreshold: DefaultDiscountThreshold,
		MinCompetitors:    DefaultMinCompetitors,
		MinTransactions:   DefaultMinTransactions,
	}
}

// Validate checks that the configuration is internally consistent
func (c Config) Validate() error {
	if c.PremiumThreshold <= 1 {
		return fmt.Errorf("premium threshold must be above 1, got %.2f", c.PremiumThreshold)
	}
	if c.DiscountThreshold <= 0 || c.DiscountThreshold >= 1 {
		return fmt.Errorf("discount threshold must be in (0, 1), got %.2f", c.DiscountThreshold)
	}
	if c.MinCompetitors < 1 {
		return fmt.Errorf("min competitors must be at least 1, got %d", c.MinCompetitors)
	}
	if c.MinTransactions < 1 {
		return fmt.Errorf("min transactions must be at least 1, got %d", c.MinTransactions)
	}
	return nil
}

// IndexResult is the competitive price comparison for one target SKU, either
// per store or portfolio-wide (Store empty). PriceIndex is nil when the
// competitive set is too thin to compare against.
type IndexResult struct {
	ItemCode               int64    `json:"item_code"`
	Description            string   `json:"description"`
	Supplier               string   `json:"supplier"`
	Store                  string   `json:"store,omitempty"`
	SubDepartment          string   `json:"sub_department"`
	Section                string   `json:"section"`
	TargetAvgPrice         float64  `json:"target_avg_price"`
	MedianRRP              *float64 `json:"median_rrp,omitempty"`
	CompetitorAvgPrice     *float64 `json:"competitor_avg_price,omitempty"`
	CompetitorCount        int      `json:"competitor_count"`
	CompetitorTransactions int      `json:"competitor_transactions"`
	TransactionCount       int      `json:"transaction_count"`
	PriceIndex             *float64 `json:"price_index,omitempty"`
	PriceVsRRPPct          *float64 `json:"price_vs_rrp_pct,omitempty"`
	Position               Position `json:"price_position"`
}

// Summary is the portfolio-level pricing position for a supplier
type Summary struct {
	Supplier         string             `json:"supplier"`
	GeneratedAt      time.Time          `json:"generated_at"`
	TotalSKUs        int                `json:"total_skus"`
	PremiumSKUs      int                `json:"premium_skus"`
	AtMarketSKUs     int                `json:"at_market_skus"`
	DiscountSKUs     int                `json:"discount_skus"`
	AvgPriceIndex    float64            `json:"avg_price_index"`
	MedianPriceIndex float64            `json:"median_price_index"`
	StoreIndices     map[string]float64 `json:"store_level_indices"`
	CategoryIndices  map[string]float64 `json:"category_indices"`
	Recommendations  []string           `json:"price_opportunities"`
}
