package promo

import (
	"fmt"
	"time"
)

// Status classifies a product's promotion state across the store estate
type Status string

const (
	// StatusOnPromo means the product runs a promotion in at least one store
	// while at least one store sells it at baseline price
	StatusOnPromo Status = "on_promo"
	// StatusBaseline means no store runs a promotion and enough stores
	// provide baseline observations
	StatusBaseline Status = "baseline"
	// StatusInsufficientData means neither classification is supportable
	StatusInsufficientData Status = "insufficient_data"
)

// Default configuration values
const (
	DefaultDiscountThresholdPct = 10.0
	DefaultMinBaselineStores    = 1
	DefaultMinPromoUnits        = 50.0
	DefaultTopN                 = 10
)

// Config holds the tunable parameters of the promotion detector
type Config struct {
	// DiscountThresholdPct is the mean store discount (vs RRP) at or above
	// which a store is considered to be running the promotion
	DiscountThresholdPct float64 `json:"discount_threshold_pct"`

	// MinBaselineStores is the minimum number of baseline stores required
	// to call a product "baseline" when no store is on promotion
	MinBaselineStores int `json:"min_baseline_stores"`

	// MinPromoUnits is the promo-store unit floor for top-performer ranking
	MinPromoUnits float64 `json:"min_promo_units"`

	// TopN caps the top-performer list in the supplier summary
	TopN int `json:"top_n"`
}

// DefaultConfig returns the standard detection parameters
func DefaultConfig() Config {
	return Config{
		DiscountThresholdPct: DefaultDiscountThresholdPct,
		MinBaselineStores:    DefaultMinBaselineStores,
		MinPromoUnits:        DefaultMinPromoUnits,
		TopN:                 DefaultTopN,
	}
}

// Validate checks that the configuration is internally consistent
func (c Config) Validate() error {
	if c.DiscountThresholdPct <= 0 || c.DiscountThresholdPct > 100 {
		return fmt.Errorf("discount threshold must be in (0, 100], got %.2f", c.DiscountThresholdPct)
	}
	if c.MinBaselineStores < 1 {
		return fmt.Errorf("min baseline stores must be at least 1, got %d", c.MinBaselineStores)
	}
	if c.MinPromoUnits < 0 {
		return fmt.Errorf("min promo units must be non-negative, got %.1f", c.MinPromoUnits)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top N must be at least 1, got %d", c.TopN)
	}
	return nil
}

// StoreObservation aggregates one product's transactions within one store.
// MeanDiscountPct is nil when no transaction in the cell carries an RRP;
// such a store can never be classified as promotional.
type StoreObservation struct {
	Store          string   `json:"store"`
	ItemCode       int64    `json:"item_code"`
	Description    string   `json:"description"`
	Supplier       string   `json:"supplier"`
	Category       string   `json:"category"`
	SubDepartment  string   `json:"sub_department"`
	Section        string   `json:"section"`
	Units          float64  `json:"units"`
	SalesValue     float64  `json:"sales_value"`
	AvgPrice       float64  `json:"avg_price"`
	MedianRRP      *float64 `json:"median_rrp,omitempty"`
	MeanDiscountPct *float64 `json:"mean_discount_pct,omitempty"`
	Transactions   int      `json:"transactions"`
	OnPromo        bool     `json:"on_promo"`
}

// ProductResult is the cross-sectional uplift analysis for one product
// across every store carrying it. UpliftPct is nil when no promo/baseline
// comparison is possible; nil is never conflated with zero uplift.
type ProductResult struct {
	ItemCode         int64    `json:"item_code"`
	Description      string   `json:"description"`
	Supplier         string   `json:"supplier"`
	Category         string   `json:"category"`
	SubDepartment    string   `json:"sub_department"`
	Section          string   `json:"section"`
	TotalStores      int      `json:"total_stores"`
	PromoStores      int      `json:"promo_stores"`
	BaselineStores   int      `json:"baseline_stores"`
	PromoUnits       float64  `json:"promo_units"`
	BaselineUnits    float64  `json:"baseline_units"`
	UpliftPct        *float64 `json:"uplift_pct,omitempty"`
	AvgPromoPrice    *float64 `json:"avg_promo_price,omitempty"`
	AvgBaselinePrice *float64 `json:"avg_baseline_price,omitempty"`
	AvgDiscountPct   *float64 `json:"avg_discount_pct,omitempty"`
	MedianRRP        *float64 `json:"median_rrp,omitempty"`
	CoveragePct      float64  `json:"coverage_pct"`
	Status           Status   `json:"status"`
}

// Summary is the supplier-level roll-up of product results
type Summary struct {
	Supplier        string          `json:"supplier"`
	TotalProducts   int             `json:"total_products"`
	ProductsOnPromo int             `json:"products_on_promo"`
	PromoSKUPct     float64         `json:"promo_sku_pct"`
	AvgUpliftPct    *float64        `json:"avg_uplift_pct,omitempty"`
	MedianUpliftPct *float64        `json:"median_uplift_pct,omitempty"`
	AvgDiscountPct  *float64        `json:"avg_discount_pct,omitempty"`
	AvgCoveragePct  *float64        `json:"avg_coverage_pct,omitempty"`
	TopPerformers   []ProductResult `json:"top_performers"`
	Insights        []string        `json:"insights"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
