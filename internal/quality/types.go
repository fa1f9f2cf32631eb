package quality

import (
	"fmt"
	"math"
	"time"
)

// Issue severities
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Default scoring parameters
const (
	DefaultMaxNullPct           = 5.0
	DefaultMaxNegativePct       = 1.0
	DefaultMaxZeroPct           = 2.0
	DefaultPriceOutlierQuantile = 0.99
	DefaultMinTrustScore        = 0.75
	DefaultCompletenessWeight   = 0.30
	DefaultValidityWeight       = 0.40
	DefaultConsistencyWeight    = 0.30
)

// Config holds the data quality scoring parameters
type Config struct {
	// MaxNullPct is the null rate in a required column above which the
	// completeness score is penalized and an issue is recorded
	MaxNullPct float64 `json:"max_null_pct"`

	// MaxNegativePct and MaxZeroPct bound the acceptable rates for the
	// validity checks
	MaxNegativePct float64 `json:"max_negative_pct"`
	MaxZeroPct     float64 `json:"max_zero_pct"`

	// PriceOutlierQuantile marks the realized-price quantile above which a
	// transaction counts as an outlier
	PriceOutlierQuantile float64 `json:"price_outlier_quantile"`

	// MinTrustScore is the overall score at or above which an entity is
	// considered reliable for analysis
	MinTrustScore float64 `json:"min_trust_score"`

	// Component weights, must sum to 1.0
	CompletenessWeight float64 `json:"completeness_weight"`
	ValidityWeight     float64 `json:"validity_weight"`
	ConsistencyWeight  float64 `json:"consistency_weight"`
}

// DefaultConfig returns the standard quality scoring parameters
func DefaultConfig() Config {
	return Config{
		MaxNullPct:           DefaultMaxNullPct,
		MaxNegativePct:       DefaultMaxNegativePct,
		MaxZeroPct:           DefaultMaxZeroPct,
		PriceOutlierQuantile: DefaultPriceOutlierQuantile,
		MinTrustScore:        DefaultMinTrustScore,
		CompletenessWeight:   DefaultCompletenessWeight,
		ValidityWeight:       DefaultValidityWeight,
		ConsistencyWeight:    DefaultConsistencyWeight,
	}
}

// Validate checks the configuration for internal consistency
func (c Config) Validate() error {
	if c.MaxNullPct <= 0 || c.MaxNegativePct <= 0 || c.MaxZeroPct <= 0 {
		return fmt.Errorf("tolerance percentages must be positive")
	}
	if c.PriceOutlierQuantile <= 0 || c.PriceOutlierQuantile >= 1 {
		return fmt.Errorf("price outlier quantile must be in (0, 1), got %.3f", c.PriceOutlierQuantile)
	}
	if c.MinTrustScore < 0 || c.MinTrustScore > 1 {
		return fmt.Errorf("min trust score must be in [0, 1], got %.3f", c.MinTrustScore)
	}
	sum := c.CompletenessWeight + c.ValidityWeight + c.ConsistencyWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("component weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// Issue describes a single data quality finding
type Issue struct {
	Type        string  `json:"issue_type"`
	Severity    string  `json:"severity"`
	Field       string  `json:"field_name"`
	Description string  `json:"description"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// Score is the quality assessment for one store or supplier
type Score struct {
	EntityName   string  `json:"entity_name"`
	EntityType   string  `json:"entity_type"`
	Completeness float64 `json:"completeness_score"`
	Validity     float64 `json:"validity_score"`
	Consistency  float64 `json:"consistency_score"`
	Overall      float64 `json:"overall_score"`
	Grade        string  `json:"grade"`
	TotalRecords int     `json:"total_records"`
	Issues       []Issue `json:"issues,omitempty"`
	Trusted      bool    `json:"is_trusted"`
}

// Report is the complete quality assessment of a snapshot
type Report struct {
	GeneratedAt         time.Time `json:"generated_at"`
	TotalRecords        int       `json:"total_records"`
	TotalStores         int       `json:"total_stores"`
	TotalSuppliers      int       `json:"total_suppliers"`
	OverallCompleteness float64   `json:"overall_completeness"`
	OverallValidity     float64   `json:"overall_validity"`
	OverallConsistency  float64   `json:"overall_consistency"`
	StoreScores         []Score   `json:"store_scores"`
	SupplierScores      []Score   `json:"supplier_scores"`
	CriticalIssues      []Issue   `json:"critical_issues"`
	TrustedStores       int       `json:"trusted_stores"`
	UntrustedStores     int       `json:"untrusted_stores"`
	TrustedSuppliers    int       `json:"trusted_suppliers"`
	UntrustedSuppliers  int       `json:"untrusted_suppliers"`
}

// gradeFor maps an overall score to a letter grade
func gradeFor(score float64) string {
	switch {
	case score >= 0.9:
		return "A"
	case score >= 0.8:
		return "B"
	case score >= 0.7:
		return "C"
	case score >= 0.6:
		return "D"
	default:
		return "F"
	}
}
