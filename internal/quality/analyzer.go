package quality

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"retailpulse/internal/dataset"
)

// ErrEmptyDataset means quality analysis was attempted over a snapshot with
// no records.
var ErrEmptyDataset = errors.New("dataset contains no records")

// requiredFields are the columns that must be populated for a record to count
// as complete. RRP and barcode are optional and excluded on purpose.
var requiredFields = []struct {
	name    string
	missing func(dataset.Record) bool
}{
	{"store", func(r dataset.Record) bool { return strings.TrimSpace(r.Store) == "" }},
	{"item_code", func(r dataset.Record) bool { return r.ItemCode == 0 }},
	{"description", func(r dataset.Record) bool { return strings.TrimSpace(r.Description) == "" }},
	{"category", func(r dataset.Record) bool { return strings.TrimSpace(r.Category) == "" }},
	{"department", func(r dataset.Record) bool { return strings.TrimSpace(r.Department) == "" }},
	{"sub_department", func(r dataset.Record) bool { return strings.TrimSpace(r.SubDepartment) == "" }},
	{"supplier", func(r dataset.Record) bool { return strings.TrimSpace(r.Supplier) == "" }},
	{"sale_date", func(r dataset.Record) bool { return r.SaleDate.IsZero() }},
}

// Analyzer scores data quality per store and per supplier. Stateless between
// calls and safe for concurrent use.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// NewAnalyzer creates a quality analyzer with the given configuration.
func NewAnalyzer(cfg Config, logger *slog.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}, nil
}

// Analyze runs the full quality assessment over a snapshot: dataset-level
// component scores, per-store and per-supplier trust scores, and the
// collected issues.
func (a *Analyzer) Analyze(snapshot dataset.Snapshot) (Report, error) {
	if snapshot.IsEmpty() {
		return Report{}, ErrEmptyDataset
	}

	records := snapshot.Records
	var issues []Issue

	report := Report{
		GeneratedAt:         time.Now(),
		TotalRecords:        len(records),
		TotalStores:         snapshot.UniqueStores(),
		TotalSuppliers:      snapshot.UniqueSuppliers(),
		OverallCompleteness: a.scoreCompleteness(records, &issues),
		OverallValidity:     a.scoreValidity(records, true, &issues),
		OverallConsistency:  a.scoreConsistency(records, true, &issues),
	}

	report.StoreScores = a.scoreEntities(records, "store", func(r dataset.Record) string { return r.Store })
	report.SupplierScores = a.scoreEntities(records, "supplier", func(r dataset.Record) string { return r.Supplier })

	for _, issue := range issues {
		if issue.Severity == SeverityCritical {
			report.CriticalIssues = append(report.CriticalIssues, issue)
		}
	}

	for _, s := range report.StoreScores {
		if s.Trusted {
			report.TrustedStores++
		}
	}
	report.UntrustedStores = len(report.StoreScores) - report.TrustedStores
	for _, s := range report.SupplierScores {
		if s.Trusted {
			report.TrustedSuppliers++
		}
	}
	report.UntrustedSuppliers = len(report.SupplierScores) - report.TrustedSuppliers

	a.logger.Info("quality analysis complete",
		slog.Int("records", report.TotalRecords),
		slog.Int("stores", report.TotalStores),
		slog.Int("suppliers", report.TotalSuppliers),
		slog.Int("critical_issues", len(report.CriticalIssues)))

	return report, nil
}

// scoreCompleteness averages the null rate across required fields and maps it
// to a 0..1 score.
func (a *Analyzer) scoreCompleteness(records []dataset.Record, issues *[]Issue) float64 {
	total := len(records)
	if total == 0 {
		return 1.0
	}

	var sumNullPct float64
	for _, field := range requiredFields {
		count := 0
		for _, r := range records {
			if field.missing(r) {
				count++
			}
		}
		pct := float64(count) / float64(total) * 100
		sumNullPct += pct

		if issues != nil && pct > a.cfg.MaxNullPct {
			severity := SeverityWarning
			if pct > 10 {
				severity = SeverityCritical
			}
			*issues = append(*issues, Issue{
				Type:        "missing_values",
				Severity:    severity,
				Field:       field.name,
				Description: fmt.Sprintf("High null rate in critical field: %.2f%%", pct),
				Count:       count,
				Percentage:  pct,
			})
		}
	}

	avgNullPct := sumNullPct / float64(len(requiredFields))
	return math.Max(0, 1-avgNullPct/100)
}

// scoreValidity checks negative and zero rates; at the dataset level it also
// checks for realized-price outliers above the configured quantile.
func (a *Analyzer) scoreValidity(records []dataset.Record, overall bool, issues *[]Issue) float64 {
	total := len(records)
	if total == 0 {
		return 1.0
	}

	var negatives, zeros int
	var prices []float64
	for _, r := range records {
		if r.Quantity < 0 {
			negatives++
		}
		if r.TotalSales < 0 {
			negatives++
		}
		if r.Quantity == 0 {
			zeros++
		}
		if r.TotalSales == 0 {
			zeros++
		}
		if r.Quantity > 0 && r.TotalSales > 0 {
			prices = append(prices, r.TotalSales/r.Quantity)
		}
	}

	negativePct := float64(negatives) / float64(total) * 100
	zeroPct := float64(zeros) / float64(total) * 100

	if issues != nil && negativePct > a.cfg.MaxNegativePct {
		severity := SeverityWarning
		if negativePct > 5 {
			severity = SeverityCritical
		}
		*issues = append(*issues, Issue{
			Type:        "negative_values",
			Severity:    severity,
			Field:       "quantity, total_sales",
			Description: fmt.Sprintf("Found %d negative values", negatives),
			Count:       negatives,
			Percentage:  negativePct,
		})
	}
	if issues != nil && zeroPct > a.cfg.MaxZeroPct {
		*issues = append(*issues, Issue{
			Type:        "zero_values",
			Severity:    SeverityWarning,
			Field:       "quantity, total_sales",
			Description: fmt.Sprintf("Found %d zero values", zeros),
			Count:       zeros,
			Percentage:  zeroPct,
		})
	}

	checks := []float64{
		math.Max(0, 1-negativePct/a.cfg.MaxNegativePct),
		math.Max(0, 1-zeroPct/a.cfg.MaxZeroPct),
	}

	if overall && len(prices) > 0 {
		threshold := quantile(prices, a.cfg.PriceOutlierQuantile)
		outliers := 0
		for _, p := range prices {
			if p > threshold {
				outliers++
			}
		}
		outlierPct := float64(outliers) / float64(len(prices)) * 100

		if issues != nil && outlierPct > 2 {
			*issues = append(*issues, Issue{
				Type:        "price_outliers",
				Severity:    SeverityInfo,
				Field:       "realized_unit_price",
				Description: fmt.Sprintf("Found %d price outliers above %.2f", outliers, threshold),
				Count:       outliers,
				Percentage:  outlierPct,
			})
		}
		checks = append(checks, math.Max(0, 1-outlierPct/10))
	}

	var sum float64
	for _, c := range checks {
		sum += c
	}
	return sum / float64(len(checks))
}

// scoreConsistency checks the realized-price-vs-RRP relationship; at the
// dataset level it also checks barcode sanity. A realized price more than 20%
// above RRP is treated as inconsistent.
func (a *Analyzer) scoreConsistency(records []dataset.Record, overall bool, issues *[]Issue) float64 {
	var checks []float64

	priced := 0
	aboveRRP := 0
	for _, r := range records {
		if r.Quantity <= 0 || r.TotalSales <= 0 || !r.HasRRP() {
			continue
		}
		priced++
		if r.TotalSales/r.Quantity > *r.RRP*1.2 {
			aboveRRP++
		}
	}
	if priced > 0 {
		aboveRRPPct := float64(aboveRRP) / float64(priced) * 100
		if issues != nil && aboveRRPPct > 20 {
			*issues = append(*issues, Issue{
				Type:        "price_consistency",
				Severity:    SeverityWarning,
				Field:       "realized_unit_price vs rrp",
				Description: fmt.Sprintf("%d transactions priced >20%% above RRP", aboveRRP),
				Count:       aboveRRP,
				Percentage:  aboveRRPPct,
			})
		}
		checks = append(checks, math.Max(0, 1-aboveRRPPct/30))
	}

	if overall {
		invalidBarcodes := 0
		for _, r := range records {
			barcode := strings.TrimSpace(r.Barcode)
			if barcode == "" || barcode == "0" {
				invalidBarcodes++
			}
		}
		invalidPct := float64(invalidBarcodes) / float64(len(records)) * 100
		if issues != nil && invalidPct > 5 {
			*issues = append(*issues, Issue{
				Type:        "invalid_barcodes",
				Severity:    SeverityInfo,
				Field:       "barcode",
				Description: fmt.Sprintf("%d records with invalid barcodes", invalidBarcodes),
				Count:       invalidBarcodes,
				Percentage:  invalidPct,
			})
		}
		checks = append(checks, math.Max(0, 1-invalidPct/20))
	}

	if len(checks) == 0 {
		return 1.0
	}
	var sum float64
	for _, c := range checks {
		sum += c
	}
	return sum / float64(len(checks))
}

// scoreEntities computes weighted trust scores per distinct entity, sorted by
// overall score descending with name as tiebreak.
func (a *Analyzer) scoreEntities(records []dataset.Record, entityType string, keyOf func(dataset.Record) string) []Score {
	grouped := make(map[string][]dataset.Record)
	for _, r := range records {
		key := keyOf(r)
		if key == "" {
			continue
		}
		grouped[key] = append(grouped[key], r)
	}

	scores := make([]Score, 0, len(grouped))
	for name, subset := range grouped {
		var entityIssues []Issue
		completeness := a.scoreCompleteness(subset, &entityIssues)
		validity := a.scoreValidity(subset, false, nil)
		consistency := a.scoreConsistency(subset, false, nil)

		overall := completeness*a.cfg.CompletenessWeight +
			validity*a.cfg.ValidityWeight +
			consistency*a.cfg.ConsistencyWeight

		scores = append(scores, Score{
			EntityName:   name,
			EntityType:   entityType,
			Completeness: completeness,
			Validity:     validity,
			Consistency:  consistency,
			Overall:      overall,
			Grade:        gradeFor(overall),
			TotalRecords: len(subset),
			Issues:       entityIssues,
			Trusted:      overall >= a.cfg.MinTrustScore,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Overall != scores[j].Overall {
			return scores[i].Overall > scores[j].Overall
		}
		return scores[i].EntityName < scores[j].EntityName
	})
	return scores
}

// quantile returns the q-th quantile using nearest-rank on a sorted copy.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
