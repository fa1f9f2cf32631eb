package promo

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"retailpulse/internal/dataset"
)

var (
	// ErrEmptyDataset means detection was attempted over a snapshot with no
	// records at all. That is a configuration problem, not sparse data.
	ErrEmptyDataset = errors.New("dataset contains no records")

	// ErrSupplierNotFound means the supplier filter matched nothing.
	ErrSupplierNotFound = errors.New("no records match supplier")
)

// Detector runs promotion detection and cross-sectional uplift estimation
// over a transaction snapshot. A Detector is stateless between calls and
// safe for concurrent use.
type Detector struct {
	cfg    Config
	logger *slog.Logger
}

// NewDetector creates a detector with the given configuration.
func NewDetector(cfg Config, logger *slog.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cfg: cfg, logger: logger}, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect classifies every store×product cell and computes per-product uplift
// results. An empty supplier analyzes the whole snapshot. Results are ordered
// by item code ascending and are identical across repeated calls over the
// same snapshot.
func (d *Detector) Detect(snapshot dataset.Snapshot, supplier string) ([]ProductResult, error) {
	if snapshot.IsEmpty() {
		return nil, ErrEmptyDataset
	}

	scoped := dataset.FilterSupplier(snapshot, supplier)
	if scoped.IsEmpty() {
		return nil, ErrSupplierNotFound
	}

	valid := dataset.FilterValid(scoped, false, false)

	observations := classifyStores(valid.Records, d.cfg.DiscountThresholdPct)
	results := aggregateProducts(observations, d.cfg)

	d.logger.Info("promotion detection complete",
		slog.String("supplier", supplier),
		slog.Int("records", valid.Len()),
		slog.Int("store_product_cells", len(observations)),
		slog.Int("products", len(results)))

	return results, nil
}

// Observations exposes the classified store×product cells, primarily for
// reporting. Same scoping and error behavior as Detect.
func (d *Detector) Observations(snapshot dataset.Snapshot, supplier string) ([]StoreObservation, error) {
	if snapshot.IsEmpty() {
		return nil, ErrEmptyDataset
	}
	scoped := dataset.FilterSupplier(snapshot, supplier)
	if scoped.IsEmpty() {
		return nil, ErrSupplierNotFound
	}
	valid := dataset.FilterValid(scoped, false, false)
	return classifyStores(valid.Records, d.cfg.DiscountThresholdPct), nil
}

// Summarize rolls product results up into the supplier-level portfolio
// summary with ranked top performers and generated insights.
func (d *Detector) Summarize(snapshot dataset.Snapshot, supplier string) (Summary, error) {
	results, err := d.Detect(snapshot, supplier)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Supplier:      supplier,
		TotalProducts: len(results),
		GeneratedAt:   time.Now(),
	}

	// Portfolio statistics cover on_promo products with a measurable uplift
	// only; products without a promo/baseline comparison would distort them.
	var (
		uplifts   []float64
		discounts []float64
		coverages []float64
	)
	for _, r := range results {
		if r.Status != StatusOnPromo {
			continue
		}
		summary.ProductsOnPromo++
		coverages = append(coverages, r.CoveragePct)
		if r.UpliftPct != nil {
			uplifts = append(uplifts, *r.UpliftPct)
			if r.AvgDiscountPct != nil {
				discounts = append(discounts, *r.AvgDiscountPct)
			}
		}
	}

	if summary.TotalProducts > 0 {
		summary.PromoSKUPct = float64(summary.ProductsOnPromo) / float64(summary.TotalProducts) * 100
	}
	if len(uplifts) > 0 {
		avg := mean(uplifts)
		med := median(uplifts)
		summary.AvgUpliftPct = &avg
		summary.MedianUpliftPct = &med
	}
	if len(discounts) > 0 {
		avg := mean(discounts)
		summary.AvgDiscountPct = &avg
	}
	if len(coverages) > 0 {
		avg := mean(coverages)
		summary.AvgCoveragePct = &avg
	}

	summary.TopPerformers = d.topPerformers(results)
	summary.Insights = generateInsights(summary.PromoSKUPct, summary.AvgUpliftPct, summary.AvgDiscountPct)

	d.logger.Info("supplier summary generated",
		slog.String("supplier", supplier),
		slog.Int("total_products", summary.TotalProducts),
		slog.Int("products_on_promo", summary.ProductsOnPromo),
		slog.Int("top_performers", len(summary.TopPerformers)))

	return summary, nil
}

// topPerformers ranks on_promo products with measurable uplift and enough
// promo volume, best uplift first. Ties break on item code ascending so the
// ranking is stable across runs.
func (d *Detector) topPerformers(results []ProductResult) []ProductResult {
	var eligible []ProductResult
	for _, r := range results {
		if r.Status != StatusOnPromo || r.UpliftPct == nil {
			continue
		}
		if r.PromoUnits < d.cfg.MinPromoUnits {
			continue
		}
		eligible = append(eligible, r)
	}

	sort.Slice(eligible, func(i, j int) bool {
		if *eligible[i].UpliftPct != *eligible[j].UpliftPct {
			return *eligible[i].UpliftPct > *eligible[j].UpliftPct
		}
		return eligible[i].ItemCode < eligible[j].ItemCode
	})

	if len(eligible) > d.cfg.TopN {
		eligible = eligible[:d.cfg.TopN]
	}
	return eligible
}
