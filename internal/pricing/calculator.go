package pricing

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"retailpulse/internal/dataset"
)

var (
	// ErrEmptyDataset means indexing was attempted over a snapshot with no
	// records at all.
	ErrEmptyDataset = errors.New("dataset contains no records")

	// ErrSupplierNotFound means the target supplier matched nothing.
	ErrSupplierNotFound = errors.New("no records match supplier")
)

// Calculator computes competitive price indices for a target supplier.
// Stateless between calls and safe for concurrent use.
type Calculator struct {
	cfg    Config
	logger *slog.Logger
}

// NewCalculator creates a price index calculator with the given configuration.
func NewCalculator(cfg Config, logger *slog.Logger) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{cfg: cfg, logger: logger}, nil
}

// skuKey identifies one SKU price observation, per store when byStore is set.
type skuKey struct {
	store    string
	set      string
	itemCode int64
}

type skuPrice struct {
	key          skuKey
	first        dataset.Record
	prices       []float64
	rrps         []float64
	transactions int
	isTarget     bool
}

// Index computes the price index of every target SKU against its competitive
// set, the (sub-department, section) pair. With byStore set, prices are
// compared within each store; otherwise across the whole estate. Results are
// ordered by item code then store.
func (c *Calculator) Index(snapshot dataset.Snapshot, supplier string, byStore bool) ([]IndexResult, error) {
	if snapshot.IsEmpty() {
		return nil, ErrEmptyDataset
	}
	if dataset.FilterSupplier(snapshot, supplier).IsEmpty() {
		return nil, ErrSupplierNotFound
	}

	valid := dataset.FilterValid(snapshot, false, false)

	skus := c.collectSKUs(valid.Records, supplier, byStore)
	competitors := c.competitorAverages(skus)

	var results []IndexResult
	for _, sku := range skus {
		if !sku.isTarget {
			continue
		}
		results = append(results, c.buildResult(sku, competitors))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].ItemCode != results[j].ItemCode {
			return results[i].ItemCode < results[j].ItemCode
		}
		return results[i].Store < results[j].Store
	})

	c.logger.Info("price index computed",
		slog.String("supplier", supplier),
		slog.Bool("by_store", byStore),
		slog.Int("target_skus", len(results)))

	return results, nil
}

// collectSKUs folds transactions into per-SKU price observations and drops
// SKUs below the transaction floor.
func (c *Calculator) collectSKUs(records []dataset.Record, supplier string, byStore bool) []*skuPrice {
	grouped := make(map[skuKey]*skuPrice)
	var order []skuKey

	for _, r := range records {
		price, ok := dataset.RealizedUnitPrice(r)
		if !ok {
			continue
		}
		key := skuKey{set: r.SubDepartment + "|" + r.Section, itemCode: r.ItemCode}
		if byStore {
			key.store = r.Store
		}
		sku, exists := grouped[key]
		if !exists {
			sku = &skuPrice{key: key, first: r, isTarget: dataset.MatchesSupplier(r, supplier)}
			grouped[key] = sku
			order = append(order, key)
		}
		sku.prices = append(sku.prices, price)
		if r.HasRRP() {
			sku.rrps = append(sku.rrps, *r.RRP)
		}
		sku.transactions++
	}

	var skus []*skuPrice
	for _, key := range order {
		if sku := grouped[key]; sku.transactions >= c.cfg.MinTransactions {
			skus = append(skus, sku)
		}
	}
	return skus
}

type competitiveSet struct {
	avgPrice     float64
	skuCount     int
	transactions int
}

type setKey struct {
	store string
	set   string
}

// competitorAverages builds per-set competitor benchmarks from non-target
// SKUs and drops sets below the competitor floor.
func (c *Calculator) competitorAverages(skus []*skuPrice) map[setKey]competitiveSet {
	type setAcc struct {
		priceSum     float64
		skuCount     int
		transactions int
	}
	acc := make(map[setKey]*setAcc)

	for _, sku := range skus {
		if sku.isTarget {
			continue
		}
		key := setKey{store: sku.key.store, set: sku.key.set}
		a, ok := acc[key]
		if !ok {
			a = &setAcc{}
			acc[key] = a
		}
		a.priceSum += mean(sku.prices)
		a.skuCount++
		a.transactions += sku.transactions
	}

	sets := make(map[setKey]competitiveSet, len(acc))
	for key, a := range acc {
		if a.skuCount < c.cfg.MinCompetitors {
			continue
		}
		sets[key] = competitiveSet{
			avgPrice:     a.priceSum / float64(a.skuCount),
			skuCount:     a.skuCount,
			transactions: a.transactions,
		}
	}
	return sets
}

func (c *Calculator) buildResult(sku *skuPrice, competitors map[setKey]competitiveSet) IndexResult {
	result := IndexResult{
		ItemCode:         sku.key.itemCode,
		Description:      sku.first.Description,
		Supplier:         sku.first.Supplier,
		Store:            sku.key.store,
		SubDepartment:    sku.first.SubDepartment,
		Section:          sku.first.Section,
		TargetAvgPrice:   mean(sku.prices),
		TransactionCount: sku.transactions,
		Position:         PositionInsufficientData,
	}

	if len(sku.rrps) > 0 {
		m := median(sku.rrps)
		result.MedianRRP = &m
		pct := (result.TargetAvgPrice - m) / m * 100
		result.PriceVsRRPPct = &pct
	}

	set, ok := competitors[setKey{store: sku.key.store, set: sku.key.set}]
	if !ok || set.avgPrice == 0 {
		return result
	}

	avg := set.avgPrice
	index := result.TargetAvgPrice / avg
	result.CompetitorAvgPrice = &avg
	result.CompetitorCount = set.skuCount
	result.CompetitorTransactions = set.transactions
	result.PriceIndex = &index

	switch {
	case index > c.cfg.PremiumThreshold:
		result.Position = PositionPremium
	case index < c.cfg.DiscountThreshold:
		result.Position = PositionDiscount
	default:
		result.Position = PositionAtMarket
	}
	return result
}

// Summarize computes the portfolio-level pricing position: counts by
// position, average and median index, per-store and per-category roll-ups,
// and the generated recommendations.
func (c *Calculator) Summarize(snapshot dataset.Snapshot, supplier string) (Summary, error) {
	portfolio, err := c.Index(snapshot, supplier, false)
	if err != nil {
		return Summary{}, err
	}
	storeLevel, err := c.Index(snapshot, supplier, true)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Supplier:        supplier,
		GeneratedAt:     time.Now(),
		StoreIndices:    make(map[string]float64),
		CategoryIndices: make(map[string]float64),
	}

	var indices []float64
	for _, r := range portfolio {
		if r.PriceIndex == nil {
			continue
		}
		summary.TotalSKUs++
		indices = append(indices, *r.PriceIndex)
		switch r.Position {
		case PositionPremium:
			summary.PremiumSKUs++
		case PositionAtMarket:
			summary.AtMarketSKUs++
		case PositionDiscount:
			summary.DiscountSKUs++
		}
	}
	if len(indices) > 0 {
		summary.AvgPriceIndex = mean(indices)
		summary.MedianPriceIndex = median(indices)
	}

	storeAcc := make(map[string][]float64)
	for _, r := range storeLevel {
		if r.PriceIndex != nil {
			storeAcc[r.Store] = append(storeAcc[r.Store], *r.PriceIndex)
		}
	}
	for store, values := range storeAcc {
		summary.StoreIndices[store] = mean(values)
	}

	categoryAcc := make(map[string][]float64)
	for _, r := range portfolio {
		if r.PriceIndex != nil {
			categoryAcc[r.SubDepartment] = append(categoryAcc[r.SubDepartment], *r.PriceIndex)
		}
	}
	for category, values := range categoryAcc {
		summary.CategoryIndices[category] = mean(values)
	}

	summary.Recommendations = generateRecommendations(summary)

	c.logger.Info("price summary generated",
		slog.String("supplier", supplier),
		slog.Int("total_skus", summary.TotalSKUs),
		slog.Float64("avg_index", summary.AvgPriceIndex))

	return summary, nil
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
