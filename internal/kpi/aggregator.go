package kpi

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"retailpulse/internal/dataset"
)

var (
	// ErrEmptyDataset means aggregation was attempted over a snapshot with
	// no records at all.
	ErrEmptyDataset = errors.New("dataset contains no records")

	// ErrSupplierNotFound means the supplier filter matched nothing.
	ErrSupplierNotFound = errors.New("no records match supplier")
)

// Default ranking sizes
const (
	DefaultTopStores = 10
	DefaultTopSKUs   = 10
	summaryTopN      = 5
)

// Aggregator rolls transaction data up into business KPIs. Stateless between
// calls and safe for concurrent use.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a KPI aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// MarketOverview computes the headline figures for the whole dataset.
func (a *Aggregator) MarketOverview(snapshot dataset.Snapshot) (MarketOverview, error) {
	if snapshot.IsEmpty() {
		return MarketOverview{}, ErrEmptyDataset
	}
	valid := dataset.FilterValid(snapshot, false, false)

	overview := MarketOverview{
		TotalTransactions: valid.Len(),
		UniqueStores:      valid.UniqueStores(),
		UniqueSuppliers:   valid.UniqueSuppliers(),
		UniqueSKUs:        valid.UniqueItems(),
	}

	var priceSum float64
	for _, r := range valid.Records {
		overview.TotalSales += r.TotalSales
		overview.TotalUnits += r.Quantity
		priceSum += r.TotalSales / r.Quantity
	}
	if valid.Len() > 0 {
		overview.AvgTransactionValue = overview.TotalSales / float64(valid.Len())
		overview.AvgUnitPrice = priceSum / float64(valid.Len())
	}
	overview.DateRangeStart, overview.DateRangeEnd = valid.DateRange()

	return overview, nil
}

// SupplierMetrics computes one supplier's totals and market share.
func (a *Aggregator) SupplierMetrics(snapshot dataset.Snapshot, supplier string) (SupplierMetrics, error) {
	if snapshot.IsEmpty() {
		return SupplierMetrics{}, ErrEmptyDataset
	}
	valid := dataset.FilterValid(snapshot, false, false)
	scoped := dataset.FilterSupplier(valid, supplier)
	if scoped.IsEmpty() {
		return SupplierMetrics{}, ErrSupplierNotFound
	}

	var marketSales float64
	for _, r := range valid.Records {
		marketSales += r.TotalSales
	}

	metrics := SupplierMetrics{
		Supplier:          supplier,
		TotalTransactions: scoped.Len(),
		UniqueSKUs:        scoped.UniqueItems(),
		StoresPresent:     scoped.UniqueStores(),
	}

	categories := make(map[string]struct{})
	var priceSum float64
	for _, r := range scoped.Records {
		metrics.TotalSales += r.TotalSales
		metrics.TotalUnits += r.Quantity
		priceSum += r.TotalSales / r.Quantity
		if r.Category != "" {
			categories[r.Category] = struct{}{}
		}
	}
	if scoped.Len() > 0 {
		metrics.AvgUnitPrice = priceSum / float64(scoped.Len())
	}
	if marketSales > 0 {
		metrics.MarketSharePct = metrics.TotalSales / marketSales * 100
	}

	for category := range categories {
		metrics.Categories = append(metrics.Categories, category)
	}
	sort.Strings(metrics.Categories)

	return metrics, nil
}

// CategoryBreakdown computes per-category sales, optionally scoped to one
// supplier. Sorted by sales descending.
func (a *Aggregator) CategoryBreakdown(snapshot dataset.Snapshot, supplier string) ([]CategoryBreakdown, error) {
	scoped, err := a.scope(snapshot, supplier)
	if err != nil {
		return nil, err
	}

	type catAcc struct {
		sales, units float64
		transactions int
		skus         map[int64]struct{}
	}
	grouped := make(map[string]*catAcc)
	var totalSales float64

	for _, r := range scoped.Records {
		acc, ok := grouped[r.Category]
		if !ok {
			acc = &catAcc{skus: make(map[int64]struct{})}
			grouped[r.Category] = acc
		}
		acc.sales += r.TotalSales
		acc.units += r.Quantity
		acc.transactions++
		acc.skus[r.ItemCode] = struct{}{}
		totalSales += r.TotalSales
	}

	results := make([]CategoryBreakdown, 0, len(grouped))
	for category, acc := range grouped {
		breakdown := CategoryBreakdown{
			Category:     category,
			Sales:        acc.sales,
			Units:        acc.units,
			Transactions: acc.transactions,
			UniqueSKUs:   len(acc.skus),
		}
		if totalSales > 0 {
			breakdown.SalesSharePct = acc.sales / totalSales * 100
		}
		results = append(results, breakdown)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Sales != results[j].Sales {
			return results[i].Sales > results[j].Sales
		}
		return results[i].Category < results[j].Category
	})
	return results, nil
}

// StoreRankings returns the top stores by sales, optionally scoped to one
// supplier.
func (a *Aggregator) StoreRankings(snapshot dataset.Snapshot, supplier string, topN int) ([]StoreRanking, error) {
	scoped, err := a.scope(snapshot, supplier)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopStores
	}

	type storeAcc struct {
		sales, units float64
		transactions int
		skus         map[int64]struct{}
	}
	grouped := make(map[string]*storeAcc)
	for _, r := range scoped.Records {
		acc, ok := grouped[r.Store]
		if !ok {
			acc = &storeAcc{skus: make(map[int64]struct{})}
			grouped[r.Store] = acc
		}
		acc.sales += r.TotalSales
		acc.units += r.Quantity
		acc.transactions++
		acc.skus[r.ItemCode] = struct{}{}
	}

	rankings := make([]StoreRanking, 0, len(grouped))
	for store, acc := range grouped {
		ranking := StoreRanking{
			Store:        store,
			Sales:        acc.sales,
			Units:        acc.units,
			Transactions: acc.transactions,
			UniqueSKUs:   len(acc.skus),
		}
		if acc.transactions > 0 {
			ranking.AvgTransactionValue = acc.sales / float64(acc.transactions)
		}
		rankings = append(rankings, ranking)
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Sales != rankings[j].Sales {
			return rankings[i].Sales > rankings[j].Sales
		}
		return rankings[i].Store < rankings[j].Store
	})
	if len(rankings) > topN {
		rankings = rankings[:topN]
	}
	return rankings, nil
}

// TopSKUs returns the top products by sales or units.
func (a *Aggregator) TopSKUs(snapshot dataset.Snapshot, supplier string, byUnits bool, topN int) ([]TopSKU, error) {
	scoped, err := a.scope(snapshot, supplier)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopSKUs
	}

	type skuAcc struct {
		first        dataset.Record
		sales, units float64
		transactions int
		stores       map[string]struct{}
	}
	grouped := make(map[int64]*skuAcc)
	for _, r := range scoped.Records {
		acc, ok := grouped[r.ItemCode]
		if !ok {
			acc = &skuAcc{first: r, stores: make(map[string]struct{})}
			grouped[r.ItemCode] = acc
		}
		acc.sales += r.TotalSales
		acc.units += r.Quantity
		acc.transactions++
		acc.stores[r.Store] = struct{}{}
	}

	skus := make([]TopSKU, 0, len(grouped))
	for code, acc := range grouped {
		skus = append(skus, TopSKU{
			ItemCode:      code,
			Description:   acc.first.Description,
			Supplier:      acc.first.Supplier,
			Sales:         acc.sales,
			Units:         acc.units,
			Transactions:  acc.transactions,
			StoresPresent: len(acc.stores),
		})
	}

	sort.Slice(skus, func(i, j int) bool {
		vi, vj := skus[i].Sales, skus[j].Sales
		if byUnits {
			vi, vj = skus[i].Units, skus[j].Units
		}
		if vi != vj {
			return vi > vj
		}
		return skus[i].ItemCode < skus[j].ItemCode
	})
	if len(skus) > topN {
		skus = skus[:topN]
	}
	return skus, nil
}

// DailyTrends returns per-day sales totals in date order.
func (a *Aggregator) DailyTrends(snapshot dataset.Snapshot, supplier string) ([]DailyTrend, error) {
	scoped, err := a.scope(snapshot, supplier)
	if err != nil {
		return nil, err
	}

	type dayAcc struct {
		sales, units float64
		transactions int
	}
	grouped := make(map[time.Time]*dayAcc)
	for _, r := range scoped.Records {
		day := r.SaleDate.Truncate(24 * time.Hour)
		acc, ok := grouped[day]
		if !ok {
			acc = &dayAcc{}
			grouped[day] = acc
		}
		acc.sales += r.TotalSales
		acc.units += r.Quantity
		acc.transactions++
	}

	trends := make([]DailyTrend, 0, len(grouped))
	for day, acc := range grouped {
		trends = append(trends, DailyTrend{
			Date:         day,
			Sales:        acc.sales,
			Units:        acc.units,
			Transactions: acc.transactions,
		})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date.Before(trends[j].Date) })
	return trends, nil
}

// ExecutiveSummary combines the KPI views into one supplier-focused report.
func (a *Aggregator) ExecutiveSummary(snapshot dataset.Snapshot, supplier string) (ExecutiveSummary, error) {
	market, err := a.MarketOverview(snapshot)
	if err != nil {
		return ExecutiveSummary{}, err
	}
	metrics, err := a.SupplierMetrics(snapshot, supplier)
	if err != nil {
		return ExecutiveSummary{}, err
	}
	categories, err := a.CategoryBreakdown(snapshot, supplier)
	if err != nil {
		return ExecutiveSummary{}, err
	}
	stores, err := a.StoreRankings(snapshot, supplier, summaryTopN)
	if err != nil {
		return ExecutiveSummary{}, err
	}
	products, err := a.TopSKUs(snapshot, supplier, false, summaryTopN)
	if err != nil {
		return ExecutiveSummary{}, err
	}

	summary := ExecutiveSummary{
		GeneratedAt:         time.Now(),
		Supplier:            supplier,
		Market:              market,
		SupplierPerformance: metrics,
		Categories:          categories,
		TopStores:           stores,
		TopProducts:         products,
		KeyMetrics: KeyMetrics{
			MarketShare:   formatPercentage(metrics.MarketSharePct),
			TotalSales:    formatCurrency(metrics.TotalSales),
			TotalUnits:    formatNumber(metrics.TotalUnits),
			AvgUnitPrice:  formatCurrency(metrics.AvgUnitPrice),
			StoreCoverage: fmt.Sprintf("%d of %d stores", metrics.StoresPresent, market.UniqueStores),
		},
	}

	a.logger.Info("executive summary generated",
		slog.String("supplier", supplier),
		slog.Float64("market_share_pct", metrics.MarketSharePct),
		slog.Int("categories", len(categories)))

	return summary, nil
}

// scope filters to valid rows and, when supplier is set, to that supplier.
func (a *Aggregator) scope(snapshot dataset.Snapshot, supplier string) (dataset.Snapshot, error) {
	if snapshot.IsEmpty() {
		return dataset.Snapshot{}, ErrEmptyDataset
	}
	valid := dataset.FilterValid(snapshot, false, false)
	if supplier == "" {
		return valid, nil
	}
	scoped := dataset.FilterSupplier(valid, supplier)
	if scoped.IsEmpty() {
		return dataset.Snapshot{}, ErrSupplierNotFound
	}
	return scoped, nil
}

func formatPercentage(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

func formatCurrency(value float64) string {
	return "KES " + formatNumber(value)
}

// formatNumber renders a value with thousands separators and two decimals.
func formatNumber(value float64) string {
	text := fmt.Sprintf("%.2f", value)

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}
	parts := strings.SplitN(text, ".", 2)

	digits := parts[0]
	var grouped []string
	for len(digits) > 3 {
		grouped = append([]string{digits[len(digits)-3:]}, grouped...)
		digits = digits[:len(digits)-3]
	}
	grouped = append([]string{digits}, grouped...)

	return sign + strings.Join(grouped, ",") + "." + parts[1]
}
