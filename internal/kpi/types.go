package kpi

import (
	"time"
)

// MarketOverview carries the high-level metrics of the whole dataset
type MarketOverview struct {
	TotalSales          float64   `json:"total_sales"`
	TotalUnits          float64   `json:"total_units"`
	TotalTransactions   int       `json:"total_transactions"`
	UniqueStores        int       `json:"unique_stores"`
	UniqueSuppliers     int       `json:"unique_suppliers"`
	UniqueSKUs          int       `json:"unique_skus"`
	AvgTransactionValue float64   `json:"avg_transaction_value"`
	AvgUnitPrice        float64   `json:"avg_unit_price"`
	DateRangeStart      time.Time `json:"date_range_start"`
	DateRangeEnd        time.Time `json:"date_range_end"`
}

// SupplierMetrics carries one supplier's share of the market
type SupplierMetrics struct {
	Supplier          string   `json:"supplier"`
	TotalSales        float64  `json:"total_sales"`
	TotalUnits        float64  `json:"total_units"`
	TotalTransactions int      `json:"total_transactions"`
	MarketSharePct    float64  `json:"market_share_pct"`
	UniqueSKUs        int      `json:"unique_skus"`
	StoresPresent     int      `json:"stores_present"`
	AvgUnitPrice      float64  `json:"avg_unit_price"`
	Categories        []string `json:"categories"`
}

// CategoryBreakdown is one category's slice of the scoped sales
type CategoryBreakdown struct {
	Category      string  `json:"category"`
	Sales         float64 `json:"sales"`
	Units         float64 `json:"units"`
	Transactions  int     `json:"transactions"`
	UniqueSKUs    int     `json:"unique_skus"`
	SalesSharePct float64 `json:"sales_share_pct"`
}

// StoreRanking is one store's position in the sales ranking
type StoreRanking struct {
	Store               string  `json:"store"`
	Sales               float64 `json:"sales"`
	Units               float64 `json:"units"`
	Transactions        int     `json:"transactions"`
	UniqueSKUs          int     `json:"unique_skus"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

// TopSKU is one product's position in the SKU ranking
type TopSKU struct {
	ItemCode      int64   `json:"item_code"`
	Description   string  `json:"description"`
	Supplier      string  `json:"supplier"`
	Sales         float64 `json:"sales"`
	Units         float64 `json:"units"`
	Transactions  int     `json:"transactions"`
	StoresPresent int     `json:"stores_present"`
}

// DailyTrend is one day's aggregate sales
type DailyTrend struct {
	Date         time.Time `json:"date"`
	Sales        float64   `json:"sales"`
	Units        float64   `json:"units"`
	Transactions int       `json:"transactions"`
}

// KeyMetrics are the formatted headline figures of the executive summary
type KeyMetrics struct {
	MarketShare   string `json:"market_share"`
	TotalSales    string `json:"total_sales"`
	TotalUnits    string `json:"total_units"`
	AvgUnitPrice  string `json:"avg_unit_price"`
	StoreCoverage string `json:"store_coverage"`
}

// ExecutiveSummary combines the KPI views into one supplier-focused report
type ExecutiveSummary struct {
	GeneratedAt         time.Time           `json:"generated_at"`
	Supplier            string              `json:"supplier"`
	Market              MarketOverview      `json:"market_overview"`
	SupplierPerformance SupplierMetrics     `json:"supplier_performance"`
	Categories          []CategoryBreakdown `json:"category_breakdown"`
	TopStores           []StoreRanking      `json:"top_stores"`
	TopProducts         []TopSKU            `json:"top_products"`
	KeyMetrics          KeyMetrics          `json:"key_metrics"`
}
