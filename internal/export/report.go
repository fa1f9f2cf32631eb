package export

import (
	"retailpulse/internal/promo"
	"retailpulse/internal/quality"
)

// WritePromoReport writes the sectioned promotion analysis report: a
// summary block, the insight lines, then one row per product.
func (w *CSVWriter) WritePromoReport(name string, summary promo.Summary, products []promo.ProductResult) error {
	supplier := summary.Supplier
	if supplier == "" {
		supplier = "ALL"
	}

	records := [][]string{
		{"PROMOTION ANALYSIS"},
		{"Generated:", summary.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Supplier:", supplier},
		{"Total Products:", formatInt(summary.TotalProducts)},
		{"Products On Promo:", formatInt(summary.ProductsOnPromo)},
		{"Promo SKU %:", formatPct(summary.PromoSKUPct)},
		{"Avg Uplift %:", formatOptFloat(summary.AvgUpliftPct)},
		{"Median Uplift %:", formatOptFloat(summary.MedianUpliftPct)},
		{"Avg Discount %:", formatOptFloat(summary.AvgDiscountPct)},
		nil,
		{"INSIGHTS"},
	}
	for _, insight := range summary.Insights {
		records = append(records, []string{insight})
	}

	records = append(records, nil, []string{"PRODUCTS"}, []string{
		"Item Code", "Description", "Supplier", "Status",
		"Promo Stores", "Baseline Stores", "Promo Units", "Baseline Units",
		"Uplift %", "Avg Discount %", "Coverage %",
	})
	for _, p := range products {
		records = append(records, []string{
			formatItemCode(p.ItemCode),
			p.Description,
			p.Supplier,
			string(p.Status),
			formatInt(p.PromoStores),
			formatInt(p.BaselineStores),
			formatUnits(p.PromoUnits),
			formatUnits(p.BaselineUnits),
			formatOptFloat(p.UpliftPct),
			formatOptFloat(p.AvgDiscountPct),
			formatPct(p.CoveragePct),
		})
	}

	return w.WriteCSV(name, WriteOptions{Records: records, BOMPrefix: true})
}

// WriteQualityReport writes the data quality assessment: dataset totals,
// per-store and per-supplier trust scores, and any critical issues.
func (w *CSVWriter) WriteQualityReport(name string, report quality.Report) error {
	records := [][]string{
		{"DATA QUALITY ASSESSMENT"},
		{"Generated:", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Records:", formatInt(report.TotalRecords)},
		{"Total Stores:", formatInt(report.TotalStores)},
		{"Total Suppliers:", formatInt(report.TotalSuppliers)},
		{"Overall Completeness:", formatFloat(report.OverallCompleteness)},
		{"Overall Validity:", formatFloat(report.OverallValidity)},
		{"Overall Consistency:", formatFloat(report.OverallConsistency)},
		{"Trusted Stores:", formatInt(report.TrustedStores)},
		{"Trusted Suppliers:", formatInt(report.TrustedSuppliers)},
		nil,
		{"SCORES"},
		{"Entity", "Type", "Completeness", "Validity", "Consistency", "Overall", "Grade", "Records", "Trusted"},
	}

	appendScores := func(scores []quality.Score) {
		for _, s := range scores {
			records = append(records, []string{
				s.EntityName,
				s.EntityType,
				formatFloat(s.Completeness),
				formatFloat(s.Validity),
				formatFloat(s.Consistency),
				formatFloat(s.Overall),
				s.Grade,
				formatInt(s.TotalRecords),
				formatTrusted(s.Trusted),
			})
		}
	}
	appendScores(report.StoreScores)
	appendScores(report.SupplierScores)

	if len(report.CriticalIssues) > 0 {
		records = append(records, nil, []string{"CRITICAL ISSUES"},
			[]string{"Type", "Severity", "Field", "Description", "Count", "Pct"})
		for _, issue := range report.CriticalIssues {
			records = append(records, []string{
				issue.Type,
				issue.Severity,
				issue.Field,
				issue.Description,
				formatInt(issue.Count),
				formatPct(issue.Percentage),
			})
		}
	}

	return w.WriteCSV(name, WriteOptions{Records: records, BOMPrefix: true})
}

