// Command promo-report runs the promotion analysis against a transaction
// workbook and writes CSV reports without starting the HTTP server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"retailpulse/internal/dataset"
	"retailpulse/internal/export"
	"retailpulse/internal/promo"
	"retailpulse/internal/quality"
)

func main() {
	snapshotPath := flag.String("file", "data/transactions.xlsx", "transaction workbook to analyze")
	supplier := flag.String("supplier", "", "supplier name filter (substring match, empty for all)")
	outputDir := flag.String("out", "data/reports", "output directory for the reports")
	threshold := flag.Float64("threshold", promo.DefaultDiscountThresholdPct, "mean discount percentage at which a store counts as promoting")
	topN := flag.Int("top", promo.DefaultTopN, "number of top performers to report")
	withQuality := flag.Bool("quality", false, "also write the data quality assessment")
	flag.Parse()

	logger := slog.Default()

	logger.Info("loading transactions", "path", *snapshotPath)
	snapshot, err := dataset.LoadFile(*snapshotPath, logger)
	if err != nil {
		logger.Error("failed to load transactions", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded transactions", "records", snapshot.Len(), "skipped_rows", snapshot.SkippedRows)

	cfg := promo.DefaultConfig()
	cfg.DiscountThresholdPct = *threshold
	cfg.TopN = *topN

	detector, err := promo.NewDetector(cfg, logger)
	if err != nil {
		logger.Error("invalid detection parameters", "error", err)
		os.Exit(1)
	}

	summary, err := detector.Summarize(snapshot, *supplier)
	if err != nil {
		logger.Error("promotion analysis failed", "error", err)
		os.Exit(1)
	}

	products, err := detector.Detect(snapshot, *supplier)
	if err != nil {
		logger.Error("promotion analysis failed", "error", err)
		os.Exit(1)
	}

	writer := export.NewCSVWriter(*outputDir)
	stamp := time.Now().Format("20060102")

	promoName := fmt.Sprintf("promo_report_%s.csv", stamp)
	if err := writer.WritePromoReport(promoName, summary, products); err != nil {
		logger.Error("failed to write promotion report", "error", err)
		os.Exit(1)
	}
	logger.Info("promotion report written",
		"file", promoName,
		"products", len(products),
		"on_promo", summary.ProductsOnPromo)

	if *withQuality {
		analyzer, err := quality.NewAnalyzer(quality.DefaultConfig(), logger)
		if err != nil {
			logger.Error("invalid quality parameters", "error", err)
			os.Exit(1)
		}

		report, err := analyzer.Analyze(snapshot)
		if err != nil {
			logger.Error("quality analysis failed", "error", err)
			os.Exit(1)
		}

		qualityName := fmt.Sprintf("quality_report_%s.csv", stamp)
		if err := writer.WriteQualityReport(qualityName, report); err != nil {
			logger.Error("failed to write quality report", "error", err)
			os.Exit(1)
		}
		logger.Info("quality report written",
			"file", qualityName,
			"stores", report.TotalStores,
			"critical_issues", len(report.CriticalIssues))
	}
}
