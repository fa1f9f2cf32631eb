package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"retailpulse/internal/config"
	"retailpulse/internal/dataset"
	"retailpulse/internal/infrastructure"
	"retailpulse/internal/kpi"
	"retailpulse/internal/pricing"
	"retailpulse/internal/promo"
	"retailpulse/internal/quality"
)

// SnapshotProvider supplies the transaction snapshot the analysis
// engines run against.
type SnapshotProvider interface {
	Snapshot() dataset.Snapshot
}

// PromoOverrides carries optional per-request tuning for promotion
// detection. Nil fields fall back to the configured values.
type PromoOverrides struct {
	DiscountThresholdPct *float64
	TopN                 *int
}

// Dashboard combines all analyses for one supplier into a single view.
type Dashboard struct {
	Supplier    string               `json:"supplier"`
	GeneratedAt time.Time            `json:"generated_at"`
	Promotions  promo.Summary        `json:"promotions"`
	Quality     quality.Report       `json:"quality"`
	Pricing     pricing.Summary      `json:"pricing"`
	Executive   kpi.ExecutiveSummary `json:"executive"`
}

// AnalyticsService coordinates the analysis engines over the shared
// snapshot and records run metrics.
type AnalyticsService struct {
	provider   SnapshotProvider
	promoCfg   promo.Config
	detector   *promo.Detector
	analyzer   *quality.Analyzer
	calculator *pricing.Calculator
	aggregator *kpi.Aggregator
	metrics    *infrastructure.Metrics
	logger     *slog.Logger
}

// NewAnalyticsService builds the engines from configuration.
func NewAnalyticsService(cfg config.AnalyticsConfig, provider SnapshotProvider, metrics *infrastructure.Metrics, logger *slog.Logger) (*AnalyticsService, error) {
	if provider == nil {
		return nil, fmt.Errorf("snapshot provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	promoCfg := promo.Config{
		DiscountThresholdPct: cfg.Promo.DiscountThresholdPct,
		MinBaselineStores:    cfg.Promo.MinBaselineStores,
		MinPromoUnits:        cfg.Promo.MinPromoUnits,
		TopN:                 cfg.Promo.TopN,
	}
	detector, err := promo.NewDetector(promoCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("promo detector: %w", err)
	}

	qualityCfg := quality.DefaultConfig()
	qualityCfg.MinTrustScore = cfg.Quality.TrustThreshold
	qualityCfg.MaxNullPct = cfg.Quality.MaxNullPct
	qualityCfg.MaxNegativePct = cfg.Quality.MaxNegativePct
	qualityCfg.MaxZeroPct = cfg.Quality.MaxZeroPct
	analyzer, err := quality.NewAnalyzer(qualityCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("quality analyzer: %w", err)
	}

	pricingCfg := pricing.DefaultConfig()
	pricingCfg.PremiumThreshold = cfg.Pricing.PremiumThreshold
	pricingCfg.DiscountThreshold = cfg.Pricing.DiscountThreshold
	pricingCfg.MinCompetitors = cfg.Pricing.MinCompetitors
	pricingCfg.MinTransactions = cfg.Pricing.MinTransactions
	calculator, err := pricing.NewCalculator(pricingCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("pricing calculator: %w", err)
	}

	return &AnalyticsService{
		provider:   provider,
		promoCfg:   promoCfg,
		detector:   detector,
		analyzer:   analyzer,
		calculator: calculator,
		aggregator: kpi.NewAggregator(logger),
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// Promotions runs promotion detection for the supplier and returns the
// full summary with per-product results.
func (s *AnalyticsService) Promotions(ctx context.Context, supplier string, overrides PromoOverrides) (promo.Summary, []promo.ProductResult, error) {
	detector, err := s.promoDetector(overrides)
	if err != nil {
		return promo.Summary{}, nil, err
	}

	snapshot := s.provider.Snapshot()

	summary, err := detector.Summarize(snapshot, supplier)
	if err != nil {
		s.record("promo", err)
		return promo.Summary{}, nil, err
	}

	products, err := detector.Detect(snapshot, supplier)
	if err != nil {
		s.record("promo", err)
		return promo.Summary{}, nil, err
	}

	s.record("promo", nil)
	return summary, products, nil
}

// promoDetector returns the shared detector, or a request-scoped one
// when overrides are present.
func (s *AnalyticsService) promoDetector(overrides PromoOverrides) (*promo.Detector, error) {
	if overrides.DiscountThresholdPct == nil && overrides.TopN == nil {
		return s.detector, nil
	}

	cfg := s.promoCfg
	if overrides.DiscountThresholdPct != nil {
		cfg.DiscountThresholdPct = *overrides.DiscountThresholdPct
	}
	if overrides.TopN != nil {
		cfg.TopN = *overrides.TopN
	}

	detector, err := promo.NewDetector(cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return detector, nil
}

// Quality scores the whole snapshot.
func (s *AnalyticsService) Quality(ctx context.Context) (quality.Report, error) {
	report, err := s.analyzer.Analyze(s.provider.Snapshot())
	s.record("quality", err)
	return report, err
}

// Pricing computes the competitive price position for the supplier.
func (s *AnalyticsService) Pricing(ctx context.Context, supplier string) (pricing.Summary, []pricing.IndexResult, error) {
	snapshot := s.provider.Snapshot()

	summary, err := s.calculator.Summarize(snapshot, supplier)
	if err != nil {
		s.record("pricing", err)
		return pricing.Summary{}, nil, err
	}

	results, err := s.calculator.Index(snapshot, supplier, false)
	if err != nil {
		s.record("pricing", err)
		return pricing.Summary{}, nil, err
	}

	s.record("pricing", nil)
	return summary, results, nil
}

// MarketOverview reports market-wide KPIs across all suppliers.
func (s *AnalyticsService) MarketOverview(ctx context.Context) (kpi.MarketOverview, error) {
	overview, err := s.aggregator.MarketOverview(s.provider.Snapshot())
	s.record("kpi", err)
	return overview, err
}

// ExecutiveSummary builds the full KPI pack for the supplier.
func (s *AnalyticsService) ExecutiveSummary(ctx context.Context, supplier string) (kpi.ExecutiveSummary, error) {
	summary, err := s.aggregator.ExecutiveSummary(s.provider.Snapshot(), supplier)
	s.record("kpi", err)
	return summary, err
}

// Dashboard runs all four analyses concurrently and combines them. Any
// failing analysis fails the whole dashboard.
func (s *AnalyticsService) Dashboard(ctx context.Context, supplier string) (Dashboard, error) {
	dashboard := Dashboard{
		Supplier:    supplier,
		GeneratedAt: time.Now(),
	}
	snapshot := s.provider.Snapshot()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.detector.Summarize(snapshot, supplier)
		if err != nil {
			return fmt.Errorf("promotions: %w", err)
		}
		dashboard.Promotions = summary
		return gctx.Err()
	})

	g.Go(func() error {
		report, err := s.analyzer.Analyze(snapshot)
		if err != nil {
			return fmt.Errorf("quality: %w", err)
		}
		dashboard.Quality = report
		return gctx.Err()
	})

	g.Go(func() error {
		summary, err := s.calculator.Summarize(snapshot, supplier)
		if err != nil {
			return fmt.Errorf("pricing: %w", err)
		}
		dashboard.Pricing = summary
		return gctx.Err()
	})

	g.Go(func() error {
		summary, err := s.aggregator.ExecutiveSummary(snapshot, supplier)
		if err != nil {
			return fmt.Errorf("kpi: %w", err)
		}
		dashboard.Executive = summary
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		s.record("dashboard", err)
		return Dashboard{}, err
	}

	s.record("dashboard", nil)
	return dashboard, nil
}

func (s *AnalyticsService) record(kind string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.AnalysisRuns.WithLabelValues(kind, outcome).Inc()
}
