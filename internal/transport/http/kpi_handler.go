package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/services"
)

// KPIHandler handles KPI aggregation HTTP requests
type KPIHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewKPIHandler creates a new KPI handler
func NewKPIHandler(service *services.AnalyticsService, logger *slog.Logger) *KPIHandler {
	return &KPIHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "kpi")),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the KPI routes
func (h *KPIHandler) RegisterRoutes(r chi.Router) {
	r.Route("/kpis", func(r chi.Router) {
		r.Get("/market", h.GetMarketOverview)
		r.Get("/{supplier}", h.GetExecutiveSummary)
	})
}

// GetMarketOverview handles GET /api/kpis/market
func (h *KPIHandler) GetMarketOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := h.service.MarketOverview(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, overview)
}

// GetExecutiveSummary handles GET /api/kpis/{supplier}
func (h *KPIHandler) GetExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supplier := chi.URLParam(r, "supplier")

	h.logger.InfoContext(ctx, "executive summary requested",
		slog.String("supplier", supplier))

	summary, err := h.service.ExecutiveSummary(ctx, supplier)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}
