package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/pricing"
	"retailpulse/internal/services"
)

// PricingHandler handles competitive pricing HTTP requests
type PricingHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(service *services.AnalyticsService, logger *slog.Logger) *PricingHandler {
	return &PricingHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "pricing")),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the pricing routes
func (h *PricingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/pricing/{supplier}", h.GetPricing)
}

// PricingResponse is the competitive pricing payload
type PricingResponse struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Summary     pricing.Summary       `json:"summary"`
	SKUs        []pricing.IndexResult `json:"skus"`
}

// GetPricing handles GET /api/pricing/{supplier}
func (h *PricingHandler) GetPricing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supplier := chi.URLParam(r, "supplier")

	h.logger.InfoContext(ctx, "pricing analysis requested",
		slog.String("supplier", supplier))

	summary, results, err := h.service.Pricing(ctx, supplier)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, PricingResponse{
		GeneratedAt: summary.GeneratedAt,
		Summary:     summary,
		SKUs:        results,
	})
}
