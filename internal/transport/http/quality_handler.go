package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/services"
)

// QualityHandler handles data quality HTTP requests
type QualityHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQualityHandler creates a new quality handler
func NewQualityHandler(service *services.AnalyticsService, logger *slog.Logger) *QualityHandler {
	return &QualityHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "quality")),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the quality routes
func (h *QualityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/quality", h.GetQualityReport)
}

// GetQualityReport handles GET /api/quality
func (h *QualityHandler) GetQualityReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.Quality(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "quality report generated",
		slog.Int("stores", report.TotalStores),
		slog.Int("suppliers", report.TotalSuppliers),
		slog.Int("critical_issues", len(report.CriticalIssues)))

	render.JSON(w, r, report)
}
