package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/services"
)

// DashboardHandler serves the combined supplier dashboard
type DashboardHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *services.AnalyticsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/{supplier}", h.GetDashboard)
}

// GetDashboard handles GET /api/dashboard/{supplier}
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supplier := chi.URLParam(r, "supplier")

	h.logger.InfoContext(ctx, "dashboard requested",
		slog.String("supplier", supplier))

	dashboard, err := h.service.Dashboard(ctx, supplier)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, dashboard)
}
