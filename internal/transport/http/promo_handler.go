package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/promo"
	"retailpulse/internal/services"
)

var validate = validator.New()

// PromoHandler handles promotion analysis HTTP requests
type PromoHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPromoHandler creates a new promotion handler
func NewPromoHandler(service *services.AnalyticsService, logger *slog.Logger) *PromoHandler {
	return &PromoHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "promo")),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the promotion routes
func (h *PromoHandler) RegisterRoutes(r chi.Router) {
	r.Route("/promos", func(r chi.Router) {
		r.Get("/", h.GetPromotions)
		r.Get("/{supplier}", h.GetSupplierPromotions)
	})
}

// promoQuery carries the optional tuning parameters of a promotion request.
type promoQuery struct {
	Threshold *float64 `validate:"omitempty,gt=0,lte=100"`
	TopN      *int     `validate:"omitempty,gt=0,lte=100"`
}

// PromoResponse is the full promotion analysis payload
type PromoResponse struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Summary     promo.Summary         `json:"summary"`
	Products    []promo.ProductResult `json:"products"`
}

// GetPromotions handles GET /api/promos with an optional supplier query
func (h *PromoHandler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, r.URL.Query().Get("supplier"))
}

// GetSupplierPromotions handles GET /api/promos/{supplier}
func (h *PromoHandler) GetSupplierPromotions(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, chi.URLParam(r, "supplier"))
}

func (h *PromoHandler) respond(w http.ResponseWriter, r *http.Request, supplier string) {
	ctx := r.Context()

	query, err := parsePromoQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := validate.Struct(query); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusBadRequest,
			"INVALID_QUERY",
			"threshold must be in (0, 100] and top_n in [1, 100]",
		))
		return
	}

	h.logger.InfoContext(ctx, "promotion analysis requested",
		slog.String("supplier", supplier))

	summary, products, err := h.service.Promotions(ctx, supplier, services.PromoOverrides{
		DiscountThresholdPct: query.Threshold,
		TopN:                 query.TopN,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, PromoResponse{
		GeneratedAt: summary.GeneratedAt,
		Summary:     summary,
		Products:    products,
	})
}

func parsePromoQuery(r *http.Request) (promoQuery, error) {
	var query promoQuery

	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, apierrors.New(http.StatusBadRequest,
				"INVALID_QUERY", "threshold must be a number")
		}
		query.Threshold = &v
	}
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return query, apierrors.New(http.StatusBadRequest,
				"INVALID_QUERY", "top_n must be an integer")
		}
		query.TopN = &v
	}

	return query, nil
}
