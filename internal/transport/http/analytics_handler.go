// Package http exposes the analytics pipeline over a JSON API consumed by
// the dashboard front end.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "shoppulse/internal/errors"
	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

// AnalyticsHandler handles the analytics endpoints.
type AnalyticsHandler struct {
	service  *services.AnalyticsService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAnalyticsHandler creates the handler.
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "analytics_handler")),
		validate: validator.New(),
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/metrics", h.GetMetrics)
	r.Get("/summary", h.GetSummary)
	r.Get("/filters", h.GetFilters)

	return r
}

// metricsQuery carries the validated filter query parameters.
type metricsQuery struct {
	Year   *int   `validate:"omitempty,gte=1970,lte=2100"`
	Month  *int   `validate:"omitempty,gte=1,lte=12"`
	Status string `validate:"omitempty,ascii,max=32"`
}

// parseFilter reads year/month/status query parameters into a Filter.
func (h *AnalyticsHandler) parseFilter(r *http.Request) (domain.Filter, *apierrors.APIError) {
	var q metricsQuery

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Filter{}, apierrors.ErrValidation("year", "must be an integer")
		}
		q.Year = &year
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Filter{}, apierrors.ErrValidation("month", "must be an integer")
		}
		q.Month = &month
	}
	q.Status = r.URL.Query().Get("status")

	if err := h.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Filter{}, apierrors.ErrValidation(verrs[0].Field(), "invalid value")
		}
		return domain.Filter{}, apierrors.ErrInvalidRequest
	}

	return domain.Filter{
		Year:   q.Year,
		Month:  q.Month,
		Status: domain.OrderStatus(q.Status),
	}, nil
}

// GetMetrics handles GET /api/analytics/metrics?year=&month=&status=.
func (h *AnalyticsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := h.parseFilter(r)
	if apiErr != nil {
		apierrors.HandleError(w, r, apiErr)
		return
	}

	snapshot, err := h.service.Compute(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute metrics",
			slog.String("error", err.Error()))
		if errors.Is(err, services.ErrNotLoaded) {
			apierrors.HandleError(w, r, apierrors.ErrDatasetUnavailable)
			return
		}
		apierrors.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   snapshot,
	})
}

// GetSummary handles GET /api/analytics/summary.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNotLoaded) {
			apierrors.HandleError(w, r, apierrors.ErrDatasetUnavailable)
			return
		}
		apierrors.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetFilters handles GET /api/analytics/filters.
func (h *AnalyticsHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	years, statuses, err := h.service.Filters(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNotLoaded) {
			apierrors.HandleError(w, r, apierrors.ErrDatasetUnavailable)
			return
		}
		apierrors.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"years":    years,
			"statuses": statuses,
		},
	})
}
