package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/models"
	"github.com/tripsight/tripsight-engine/pkg/services"
)

// DashboardHandler handles dashboard aggregate endpoints.
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard/kpis", h.KPIs)
	mux.HandleFunc("GET /api/dashboard/charts", h.Charts)
}

// KPIs handles GET /api/dashboard/kpis requests.
func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTripFilter(r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	summary, err := h.dashboardService.KPIs(r.Context(), filter)
	if err != nil {
		h.logger.Error("KPI aggregation failed", zap.Error(err))
		_ = writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, summary); err != nil {
		h.logger.Error("Failed to encode kpi response", zap.Error(err))
	}
}

// Charts handles GET /api/dashboard/charts requests.
func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTripFilter(r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	data, err := h.dashboardService.Charts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Chart aggregation failed", zap.Error(err))
		_ = writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, data); err != nil {
		h.logger.Error("Failed to encode chart response", zap.Error(err))
	}
}

// parseTripFilter reads from/to dates (YYYY-MM-DD) and a comma-separated
// vehicles list from the query string.
func parseTripFilter(r *http.Request) (models.TripFilter, error) {
	var filter models.TripFilter
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("from must be a YYYY-MM-DD date")
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("to must be a YYYY-MM-DD date")
		}
		filter.To = &t
	}
	if raw := q.Get("vehicles"); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				filter.Vehicles = append(filter.Vehicles, v)
			}
		}
	}

	return filter, nil
}
