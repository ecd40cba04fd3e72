package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"karmdeep-backend/internal/service/analytics"
	"karmdeep-backend/pkg/api"
	"karmdeep-backend/pkg/auth"
)

// AnalyticsHandler serves behavior tracking and the reporting surface.
type AnalyticsHandler struct {
	svc    *analytics.Service
	logger *zap.Logger
}

// NewAnalyticsHandler wires the analytics routes.
func NewAnalyticsHandler(svc *analytics.Service, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// Register mounts the analytics routes on the router.
func (h *AnalyticsHandler) Register(r chi.Router) {
	r.Post("/behaviors", h.trackBehavior)
	r.Get("/recommendations", h.getRecommendations)
	r.Post("/reports", h.generateReport)
	r.Get("/metrics", h.getPlatformMetrics)
}

func (h *AnalyticsHandler) trackBehavior(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	event, err := h.svc.TrackBehavior(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, event)
}

func (h *AnalyticsHandler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.svc.GetRecommendations(r.Context(), principal, limit)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, result)
}

func (h *AnalyticsHandler) generateReport(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	report, err := h.svc.GenerateReport(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, report)
}

func (h *AnalyticsHandler) getPlatformMetrics(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	metrics, err := h.svc.GetPlatformMetrics(r.Context(), principal, r.URL.Query().Get("period"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, metrics)
}
