package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"karmdeep-backend/internal/service/maintenance"
	"karmdeep-backend/pkg/api"
	"karmdeep-backend/pkg/auth"
)

// MaintenanceHandler serves work orders and maintenance schedules.
type MaintenanceHandler struct {
	svc    *maintenance.Service
	logger *zap.Logger
}

// NewMaintenanceHandler wires the maintenance routes.
func NewMaintenanceHandler(svc *maintenance.Service, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, logger: logger}
}

// Register mounts the maintenance routes on the router.
func (h *MaintenanceHandler) Register(r chi.Router) {
	r.Post("/workorders", h.createWorkOrder)
	r.Get("/workorders", h.getWorkOrders)
	r.Put("/workorders/{workOrderId}", h.updateWorkOrder)
	r.Post("/schedules", h.createSchedule)
}

func (h *MaintenanceHandler) createWorkOrder(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.svc.CreateWorkOrder(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, created)
}

func (h *MaintenanceHandler) updateWorkOrder(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.svc.UpdateWorkOrder(r.Context(), principal, chi.URLParam(r, "workOrderId"), payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, updated)
}

func (h *MaintenanceHandler) getWorkOrders(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := pageParams(r)
	q := r.URL.Query()
	workOrders, next, err := h.svc.GetWorkOrders(r.Context(),
		q.Get("technicianId"), q.Get("machineId"), limit, nextToken)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, api.PaginatedResponse{
		Items:     workOrders,
		Total:     len(workOrders),
		NextToken: next,
	})
}

func (h *MaintenanceHandler) createSchedule(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.svc.CreateSchedule(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, created)
}
