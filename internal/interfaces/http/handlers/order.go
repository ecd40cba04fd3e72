package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"karmdeep-backend/internal/service/order"
	"karmdeep-backend/pkg/api"
	"karmdeep-backend/pkg/auth"
	appErrors "karmdeep-backend/pkg/errors"
)

// OrderHandler serves purchase orders.
type OrderHandler struct {
	svc    *order.Service
	logger *zap.Logger
}

// NewOrderHandler wires the order routes.
func NewOrderHandler(svc *order.Service, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, logger: logger}
}

// Register mounts the order routes on the router.
func (h *OrderHandler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{orderId}", h.getOrder)
	r.Put("/orders/{orderId}/status", h.updateStatus)
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.svc.CreateOrder(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, created)
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	found, err := h.svc.GetOrder(r.Context(), principal, chi.URLParam(r, "orderId"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, found)
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := pageParams(r)
	q := r.URL.Query()
	orders, next, err := h.svc.ListOrders(r.Context(),
		q.Get("buyerId"), q.Get("vendorId"), q.Get("status"), limit, nextToken)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, api.PaginatedResponse{
		Items:     orders,
		Total:     len(orders),
		NextToken: next,
	})
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
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
	status, _ := payload["status"].(string)
	if status == "" {
		api.HandleError(w, r, appErrors.NewValidation("status is required"))
		return
	}

	updated, err := h.svc.UpdateStatus(r.Context(), principal, chi.URLParam(r, "orderId"), status)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, updated)
}
