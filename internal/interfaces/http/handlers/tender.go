package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"karmdeep-backend/internal/service/tender"
	"karmdeep-backend/pkg/api"
	"karmdeep-backend/pkg/auth"
	appErrors "karmdeep-backend/pkg/errors"
)

// TenderHandler serves tenders and bids.
type TenderHandler struct {
	svc    *tender.Service
	logger *zap.Logger
}

// NewTenderHandler wires the tender routes.
func NewTenderHandler(svc *tender.Service, logger *zap.Logger) *TenderHandler {
	return &TenderHandler{svc: svc, logger: logger}
}

// Register mounts the tender routes on the router.
func (h *TenderHandler) Register(r chi.Router) {
	r.Post("/tenders", h.createTender)
	r.Get("/tenders", h.listTenders)
	r.Get("/tenders/{tenderId}", h.getTender)
	r.Put("/tenders/{tenderId}/status", h.updateStatus)
	r.Post("/tenders/{tenderId}/bids", h.submitBid)
	r.Get("/tenders/{tenderId}/bids", h.getBids)
	r.Put("/tenders/{tenderId}/bids/{vendorId}", h.reviewBid)
}

func (h *TenderHandler) createTender(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.svc.CreateTender(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, created)
}

func (h *TenderHandler) getTender(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetTender(r.Context(), chi.URLParam(r, "tenderId"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, found)
}

func (h *TenderHandler) listTenders(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := pageParams(r)
	q := r.URL.Query()
	tenders, next, err := h.svc.ListTenders(r.Context(), q.Get("buyerId"), q.Get("status"), limit, nextToken)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, api.PaginatedResponse{
		Items:     tenders,
		Total:     len(tenders),
		NextToken: next,
	})
}

func (h *TenderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.svc.UpdateTenderStatus(r.Context(), principal, chi.URLParam(r, "tenderId"), status)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, updated)
}

func (h *TenderHandler) submitBid(w http.ResponseWriter, r *http.Request) {
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

	bid, err := h.svc.SubmitBid(r.Context(), principal, chi.URLParam(r, "tenderId"), payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, bid)
}

func (h *TenderHandler) getBids(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	limit, nextToken := pageParams(r)
	bids, next, err := h.svc.GetBids(r.Context(), principal, chi.URLParam(r, "tenderId"), limit, nextToken)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, api.PaginatedResponse{
		Items:     bids,
		Total:     len(bids),
		NextToken: next,
	})
}

func (h *TenderHandler) reviewBid(w http.ResponseWriter, r *http.Request) {
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

	bid, err := h.svc.ReviewBid(r.Context(), principal,
		chi.URLParam(r, "tenderId"), chi.URLParam(r, "vendorId"), status)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, bid)
}
