package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"karmdeep-backend/internal/service/vendor"
	"karmdeep-backend/pkg/api"
	"karmdeep-backend/pkg/auth"
)

// VendorHandler serves vendor profiles and the product catalog.
type VendorHandler struct {
	svc    *vendor.Service
	logger *zap.Logger
}

// NewVendorHandler wires the vendor routes.
func NewVendorHandler(svc *vendor.Service, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{svc: svc, logger: logger}
}

// Register mounts the vendor routes on the router.
func (h *VendorHandler) Register(r chi.Router) {
	r.Post("/vendors", h.register)
	r.Get("/vendors", h.listVendors)
	r.Get("/vendors/{vendorId}", h.getProfile)
	r.Put("/vendors/{vendorId}", h.updateProfile)

	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Get("/products/search", h.searchProducts)
	r.Get("/vendors/{vendorId}/products/{productId}", h.getProduct)
	r.Put("/vendors/{vendorId}/products/{productId}", h.updateProduct)
}

func (h *VendorHandler) register(w http.ResponseWriter, r *http.Request) {
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

	profile, err := h.svc.Register(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, profile)
}

func (h *VendorHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetProfile(r.Context(), chi.URLParam(r, "vendorId"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, profile)
}

func (h *VendorHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
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

	profile, err := h.svc.UpdateProfile(r.Context(), principal, chi.URLParam(r, "vendorId"), payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, profile)
}

func (h *VendorHandler) listVendors(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := pageParams(r)
	vendors, next, err := h.svc.ListVendors(r.Context(), limit, nextToken)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, api.PaginatedResponse{
		Items:     vendors,
		Total:     len(vendors),
		NextToken: next,
	})
}

func (h *VendorHandler) createProduct(w http.ResponseWriter, r *http.Request) {
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

	product, err := h.svc.CreateProduct(r.Context(), principal, payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusCreated, product)
}

func (h *VendorHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "vendorId"), chi.URLParam(r, "productId"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, product)
}

func (h *VendorHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
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

	product, err := h.svc.UpdateProduct(r.Context(), principal,
		chi.URLParam(r, "vendorId"), chi.URLParam(r, "productId"), payload)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, product)
}

func (h *VendorHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, nextToken := pageParams(r)
	products, next, err := h.svc.ListProducts(r.Context(),
		r.URL.Query().Get("vendorId"), r.URL.Query().Get("category"), limit, nextToken)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, api.PaginatedResponse{
		Items:     products,
		Total:     len(products),
		NextToken: next,
	})
}

func (h *VendorHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := vendor.SearchFilter{
		Query:        q.Get("q"),
		Category:     q.Get("category"),
		Availability: q.Get("availability"),
	}
	if raw := q.Get("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := q.Get("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	products, err := h.svc.SearchProducts(r.Context(), filter, q.Get("vendorId"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, r, http.StatusOK, api.PaginatedResponse{
		Items: products,
		Total: len(products),
	})
}
