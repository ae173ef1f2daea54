package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxelife/boutique/pkg/httputil"
	"github.com/luxelife/boutique/services/catalog/internal/service"
)

// CatalogHandler handles HTTP requests for the catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// CreateSessionRequest is the JSON request body for POST /sessions.
type CreateSessionRequest struct {
	SKU string `json:"sku" validate:"required,notblank"`
}

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Message string `json:"message"`
}

// Root handles GET /
func (h *CatalogHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Message: "LuxeLife Server Online"})
}

// ListProducts handles GET /products. The body is a bare JSON array.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.ListProducts(r.Context()))
}

// GetProduct handles GET /products/{sku}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// CreateSession handles POST /sessions
func (h *CatalogHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.service.CreateSession(r.Context(), &service.CreateSessionInput{SKU: req.SKU})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, session)
}
