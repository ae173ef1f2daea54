package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/luxelife/boutique/pkg/httputil"
	"github.com/luxelife/boutique/pkg/middleware"
	"github.com/luxelife/boutique/services/assistant/internal/concierge"
	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

// Toolset is the tool surface served over HTTP.
type Toolset interface {
	Specs() []tools.Spec
	SearchCatalog(ctx context.Context, query string) tools.SearchResult
	StartCheckout(ctx context.Context, sku string) tools.CheckoutResult
}

// Concierge answers chat messages.
type Concierge interface {
	Respond(ctx context.Context, conversationID, message string) (concierge.Turn, error)
}

// AssistantHandler handles HTTP requests for the tool and chat endpoints.
type AssistantHandler struct {
	tools     Toolset
	concierge Concierge
	logger    *slog.Logger
}

// NewAssistantHandler creates a new assistant HTTP handler.
func NewAssistantHandler(t Toolset, c Concierge, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{tools: t, concierge: c, logger: logger}
}

// SearchRequest is the JSON request body for the search_catalog tool.
type SearchRequest struct {
	Query string `json:"query"`
}

// CheckoutRequest is the JSON request body for the start_checkout tool.
type CheckoutRequest struct {
	SKU string `json:"sku" validate:"required,notblank"`
}

// ChatRequest is the JSON request body for POST /api/v1/chat.
type ChatRequest struct {
	ConversationID string `json:"conversation_id" validate:"omitempty,max=128"`
	Message        string `json:"message" validate:"required,notblank,max=2000"`
}

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Message string `json:"message"`
}

// Root handles GET /
func (h *AssistantHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Message: "LuxeLife Assistant Online"})
}

// ListTools handles GET /api/v1/tools
func (h *AssistantHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.tools.Specs())
}

// SearchCatalog handles POST /api/v1/tools/search_catalog. Catalog failures
// are part of the 200 body.
func (h *AssistantHandler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.tools.SearchCatalog(r.Context(), req.Query).Output())
}

// StartCheckout handles POST /api/v1/tools/start_checkout
func (h *AssistantHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.tools.StartCheckout(r.Context(), req.SKU).Output())
}

// Chat handles POST /api/v1/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = r.Header.Get(middleware.ConversationIDHeader)
	}

	turn, err := h.concierge.Respond(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.Header().Set(middleware.ConversationIDHeader, turn.ConversationID)
	httputil.WriteJSON(w, http.StatusOK, turn)
}

// Instruction handles GET /api/v1/instruction
func (h *AssistantHandler) Instruction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(concierge.Instruction))
}
