package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

// QuoteHandler handles quote workflow HTTP requests.
type QuoteHandler struct {
	quoteService services.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(quoteService services.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// RegisterRoutes registers the quote handler's routes on the given mux.
func (h *QuoteHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/connections/{connection_id}/quotes", authMiddleware.RequireAuth(h.CreateQuote))
	mux.HandleFunc("GET /api/connections/{connection_id}/quotes", authMiddleware.RequireAuth(h.ListQuotes))
	mux.HandleFunc("POST /api/quotes/{quote_id}/respond", authMiddleware.RequireAuth(h.RespondToQuote))
}

// CreateQuote handles POST /api/connections/{connection_id}/quotes?role=
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}
	role, ok := RequireRole(w, r, h.logger)
	if !ok {
		return
	}
	connectionID, ok := ParseUUIDPath(w, r, "connection_id", h.logger)
	if !ok {
		return
	}

	var terms services.QuoteTerms
	if err := json.NewDecoder(r.Body).Decode(&terms); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	quote, err := h.quoteService.CreateQuote(r.Context(), userID, role, connectionID, terms)
	if err != nil {
		h.logger.Warn("Failed to create quote",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: quote}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type respondQuoteRequest struct {
	Decision models.QuoteStatus `json:"decision"`
}

// RespondToQuote handles POST /api/quotes/{quote_id}/respond?role=
func (h *QuoteHandler) RespondToQuote(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}
	role, ok := RequireRole(w, r, h.logger)
	if !ok {
		return
	}
	quoteID, ok := ParseUUIDPath(w, r, "quote_id", h.logger)
	if !ok {
		return
	}

	var req respondQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	quote, err := h.quoteService.RespondToQuote(r.Context(), userID, role, quoteID, req.Decision)
	if err != nil {
		h.logger.Warn("Failed to respond to quote",
			zap.String("quote_id", quoteID.String()),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: quote}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListQuotes handles GET /api/connections/{connection_id}/quotes?role=
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}
	role, ok := RequireRole(w, r, h.logger)
	if !ok {
		return
	}
	connectionID, ok := ParseUUIDPath(w, r, "connection_id", h.logger)
	if !ok {
		return
	}

	quotes, err := h.quoteService.ListQuotes(r.Context(), userID, role, connectionID)
	if err != nil {
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if quotes == nil {
		quotes = make([]*models.Quote, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: quotes}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
