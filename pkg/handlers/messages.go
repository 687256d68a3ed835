package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

// MessageHandler handles chat HTTP requests.
type MessageHandler struct {
	messageService services.MessageService
	logger         *zap.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService services.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// RegisterRoutes registers the message handler's routes on the given mux.
func (h *MessageHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/connections/{connection_id}/messages", authMiddleware.RequireAuth(h.SendMessage))
	mux.HandleFunc("GET /api/connections/{connection_id}/messages", authMiddleware.RequireAuth(h.ListMessages))
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /api/connections/{connection_id}/messages?role=
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
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

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	message, err := h.messageService.SendMessage(r.Context(), userID, role, connectionID, req.Content)
	if err != nil {
		h.logger.Warn("Failed to send message",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: message}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMessages handles GET /api/connections/{connection_id}/messages?role=&limit=&offset=
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
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

	limit, offset := ParsePagination(r)
	messages, err := h.messageService.ListMessages(r.Context(), userID, role, connectionID, limit, offset)
	if err != nil {
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if messages == nil {
		messages = make([]*models.Message, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    PaginatedResponse{Items: messages, Limit: limit, Offset: offset},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
