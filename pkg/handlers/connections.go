package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

// ConnectionHandler handles connection workflow HTTP requests.
type ConnectionHandler struct {
	connectionService services.ConnectionService
	logger            *zap.Logger
}

// NewConnectionHandler creates a new connection handler.
func NewConnectionHandler(connectionService services.ConnectionService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the connection handler's routes on the given mux.
func (h *ConnectionHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/connections", authMiddleware.RequireAuth(h.RequestConnection))
	mux.HandleFunc("POST /api/connections/{connection_id}/respond", authMiddleware.RequireAuth(h.RespondToConnection))
	mux.HandleFunc("DELETE /api/connections/{connection_id}", authMiddleware.RequireAuth(h.ResignConnection))
	mux.HandleFunc("GET /api/connections", authMiddleware.RequireAuth(h.ListConnections))
	mux.HandleFunc("POST /api/inquiries", authMiddleware.RequireAuth(h.InitiateDirectInquiry))
}

type requestConnectionRequest struct {
	TargetProfileID uuid.UUID `json:"target_profile_id"`
}

// RequestConnection handles POST /api/connections?role=
func (h *ConnectionHandler) RequestConnection(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}
	role, ok := RequireRole(w, r, h.logger)
	if !ok {
		return
	}

	var req requestConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetProfileID == uuid.Nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "target_profile_id is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	conn, err := h.connectionService.RequestConnection(r.Context(), userID, role, req.TargetProfileID)
	if err != nil {
		h.logger.Warn("Failed to request connection", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: conn}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type respondConnectionRequest struct {
	Decision models.ConnectionStatus `json:"decision"`
}

// RespondToConnection handles POST /api/connections/{connection_id}/respond?role=
func (h *ConnectionHandler) RespondToConnection(w http.ResponseWriter, r *http.Request) {
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

	var req respondConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	conn, err := h.connectionService.RespondToConnection(r.Context(), userID, role, connectionID, req.Decision)
	if err != nil {
		h.logger.Warn("Failed to respond to connection",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: conn}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ResignConnection handles DELETE /api/connections/{connection_id}?role=
func (h *ConnectionHandler) ResignConnection(w http.ResponseWriter, r *http.Request) {
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

	if err := h.connectionService.ResignConnection(r.Context(), userID, role, connectionID); err != nil {
		h.logger.Warn("Failed to resign connection",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListConnections handles GET /api/connections?role=&status=
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}
	role, ok := RequireRole(w, r, h.logger)
	if !ok {
		return
	}

	var status *models.ConnectionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.ConnectionStatus(raw)
		if s != models.ConnectionPending && s != models.ConnectionAccepted && s != models.ConnectionRejected {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_status", "Status must be PENDING, ACCEPTED or REJECTED"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		status = &s
	}

	connections, err := h.connectionService.ListConnections(r.Context(), userID, role, status)
	if err != nil {
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if connections == nil {
		connections = make([]*models.Connection, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: connections}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type directInquiryRequest struct {
	FarmerProfileID uuid.UUID `json:"farmer_profile_id"`
	ProductName     string    `json:"product_name"`
	Quantity        float64   `json:"quantity,omitempty"`
	Message         string    `json:"message,omitempty"`
}

type directInquiryResponse struct {
	Connection *models.Connection `json:"connection"`
	Message    *models.Message    `json:"message,omitempty"`
	Duplicate  bool               `json:"duplicate"`
}

// InitiateDirectInquiry handles POST /api/inquiries
// Companies reach out to a farmer directly; the connection is auto-accepted.
func (h *ConnectionHandler) InitiateDirectInquiry(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req directInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FarmerProfileID == uuid.Nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "farmer_profile_id is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	conn, message, err := h.connectionService.InitiateDirectInquiry(r.Context(), userID, req.FarmerProfileID, services.ProductInquiry{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Message:     req.Message,
	})
	if err != nil {
		h.logger.Warn("Failed to initiate direct inquiry", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: directInquiryResponse{
		Connection: conn,
		Message:    message,
		Duplicate:  message == nil,
	}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
