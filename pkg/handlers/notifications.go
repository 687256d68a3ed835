package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

// NotificationHandler handles notification HTTP requests.
type NotificationHandler struct {
	notificationService services.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// RegisterRoutes registers the notification handler's routes on the given mux.
func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/notifications", authMiddleware.RequireAuth(h.ListNotifications))
	mux.HandleFunc("GET /api/notifications/summary", authMiddleware.RequireAuth(h.UnreadSummary))
	mux.HandleFunc("POST /api/notifications/{notification_id}/read", authMiddleware.RequireAuth(h.MarkRead))
	mux.HandleFunc("POST /api/notifications/read-all", authMiddleware.RequireAuth(h.MarkAllRead))
}

// ListNotifications handles GET /api/notifications?unread=true&limit=
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, _ := ParsePagination(r)

	notifications, err := h.notificationService.List(r.Context(), userID, unreadOnly, limit)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if notifications == nil {
		notifications = make([]*models.Notification, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: notifications}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type unreadSummaryResponse struct {
	Summary string `json:"summary"`
}

// UnreadSummary handles GET /api/notifications/summary
func (h *NotificationHandler) UnreadSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.notificationService.UnreadSummary(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build unread summary", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: unreadSummaryResponse{Summary: summary}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkRead handles POST /api/notifications/{notification_id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}
	notificationID, ok := ParseUUIDPath(w, r, "notification_id", h.logger)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, notificationID); err != nil {
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		h.logger.Error("Failed to mark notifications read", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
