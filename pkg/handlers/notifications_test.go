package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

func TestNotificationHandler_ListNotifications(t *testing.T) {
	svc := &mockNotificationService{list: []*models.Notification{
		{ID: uuid.New(), UserID: "user-1", Type: models.NotificationQuoteReceived},
	}}
	h := NewNotificationHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodGet, "/api/notifications?unread=true", nil, "user-1")
	rec := httptest.NewRecorder()
	h.ListNotifications(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.NotificationQuoteReceived)
}

func TestNotificationHandler_UnreadSummary(t *testing.T) {
	svc := &mockNotificationService{summary: "2 new quotes, 1 new message"}
	h := NewNotificationHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodGet, "/api/notifications/summary", nil, "user-1")
	rec := httptest.NewRecorder()
	h.UnreadSummary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 new quotes, 1 new message")
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	t.Run("marks by id", func(t *testing.T) {
		svc := &mockNotificationService{}
		h := NewNotificationHandler(svc, zap.NewNop())

		id := uuid.New()
		req := authedRequest(http.MethodPost, "/api/notifications/x/read", nil, "user-1")
		req.SetPathValue("notification_id", id.String())
		rec := httptest.NewRecorder()
		h.MarkRead(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, svc.marked, 1)
		assert.Equal(t, id, svc.marked[0])
	})

	t.Run("foreign notification maps to 404", func(t *testing.T) {
		svc := &mockNotificationService{err: fmt.Errorf("notification: %w", apperrors.ErrNotFound)}
		h := NewNotificationHandler(svc, zap.NewNop())

		req := authedRequest(http.MethodPost, "/api/notifications/x/read", nil, "user-2")
		req.SetPathValue("notification_id", uuid.New().String())
		rec := httptest.NewRecorder()
		h.MarkRead(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		h := NewNotificationHandler(&mockNotificationService{}, zap.NewNop())

		req := authedRequest(http.MethodPost, "/api/notifications/nope/read", nil, "user-1")
		req.SetPathValue("notification_id", "nope")
		rec := httptest.NewRecorder()
		h.MarkRead(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	svc := &mockNotificationService{}
	h := NewNotificationHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodPost, "/api/notifications/read-all", nil, "user-1")
	rec := httptest.NewRecorder()
	h.MarkAllRead(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.markAll)
}
