package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/realtime"
)

// mockPublisher implements realtime.Publisher, capturing published events.
type mockPublisher struct {
	events     []realtime.Event
	users      []string
	publishErr error
}

func (m *mockPublisher) Publish(_ context.Context, userID string, event realtime.Event) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.users = append(m.users, userID)
	m.events = append(m.events, event)
	return nil
}

func TestNotificationService_Notify(t *testing.T) {
	t.Run("stores row and publishes event", func(t *testing.T) {
		repo := &mockNotificationRepo{}
		publisher := &mockPublisher{}
		svc := NewNotificationService(repo, publisher, zap.NewNop())

		err := svc.Notify(context.Background(), "user-1", models.NotificationQuoteReceived, "New quote", "You received a quote", "/quotes")
		require.NoError(t, err)

		require.Len(t, repo.notifications, 1)
		assert.False(t, repo.notifications[0].IsRead)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, []string{"user-1"}, publisher.users)
		assert.Equal(t, models.NotificationQuoteReceived, publisher.events[0].Type)
		assert.Equal(t, repo.notifications[0].ID.String(), publisher.events[0].ID)
	})

	t.Run("publish failure is swallowed, row remains", func(t *testing.T) {
		repo := &mockNotificationRepo{}
		publisher := &mockPublisher{publishErr: errors.New("redis down")}
		svc := NewNotificationService(repo, publisher, zap.NewNop())

		err := svc.Notify(context.Background(), "user-1", models.NotificationNewMessage, "New message", "hi", "/messages")
		require.NoError(t, err)
		assert.Len(t, repo.notifications, 1)
	})

	t.Run("store failure propagates and nothing is published", func(t *testing.T) {
		repo := &mockNotificationRepo{createErr: errors.New("db down")}
		publisher := &mockPublisher{}
		svc := NewNotificationService(repo, publisher, zap.NewNop())

		err := svc.Notify(context.Background(), "user-1", models.NotificationNewMessage, "New message", "hi", "/messages")
		require.Error(t, err)
		assert.Empty(t, publisher.events)
	})
}

func TestNotificationService_UnreadSummary(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, &mockPublisher{}, zap.NewNop())

	notify := func(notificationType string) {
		require.NoError(t, svc.Notify(context.Background(), "user-1", notificationType, "t", "d", "/l"))
	}
	notify(models.NotificationQuoteReceived)
	notify(models.NotificationQuoteReceived)
	notify(models.NotificationNewMessage)

	summary, err := svc.UnreadSummary(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "1 new message, 2 new quotes", summary)

	empty, err := svc.UnreadSummary(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, &mockPublisher{}, zap.NewNop())

	require.NoError(t, svc.Notify(context.Background(), "user-1", models.NotificationNewMessage, "t", "d", "/l"))
	id := repo.notifications[0].ID

	t.Run("owner marks read", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(context.Background(), "user-1", id))
		assert.True(t, repo.notifications[0].IsRead)
	})

	t.Run("non-owner gets not found", func(t *testing.T) {
		err := svc.MarkRead(context.Background(), "user-2", id)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("unknown id gets not found", func(t *testing.T) {
		err := svc.MarkRead(context.Background(), "user-1", uuid.New())
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, &mockPublisher{}, zap.NewNop())

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(context.Background(), "user-1", models.NotificationNewMessage, "t", "d", "/l"))
	}
	require.NoError(t, svc.Notify(context.Background(), "user-2", models.NotificationNewMessage, "t", "d", "/l"))

	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))

	unread, err := svc.List(context.Background(), "user-1", true, 50)
	require.NoError(t, err)
	assert.Empty(t, unread)

	other, err := svc.List(context.Background(), "user-2", true, 50)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
