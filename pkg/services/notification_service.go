package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/realtime"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
)

// NotificationService stores user-facing event records and pushes them on
// the user's realtime channel. Rows are the source of truth: a notification
// is at-least-stored, best-effort-delivered-live.
type NotificationService interface {
	// Notify inserts a notification row, then publishes a realtime event.
	// Publish failures are logged and never propagated.
	Notify(ctx context.Context, userID, notificationType, title, description, link string) error

	// List returns a user's notifications, newest first.
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error)

	// UnreadSummary returns a human-readable unread digest, e.g.
	// "2 new quotes, 1 new message".
	UnreadSummary(ctx context.Context, userID string) (string, error)

	// MarkRead flips is_read on a notification owned by the user.
	MarkRead(ctx context.Context, userID string, id uuid.UUID) error

	// MarkAllRead flips is_read on all of the user's notifications.
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo      repositories.NotificationRepository
	publisher realtime.Publisher
	logger    *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository, publisher realtime.Publisher, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.Named("notification-service"),
	}
}

var _ NotificationService = (*notificationService)(nil)

func (s *notificationService) Notify(ctx context.Context, userID, notificationType, title, description, link string) error {
	notification := &models.Notification{
		UserID:      userID,
		Type:        notificationType,
		Title:       title,
		Description: description,
		Link:        link,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	event := realtime.Event{
		ID:          notification.ID.String(),
		Type:        notification.Type,
		Title:       notification.Title,
		Description: notification.Description,
		Link:        notification.Link,
		CreatedAt:   notification.CreatedAt.Format(time.RFC3339),
	}
	if err := s.publisher.Publish(ctx, userID, event); err != nil {
		// Live delivery is best-effort; the stored row remains authoritative.
		s.logger.Warn("Failed to publish realtime event",
			zap.String("user_id", userID),
			zap.String("type", notificationType),
			zap.Error(err))
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// summaryNouns maps notification types to the noun used in the unread digest.
var summaryNouns = map[string]string{
	models.NotificationConnectionRequest:  "connection request",
	models.NotificationConnectionAccepted: "accepted connection",
	models.NotificationConnectionRejected: "rejected connection",
	models.NotificationProductInquiry:     "product inquiry",
	models.NotificationQuoteReceived:      "new quote",
	models.NotificationQuoteAccepted:      "accepted quote",
	models.NotificationQuoteDeclined:      "declined quote",
	models.NotificationNewMessage:         "new message",
}

func (s *notificationService) UnreadSummary(ctx context.Context, userID string) (string, error) {
	counts, err := s.repo.CountUnreadByType(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("count unread notifications: %w", err)
	}

	var parts []string
	for notificationType, count := range counts {
		if count == 0 {
			continue
		}
		noun, ok := summaryNouns[notificationType]
		if !ok {
			noun = "notification"
		}
		if count > 1 {
			noun = inflection.Plural(noun)
		}
		parts = append(parts, fmt.Sprintf("%d %s", count, noun))
	}

	sort.Strings(parts)
	return strings.Join(parts, ", "), nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
