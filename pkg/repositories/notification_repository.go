package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/database"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	// CountUnreadByType returns unread counts keyed by notification type,
	// used for the summary line.
	CountUnreadByType(ctx context.Context, userID string) (map[string]int, error)
	// MarkRead flips is_read for a notification owned by userID.
	// Returns ErrNotFound if the notification is absent or owned by someone else.
	MarkRead(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) error
}

// notificationRepository implements NotificationRepository using PostgreSQL.
type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *database.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, title, description, link, is_read, created_at`

// Create inserts a new notification.
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.CreatedAt = time.Now()

	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Description,
		notification.Link,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications, newest first.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		  AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, userID, unreadOnly, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Description,
			&n.Link,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// CountUnreadByType returns unread counts keyed by notification type.
func (r *notificationRepository) CountUnreadByType(ctx context.Context, userID string) (map[string]int, error) {
	query := `
		SELECT type, COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND is_read = false
		GROUP BY type`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var notificationType string
		var count int
		if err := rows.Scan(&notificationType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan unread count: %w", err)
		}
		counts[notificationType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unread counts: %w", err)
	}

	return counts, nil
}

// MarkRead flips is_read for a notification owned by userID.
func (r *notificationRepository) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification: %w", apperrors.ErrNotFound)
	}

	return nil
}

// MarkAllRead flips is_read for all of a user's notifications.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

// Ensure notificationRepository implements NotificationRepository at compile time.
var _ NotificationRepository = (*notificationRepository)(nil)
