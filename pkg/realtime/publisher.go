// Package realtime delivers live notification events over per-user
// Redis pub/sub channels. Delivery is fire-and-forget: rows in the
// notifications table are the source of truth, the channel is best-effort.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event is the payload published on a user's notification channel.
type Event struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Publisher publishes events on per-user channels.
type Publisher interface {
	// Publish sends an event to the given user's channel.
	Publish(ctx context.Context, userID string, event Event) error
}

// UserChannel returns the pub/sub channel name for a user.
func UserChannel(userID string) string {
	return fmt.Sprintf("notifications:user:%s", userID)
}

// redisPublisher implements Publisher over Redis pub/sub.
type redisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates a Publisher backed by the given Redis client.
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) Publisher {
	return &redisPublisher{
		client: client,
		logger: logger.Named("realtime"),
	}
}

// Publish marshals the event and publishes it on the user's channel.
func (p *redisPublisher) Publish(ctx context.Context, userID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Published realtime event",
		zap.String("user_id", userID),
		zap.String("type", event.Type))
	return nil
}

// NoopPublisher is used when Redis is not configured. Notifications are
// still stored; live delivery is skipped.
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(ctx context.Context, userID string, event Event) error {
	return nil
}

var (
	_ Publisher = (*redisPublisher)(nil)
	_ Publisher = NoopPublisher{}
)
