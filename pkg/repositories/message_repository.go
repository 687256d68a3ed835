package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrilink-hq/agrilink-engine/pkg/database"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// MessageRepository defines the interface for message data access.
// Messages are append-only; there are no update or delete operations.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByConnection(ctx context.Context, connectionID uuid.UUID, limit, offset int) ([]*models.Message, error)
	// ListInquiries returns the PRODUCT_INQUIRY messages of a connection,
	// used by the duplicate-inquiry guard.
	ListInquiries(ctx context.Context, connectionID uuid.UUID) ([]*models.Message, error)
}

// messageRepository implements MessageRepository using PostgreSQL.
type messageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *database.DB) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, connection_id, sender_user_id, content, type, metadata, created_at`

// Create inserts a new message.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.CreatedAt = time.Now()

	var metadata []byte
	if message.Metadata != nil {
		var err error
		metadata, err = json.Marshal(message.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		message.ID,
		message.ConnectionID,
		message.SenderUserID,
		message.Content,
		message.Type,
		metadata,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListByConnection retrieves a page of messages for a connection, oldest first.
func (r *messageRepository) ListByConnection(ctx context.Context, connectionID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE connection_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, connectionID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// ListInquiries retrieves the structured inquiry messages of a connection.
func (r *messageRepository) ListInquiries(ctx context.Context, connectionID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE connection_id = $1 AND type = $2
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, connectionID, models.MessageTypeProductInquiry)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]*models.Message, error) {
	var messages []*models.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var message models.Message
	var metadata []byte
	err := row.Scan(
		&message.ID,
		&message.ConnectionID,
		&message.SenderUserID,
		&message.Content,
		&message.Type,
		&metadata,
		&message.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &message.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &message, nil
}

// Ensure messageRepository implements MessageRepository at compile time.
var _ MessageRepository = (*messageRepository)(nil)
