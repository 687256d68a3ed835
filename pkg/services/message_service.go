package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/content"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
)

// MessageService handles chat within an accepted connection. Messages are
// append-only; listing is the only read path.
type MessageService interface {
	// SendMessage posts a chat message on an accepted connection the sender
	// is a party of and best-effort notifies the counterparty.
	SendMessage(ctx context.Context, senderUserID string, role models.Role, connectionID uuid.UUID, text string) (*models.Message, error)

	// ListMessages returns a page of the connection's messages, oldest
	// first. Party only.
	ListMessages(ctx context.Context, userID string, role models.Role, connectionID uuid.UUID, limit, offset int) ([]*models.Message, error)
}

type messageService struct {
	messages      repositories.MessageRepository
	connections   repositories.ConnectionRepository
	profiles      repositories.ProfileRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(
	messages repositories.MessageRepository,
	connections repositories.ConnectionRepository,
	profiles repositories.ProfileRepository,
	notifications NotificationService,
	logger *zap.Logger,
) MessageService {
	return &messageService{
		messages:      messages,
		connections:   connections,
		profiles:      profiles,
		notifications: notifications,
		logger:        logger.Named("message-service"),
	}
}

var _ MessageService = (*messageService)(nil)

func (s *messageService) SendMessage(ctx context.Context, senderUserID string, role models.Role, connectionID uuid.UUID, text string) (*models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("message content is required: %w", apperrors.ErrValidation)
	}
	if len(trimmed) > models.MaxMessageLength {
		return nil, fmt.Errorf("message exceeds %d characters: %w", models.MaxMessageLength, apperrors.ErrValidation)
	}
	if screened := content.Screen(trimmed); !screened.Clean() {
		return nil, fmt.Errorf("message failed content screening: %w", apperrors.ErrValidation)
	}

	actor, err := resolveActor(ctx, s.profiles, senderUserID, role)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if !actor.IsParty(conn) {
		return nil, fmt.Errorf("only a party may send messages: %w", apperrors.ErrAuthorization)
	}
	if !CanSendMessage(actor, conn) {
		return nil, fmt.Errorf("connection is not accepted: %w", apperrors.ErrConflict)
	}

	message := &models.Message{
		ConnectionID: connectionID,
		SenderUserID: senderUserID,
		Content:      trimmed,
		Type:         models.MessageTypeChat,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	counterpartyRole := counterpartyOf(actor.Role)
	recipientUserID, err := userIDForProfile(ctx, s.profiles, counterpartyRole, conn.ProfileIDFor(counterpartyRole))
	if err != nil {
		s.logger.Warn("Failed to resolve counterparty for notification",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err))
		return message, nil
	}

	if err := s.notifications.Notify(ctx, recipientUserID, models.NotificationNewMessage,
		"New message",
		snippet(trimmed),
		"/connections/"+connectionID.String()+"/messages"); err != nil {
		s.logger.Warn("Failed to notify user",
			zap.String("user_id", recipientUserID),
			zap.Error(err))
	}

	return message, nil
}

func (s *messageService) ListMessages(ctx context.Context, userID string, role models.Role, connectionID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	actor, err := resolveActor(ctx, s.profiles, userID, role)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if !CanViewConnection(actor, conn) {
		return nil, fmt.Errorf("only a party may read messages: %w", apperrors.ErrAuthorization)
	}

	return s.messages.ListByConnection(ctx, connectionID, limit, offset)
}

// snippet truncates message content for notification descriptions.
// The cut backs up to a rune boundary so multibyte content stays valid UTF-8.
func snippet(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
