package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
)

// QuoteTerms is the commercial content of a new quote.
type QuoteTerms struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Notes       string  `json:"notes,omitempty"`
}

// QuoteService governs commercial proposals exchanged within a connection.
type QuoteService interface {
	// CreateQuote inserts a PENDING quote on an accepted connection and
	// best-effort notifies the counterparty.
	CreateQuote(ctx context.Context, senderUserID string, role models.Role, connectionID uuid.UUID, terms QuoteTerms) (*models.Quote, error)

	// RespondToQuote lets the counterparty accept or decline a pending
	// quote. The sender cannot respond to their own quote.
	RespondToQuote(ctx context.Context, responderUserID string, role models.Role, quoteID uuid.UUID, decision models.QuoteStatus) (*models.Quote, error)

	// ListQuotes returns the quotes of a connection the actor is a party of.
	ListQuotes(ctx context.Context, userID string, role models.Role, connectionID uuid.UUID) ([]*models.Quote, error)
}

type quoteService struct {
	quotes        repositories.QuoteRepository
	connections   repositories.ConnectionRepository
	profiles      repositories.ProfileRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(
	quotes repositories.QuoteRepository,
	connections repositories.ConnectionRepository,
	profiles repositories.ProfileRepository,
	notifications NotificationService,
	logger *zap.Logger,
) QuoteService {
	return &quoteService{
		quotes:        quotes,
		connections:   connections,
		profiles:      profiles,
		notifications: notifications,
		logger:        logger.Named("quote-service"),
	}
}

var _ QuoteService = (*quoteService)(nil)

func (s *quoteService) CreateQuote(ctx context.Context, senderUserID string, role models.Role, connectionID uuid.UUID, terms QuoteTerms) (*models.Quote, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	actor, err := resolveActor(ctx, s.profiles, senderUserID, role)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if !CanViewConnection(actor, conn) {
		return nil, fmt.Errorf("only a party may send quotes: %w", apperrors.ErrAuthorization)
	}
	if conn.Status != models.ConnectionAccepted {
		return nil, fmt.Errorf("connection is not accepted: %w", apperrors.ErrConflict)
	}

	quote := &models.Quote{
		ConnectionID: connectionID,
		SenderUserID: senderUserID,
		ProductName:  terms.ProductName,
		Quantity:     terms.Quantity,
		Unit:         terms.Unit,
		UnitPrice:    terms.UnitPrice,
		TotalAmount:  terms.Quantity * terms.UnitPrice,
		Notes:        terms.Notes,
		Status:       models.QuotePending,
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.notifyCounterparty(ctx, actor, conn, models.NotificationQuoteReceived,
		"New quote",
		fmt.Sprintf("You received a quote for %s", quote.ProductName),
		"/connections/"+conn.ID.String()+"/quotes")

	return quote, nil
}

func (s *quoteService) RespondToQuote(ctx context.Context, responderUserID string, role models.Role, quoteID uuid.UUID, decision models.QuoteStatus) (*models.Quote, error) {
	if decision != models.QuoteAccepted && decision != models.QuoteDeclined {
		return nil, fmt.Errorf("decision must be ACCEPTED or DECLINED: %w", apperrors.ErrValidation)
	}

	actor, err := resolveActor(ctx, s.profiles, responderUserID, role)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.Get(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.Get(ctx, quote.ConnectionID)
	if err != nil {
		return nil, err
	}

	if !CanRespondToQuote(actor, quote, conn) {
		return nil, fmt.Errorf("only the counterparty may respond to a quote: %w", apperrors.ErrAuthorization)
	}

	updated, err := s.quotes.UpdateStatusIfPending(ctx, quoteID, decision)
	if err != nil {
		return nil, err
	}

	notificationType := models.NotificationQuoteAccepted
	title := "Quote accepted"
	description := fmt.Sprintf("Your quote for %s was accepted", quote.ProductName)
	if decision == models.QuoteDeclined {
		notificationType = models.NotificationQuoteDeclined
		title = "Quote declined"
		description = fmt.Sprintf("Your quote for %s was declined", quote.ProductName)
	}
	s.notifyBestEffort(ctx, quote.SenderUserID, notificationType, title, description,
		"/connections/"+conn.ID.String()+"/quotes")

	return updated, nil
}

func (s *quoteService) ListQuotes(ctx context.Context, userID string, role models.Role, connectionID uuid.UUID) ([]*models.Quote, error) {
	actor, err := resolveActor(ctx, s.profiles, userID, role)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if !CanViewConnection(actor, conn) {
		return nil, fmt.Errorf("only a party may list quotes: %w", apperrors.ErrAuthorization)
	}

	return s.quotes.ListByConnection(ctx, connectionID)
}

func validateTerms(terms QuoteTerms) error {
	if strings.TrimSpace(terms.ProductName) == "" {
		return fmt.Errorf("product name is required: %w", apperrors.ErrValidation)
	}
	if terms.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", apperrors.ErrValidation)
	}
	if terms.UnitPrice <= 0 {
		return fmt.Errorf("unit price must be positive: %w", apperrors.ErrValidation)
	}
	return nil
}

// notifyCounterparty notifies the other side of the connection.
func (s *quoteService) notifyCounterparty(ctx context.Context, actor Actor, conn *models.Connection, notificationType, title, description, link string) {
	counterpartyRole := counterpartyOf(actor.Role)
	userID, err := userIDForProfile(ctx, s.profiles, counterpartyRole, conn.ProfileIDFor(counterpartyRole))
	if err != nil {
		s.logger.Warn("Failed to resolve counterparty for notification",
			zap.String("connection_id", conn.ID.String()),
			zap.Error(err))
		return
	}

	s.notifyBestEffort(ctx, userID, notificationType, title, description, link)
}

func (s *quoteService) notifyBestEffort(ctx context.Context, userID, notificationType, title, description, link string) {
	if err := s.notifications.Notify(ctx, userID, notificationType, title, description, link); err != nil {
		s.logger.Warn("Failed to notify user",
			zap.String("user_id", userID),
			zap.String("type", notificationType),
			zap.Error(err))
	}
}
