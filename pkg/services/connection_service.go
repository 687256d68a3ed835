package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/content"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
)

// ProductInquiry is the structured payload of a direct inquiry.
type ProductInquiry struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// ConnectionService governs the lifecycle of farmer-company relationships.
type ConnectionService interface {
	// RequestConnection creates a PENDING connection initiated by the
	// requester's role towards the target profile.
	RequestConnection(ctx context.Context, requesterUserID string, role models.Role, targetProfileID uuid.UUID) (*models.Connection, error)

	// RespondToConnection lets the counterparty accept or reject a pending
	// connection.
	RespondToConnection(ctx context.Context, responderUserID string, role models.Role, connectionID uuid.UUID, decision models.ConnectionStatus) (*models.Connection, error)

	// InitiateDirectInquiry finds-or-creates an ACCEPTED connection between
	// the company and the farmer and records a structured product inquiry.
	// Repeating the same product for the same pair is idempotent: the
	// existing connection is returned and no second inquiry is written.
	InitiateDirectInquiry(ctx context.Context, companyUserID string, farmerProfileID uuid.UUID, inquiry ProductInquiry) (*models.Connection, *models.Message, error)

	// ResignConnection hard-deletes a connection the actor is a party of.
	ResignConnection(ctx context.Context, userID string, role models.Role, connectionID uuid.UUID) error

	// ListConnections returns the actor's connections, optionally filtered
	// by status.
	ListConnections(ctx context.Context, userID string, role models.Role, status *models.ConnectionStatus) ([]*models.Connection, error)
}

type connectionService struct {
	connections   repositories.ConnectionRepository
	profiles      repositories.ProfileRepository
	messages      repositories.MessageRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(
	connections repositories.ConnectionRepository,
	profiles repositories.ProfileRepository,
	messages repositories.MessageRepository,
	notifications NotificationService,
	logger *zap.Logger,
) ConnectionService {
	return &connectionService{
		connections:   connections,
		profiles:      profiles,
		messages:      messages,
		notifications: notifications,
		logger:        logger.Named("connection-service"),
	}
}

var _ ConnectionService = (*connectionService)(nil)

func (s *connectionService) RequestConnection(ctx context.Context, requesterUserID string, role models.Role, targetProfileID uuid.UUID) (*models.Connection, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, apperrors.ErrValidation)
	}

	actor, err := resolveActor(ctx, s.profiles, requesterUserID, role)
	if err != nil {
		return nil, err
	}

	var farmerID, companyID uuid.UUID
	var targetUserID, requesterName string

	switch role {
	case models.RoleFarmer:
		company, err := s.profiles.GetCompany(ctx, targetProfileID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("target company does not exist: %w", apperrors.ErrValidation)
			}
			return nil, err
		}
		farmerID, companyID = actor.ProfileID, company.ID
		targetUserID = company.UserID
		farmer, err := s.profiles.GetFarmer(ctx, actor.ProfileID)
		if err != nil {
			return nil, err
		}
		requesterName = farmerDisplayName(farmer)
	case models.RoleCompany:
		farmer, err := s.profiles.GetFarmer(ctx, targetProfileID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("target farmer does not exist: %w", apperrors.ErrValidation)
			}
			return nil, err
		}
		farmerID, companyID = farmer.ID, actor.ProfileID
		targetUserID = farmer.UserID
		company, err := s.profiles.GetCompany(ctx, actor.ProfileID)
		if err != nil {
			return nil, err
		}
		requesterName = company.CompanyName
	}

	if existing, err := s.connections.GetByPair(ctx, farmerID, companyID); err == nil {
		return nil, fmt.Errorf("connection already exists with status %s: %w", existing.Status, apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	conn := &models.Connection{
		FarmerID:    farmerID,
		CompanyID:   companyID,
		Status:      models.ConnectionPending,
		InitiatedBy: role,
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, err
	}

	s.notifyBestEffort(ctx, targetUserID, models.NotificationConnectionRequest,
		"New connection request",
		fmt.Sprintf("%s wants to connect with you", requesterName),
		"/connections/"+conn.ID.String())

	return conn, nil
}

func (s *connectionService) RespondToConnection(ctx context.Context, responderUserID string, role models.Role, connectionID uuid.UUID, decision models.ConnectionStatus) (*models.Connection, error) {
	if decision != models.ConnectionAccepted && decision != models.ConnectionRejected {
		return nil, fmt.Errorf("decision must be ACCEPTED or REJECTED: %w", apperrors.ErrValidation)
	}

	actor, err := resolveActor(ctx, s.profiles, responderUserID, role)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	// A connection past PENDING is no longer visible to respond to.
	if conn.Status != models.ConnectionPending {
		return nil, fmt.Errorf("connection is not pending: %w", apperrors.ErrNotFound)
	}

	if !CanRespondToConnection(actor, conn) {
		return nil, fmt.Errorf("only the counterparty may respond: %w", apperrors.ErrAuthorization)
	}

	updated, err := s.connections.UpdateStatusIfPending(ctx, connectionID, decision)
	if err != nil {
		// A concurrent responder may have settled it first.
		return nil, err
	}

	initiatorUserID, initiatorErr := userIDForProfile(ctx, s.profiles, conn.InitiatedBy, conn.ProfileIDFor(conn.InitiatedBy))
	if initiatorErr != nil {
		s.logger.Warn("Failed to resolve initiator for notification",
			zap.String("connection_id", connectionID.String()),
			zap.Error(initiatorErr))
		return updated, nil
	}

	notificationType := models.NotificationConnectionAccepted
	title := "Connection accepted"
	description := "Your connection request was accepted"
	if decision == models.ConnectionRejected {
		notificationType = models.NotificationConnectionRejected
		title = "Connection rejected"
		description = "Your connection request was rejected"
	}
	s.notifyBestEffort(ctx, initiatorUserID, notificationType, title, description,
		"/connections/"+conn.ID.String())

	return updated, nil
}

func (s *connectionService) InitiateDirectInquiry(ctx context.Context, companyUserID string, farmerProfileID uuid.UUID, inquiry ProductInquiry) (*models.Connection, *models.Message, error) {
	if strings.TrimSpace(inquiry.ProductName) == "" {
		return nil, nil, fmt.Errorf("product name is required: %w", apperrors.ErrValidation)
	}
	if screened := content.Screen(inquiry.Message); !screened.Clean() {
		return nil, nil, fmt.Errorf("inquiry message failed content screening: %w", apperrors.ErrValidation)
	}

	company, err := s.profiles.GetCompanyByUser(ctx, companyUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("company profile required: %w", apperrors.ErrValidation)
		}
		return nil, nil, err
	}

	farmer, err := s.profiles.GetFarmer(ctx, farmerProfileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("target farmer does not exist: %w", apperrors.ErrValidation)
		}
		return nil, nil, err
	}

	conn, err := s.findOrCreateAcceptedConnection(ctx, farmer.ID, company.ID)
	if err != nil {
		return nil, nil, err
	}

	// Duplicate guard: one inquiry per product per pair. The scan happens in
	// application memory, which is fine at current message volumes.
	inquiries, err := s.messages.ListInquiries(ctx, conn.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, prior := range inquiries {
		if strings.EqualFold(prior.InquiryProductName(), inquiry.ProductName) {
			return conn, nil, nil
		}
	}

	messageContent := inquiry.Message
	if messageContent == "" {
		messageContent = fmt.Sprintf("%s is interested in your %s", company.CompanyName, inquiry.ProductName)
	}

	message := &models.Message{
		ConnectionID: conn.ID,
		SenderUserID: companyUserID,
		Content:      messageContent,
		Type:         models.MessageTypeProductInquiry,
		Metadata: map[string]any{
			"product_name": inquiry.ProductName,
			"quantity":     inquiry.Quantity,
		},
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, nil, err
	}

	s.notifyBestEffort(ctx, farmer.UserID, models.NotificationProductInquiry,
		"New product inquiry",
		fmt.Sprintf("%s is interested in your %s", company.CompanyName, inquiry.ProductName),
		"/connections/"+conn.ID.String())

	return conn, message, nil
}

func (s *connectionService) ResignConnection(ctx context.Context, userID string, role models.Role, connectionID uuid.UUID) error {
	actor, err := resolveActor(ctx, s.profiles, userID, role)
	if err != nil {
		return err
	}

	conn, err := s.connections.Get(ctx, connectionID)
	if err != nil {
		return err
	}

	if !CanResignConnection(actor, conn) {
		return fmt.Errorf("only a party may resign a connection: %w", apperrors.ErrAuthorization)
	}

	return s.connections.Delete(ctx, connectionID)
}

func (s *connectionService) ListConnections(ctx context.Context, userID string, role models.Role, status *models.ConnectionStatus) ([]*models.Connection, error) {
	actor, err := resolveActor(ctx, s.profiles, userID, role)
	if err != nil {
		return nil, err
	}

	return s.connections.ListByProfile(ctx, role, actor.ProfileID, status)
}

// findOrCreateAcceptedConnection returns the pair's connection in ACCEPTED
// state, creating or promoting it as needed. A rejected pair stays rejected.
func (s *connectionService) findOrCreateAcceptedConnection(ctx context.Context, farmerID, companyID uuid.UUID) (*models.Connection, error) {
	conn, err := s.connections.GetByPair(ctx, farmerID, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		conn = &models.Connection{
			FarmerID:    farmerID,
			CompanyID:   companyID,
			Status:      models.ConnectionAccepted,
			InitiatedBy: models.RoleCompany,
		}
		if err := s.connections.Create(ctx, conn); err != nil {
			return nil, err
		}
		return conn, nil
	}

	switch conn.Status {
	case models.ConnectionAccepted:
		return conn, nil
	case models.ConnectionPending:
		return s.connections.UpdateStatusIfPending(ctx, conn.ID, models.ConnectionAccepted)
	default:
		return nil, fmt.Errorf("connection was rejected: %w", apperrors.ErrConflict)
	}
}

// notifyBestEffort sends a notification and only logs failures. Workflow
// transitions never fail because a notification could not be written.
func (s *connectionService) notifyBestEffort(ctx context.Context, userID, notificationType, title, description, link string) {
	if err := s.notifications.Notify(ctx, userID, notificationType, title, description, link); err != nil {
		s.logger.Warn("Failed to notify user",
			zap.String("user_id", userID),
			zap.String("type", notificationType),
			zap.Error(err))
	}
}

func farmerDisplayName(farmer *models.FarmerProfile) string {
	if farmer.FarmName != "" {
		return farmer.FarmName
	}
	return farmer.FullName
}
