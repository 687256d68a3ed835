package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
)

// mockProfileRepo implements repositories.ProfileRepository for testing.
type mockProfileRepo struct {
	farmers   []*models.FarmerProfile
	companies []*models.CompanyProfile
	upsertErr error
}

func (m *mockProfileRepo) UpsertFarmer(_ context.Context, profile *models.FarmerProfile) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, f := range m.farmers {
		if f.UserID == profile.UserID {
			profile.ID = f.ID
			profile.CreatedAt = f.CreatedAt
			profile.Verified = f.Verified
			*f = *profile
			return nil
		}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = time.Now()
	m.farmers = append(m.farmers, profile)
	return nil
}

func (m *mockProfileRepo) UpsertCompany(_ context.Context, profile *models.CompanyProfile) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, c := range m.companies {
		if c.UserID == profile.UserID {
			profile.ID = c.ID
			profile.CreatedAt = c.CreatedAt
			profile.Verified = c.Verified
			*c = *profile
			return nil
		}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = time.Now()
	m.companies = append(m.companies, profile)
	return nil
}

func (m *mockProfileRepo) GetFarmer(_ context.Context, id uuid.UUID) (*models.FarmerProfile, error) {
	for _, f := range m.farmers {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("farmer profile: %w", apperrors.ErrNotFound)
}

func (m *mockProfileRepo) GetCompany(_ context.Context, id uuid.UUID) (*models.CompanyProfile, error) {
	for _, c := range m.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("company profile: %w", apperrors.ErrNotFound)
}

func (m *mockProfileRepo) GetFarmerByUser(_ context.Context, userID string) (*models.FarmerProfile, error) {
	for _, f := range m.farmers {
		if f.UserID == userID {
			return f, nil
		}
	}
	return nil, fmt.Errorf("farmer profile: %w", apperrors.ErrNotFound)
}

func (m *mockProfileRepo) GetCompanyByUser(_ context.Context, userID string) (*models.CompanyProfile, error) {
	for _, c := range m.companies {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, fmt.Errorf("company profile: %w", apperrors.ErrNotFound)
}

func (m *mockProfileRepo) ListFarmers(_ context.Context, filter repositories.ProfileFilter) ([]*models.FarmerProfile, error) {
	var result []*models.FarmerProfile
	for _, f := range m.farmers {
		if filter.Region != "" && f.Region != filter.Region {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

func (m *mockProfileRepo) ListCompanies(_ context.Context, filter repositories.ProfileFilter) ([]*models.CompanyProfile, error) {
	var result []*models.CompanyProfile
	for _, c := range m.companies {
		if filter.Region != "" && c.Region != filter.Region {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

// mockConnectionRepo implements repositories.ConnectionRepository for testing.
type mockConnectionRepo struct {
	connections []*models.Connection
	createErr   error
}

func (m *mockConnectionRepo) Create(_ context.Context, conn *models.Connection) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, c := range m.connections {
		if c.FarmerID == conn.FarmerID && c.CompanyID == conn.CompanyID {
			return fmt.Errorf("connection already exists: %w", apperrors.ErrConflict)
		}
	}
	conn.ID = uuid.New()
	conn.CreatedAt = time.Now()
	conn.UpdatedAt = conn.CreatedAt
	m.connections = append(m.connections, conn)
	return nil
}

func (m *mockConnectionRepo) Get(_ context.Context, id uuid.UUID) (*models.Connection, error) {
	for _, c := range m.connections {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
}

func (m *mockConnectionRepo) GetByPair(_ context.Context, farmerID, companyID uuid.UUID) (*models.Connection, error) {
	for _, c := range m.connections {
		if c.FarmerID == farmerID && c.CompanyID == companyID {
			return c, nil
		}
	}
	return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
}

func (m *mockConnectionRepo) UpdateStatusIfPending(_ context.Context, id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error) {
	for _, c := range m.connections {
		if c.ID == id && c.Status == models.ConnectionPending {
			c.Status = status
			c.UpdatedAt = time.Now()
			return c, nil
		}
	}
	return nil, fmt.Errorf("pending connection: %w", apperrors.ErrNotFound)
}

func (m *mockConnectionRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, c := range m.connections {
		if c.ID == id {
			m.connections = append(m.connections[:i], m.connections[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("connection: %w", apperrors.ErrNotFound)
}

func (m *mockConnectionRepo) ListByProfile(_ context.Context, role models.Role, profileID uuid.UUID, status *models.ConnectionStatus) ([]*models.Connection, error) {
	var result []*models.Connection
	for _, c := range m.connections {
		if c.ProfileIDFor(role) != profileID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

// mockQuoteRepo implements repositories.QuoteRepository for testing.
type mockQuoteRepo struct {
	quotes    []*models.Quote
	createErr error
}

func (m *mockQuoteRepo) Create(_ context.Context, quote *models.Quote) error {
	if m.createErr != nil {
		return m.createErr
	}
	quote.ID = uuid.New()
	quote.CreatedAt = time.Now()
	quote.UpdatedAt = quote.CreatedAt
	m.quotes = append(m.quotes, quote)
	return nil
}

func (m *mockQuoteRepo) Get(_ context.Context, id uuid.UUID) (*models.Quote, error) {
	for _, q := range m.quotes {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, fmt.Errorf("quote: %w", apperrors.ErrNotFound)
}

func (m *mockQuoteRepo) UpdateStatusIfPending(_ context.Context, id uuid.UUID, status models.QuoteStatus) (*models.Quote, error) {
	for _, q := range m.quotes {
		if q.ID != id {
			continue
		}
		if q.Status != models.QuotePending {
			return nil, fmt.Errorf("quote already responded to: %w", apperrors.ErrConflict)
		}
		q.Status = status
		q.UpdatedAt = time.Now()
		return q, nil
	}
	return nil, fmt.Errorf("quote: %w", apperrors.ErrNotFound)
}

func (m *mockQuoteRepo) ListByConnection(_ context.Context, connectionID uuid.UUID) ([]*models.Quote, error) {
	var result []*models.Quote
	for _, q := range m.quotes {
		if q.ConnectionID == connectionID {
			result = append(result, q)
		}
	}
	return result, nil
}

// mockMessageRepo implements repositories.MessageRepository for testing.
type mockMessageRepo struct {
	messages  []*models.Message
	createErr error
}

func (m *mockMessageRepo) Create(_ context.Context, message *models.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	message.ID = uuid.New()
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListByConnection(_ context.Context, connectionID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	var result []*models.Message
	for _, msg := range m.messages {
		if msg.ConnectionID == connectionID {
			result = append(result, msg)
		}
	}
	return result, nil
}

func (m *mockMessageRepo) ListInquiries(_ context.Context, connectionID uuid.UUID) ([]*models.Message, error) {
	var result []*models.Message
	for _, msg := range m.messages {
		if msg.ConnectionID == connectionID && msg.Type == models.MessageTypeProductInquiry {
			result = append(result, msg)
		}
	}
	return result, nil
}

// mockNotificationRepo implements repositories.NotificationRepository for testing.
type mockNotificationRepo struct {
	notifications []*models.Notification
	createErr     error
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	var result []*models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (m *mockNotificationRepo) CountUnreadByType(_ context.Context, userID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			counts[n.Type]++
		}
	}
	return counts, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID string, id uuid.UUID) error {
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification: %w", apperrors.ErrNotFound)
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// sentNotification is one call captured by recordingNotifier.
type sentNotification struct {
	UserID      string
	Type        string
	Title       string
	Description string
}

// recordingNotifier implements NotificationService, capturing Notify calls.
type recordingNotifier struct {
	sent      []sentNotification
	notifyErr error
}

func (r *recordingNotifier) Notify(_ context.Context, userID, notificationType, title, description, _ string) error {
	if r.notifyErr != nil {
		return r.notifyErr
	}
	r.sent = append(r.sent, sentNotification{
		UserID:      userID,
		Type:        notificationType,
		Title:       title,
		Description: description,
	})
	return nil
}

func (r *recordingNotifier) List(context.Context, string, bool, int) ([]*models.Notification, error) {
	return nil, nil
}

func (r *recordingNotifier) UnreadSummary(context.Context, string) (string, error) {
	return "", nil
}

func (r *recordingNotifier) MarkRead(context.Context, string, uuid.UUID) error { return nil }

func (r *recordingNotifier) MarkAllRead(context.Context, string) error { return nil }

// typesSent flattens the captured notification types.
func (r *recordingNotifier) typesSent() []string {
	var types []string
	for _, s := range r.sent {
		types = append(types, s.Type)
	}
	return types
}

// seedFarmer adds a farmer profile and returns it.
func seedFarmer(repo *mockProfileRepo, userID, name string) *models.FarmerProfile {
	farmer := &models.FarmerProfile{
		ID:       uuid.New(),
		UserID:   userID,
		FullName: name,
		FarmName: strings.TrimSpace(name) + " Farm",
		Region:   "Thies",
	}
	repo.farmers = append(repo.farmers, farmer)
	return farmer
}

// seedCompany adds a company profile and returns it.
func seedCompany(repo *mockProfileRepo, userID, name string) *models.CompanyProfile {
	company := &models.CompanyProfile{
		ID:          uuid.New(),
		UserID:      userID,
		CompanyName: name,
		Region:      "Dakar",
	}
	repo.companies = append(repo.companies, company)
	return company
}
