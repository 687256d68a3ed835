package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

// authedRequest builds a request with claims already in context, bypassing
// the auth middleware.
func authedRequest(method, path string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	claims := &auth.Claims{}
	claims.Subject = userID
	ctx := context.WithValue(req.Context(), auth.ClaimsKey, claims)
	return req.WithContext(ctx)
}

// mockConnectionService implements services.ConnectionService for handler testing.
type mockConnectionService struct {
	conn       *models.Connection
	message    *models.Message
	list       []*models.Connection
	err        error
	lastStatus *models.ConnectionStatus
}

func (m *mockConnectionService) RequestConnection(_ context.Context, _ string, _ models.Role, _ uuid.UUID) (*models.Connection, error) {
	return m.conn, m.err
}

func (m *mockConnectionService) RespondToConnection(_ context.Context, _ string, _ models.Role, _ uuid.UUID, _ models.ConnectionStatus) (*models.Connection, error) {
	return m.conn, m.err
}

func (m *mockConnectionService) InitiateDirectInquiry(_ context.Context, _ string, _ uuid.UUID, _ services.ProductInquiry) (*models.Connection, *models.Message, error) {
	return m.conn, m.message, m.err
}

func (m *mockConnectionService) ResignConnection(_ context.Context, _ string, _ models.Role, _ uuid.UUID) error {
	return m.err
}

func (m *mockConnectionService) ListConnections(_ context.Context, _ string, _ models.Role, status *models.ConnectionStatus) ([]*models.Connection, error) {
	m.lastStatus = status
	return m.list, m.err
}

// mockQuoteService implements services.QuoteService for handler testing.
type mockQuoteService struct {
	quote *models.Quote
	list  []*models.Quote
	err   error
}

func (m *mockQuoteService) CreateQuote(_ context.Context, _ string, _ models.Role, _ uuid.UUID, _ services.QuoteTerms) (*models.Quote, error) {
	return m.quote, m.err
}

func (m *mockQuoteService) RespondToQuote(_ context.Context, _ string, _ models.Role, _ uuid.UUID, _ models.QuoteStatus) (*models.Quote, error) {
	return m.quote, m.err
}

func (m *mockQuoteService) ListQuotes(_ context.Context, _ string, _ models.Role, _ uuid.UUID) ([]*models.Quote, error) {
	return m.list, m.err
}

// mockMessageService implements services.MessageService for handler testing.
type mockMessageService struct {
	message *models.Message
	list    []*models.Message
	err     error
}

func (m *mockMessageService) SendMessage(_ context.Context, _ string, _ models.Role, _ uuid.UUID, _ string) (*models.Message, error) {
	return m.message, m.err
}

func (m *mockMessageService) ListMessages(_ context.Context, _ string, _ models.Role, _ uuid.UUID, _, _ int) ([]*models.Message, error) {
	return m.list, m.err
}

// mockNotificationService implements services.NotificationService for handler testing.
type mockNotificationService struct {
	list    []*models.Notification
	summary string
	err     error
	marked  []uuid.UUID
	markAll bool
}

func (m *mockNotificationService) Notify(_ context.Context, _, _, _, _, _ string) error {
	return m.err
}

func (m *mockNotificationService) List(_ context.Context, _ string, _ bool, _ int) ([]*models.Notification, error) {
	return m.list, m.err
}

func (m *mockNotificationService) UnreadSummary(_ context.Context, _ string) (string, error) {
	return m.summary, m.err
}

func (m *mockNotificationService) MarkRead(_ context.Context, _ string, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.marked = append(m.marked, id)
	return nil
}

func (m *mockNotificationService) MarkAllRead(_ context.Context, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.markAll = true
	return nil
}

// mockProfileService implements services.ProfileService for handler testing.
type mockProfileService struct {
	farmer    *services.FarmerView
	company   *services.CompanyView
	farmers   []*services.FarmerView
	companies []*services.CompanyView
	err       error
}

func (m *mockProfileService) SaveFarmerProfile(_ context.Context, _ string, _ *models.FarmerProfile) (*services.FarmerView, error) {
	return m.farmer, m.err
}

func (m *mockProfileService) SaveCompanyProfile(_ context.Context, _ string, _ *models.CompanyProfile) (*services.CompanyView, error) {
	return m.company, m.err
}

func (m *mockProfileService) GetFarmer(_ context.Context, _ uuid.UUID) (*services.FarmerView, error) {
	return m.farmer, m.err
}

func (m *mockProfileService) GetCompany(_ context.Context, _ uuid.UUID) (*services.CompanyView, error) {
	return m.company, m.err
}

func (m *mockProfileService) GetOwnProfile(_ context.Context, _ string, role models.Role) (any, error) {
	if m.err != nil {
		return nil, m.err
	}
	if role == models.RoleFarmer {
		return m.farmer, nil
	}
	return m.company, nil
}

func (m *mockProfileService) ListFarmers(_ context.Context, _ repositories.ProfileFilter) ([]*services.FarmerView, error) {
	return m.farmers, m.err
}

func (m *mockProfileService) ListCompanies(_ context.Context, _ repositories.ProfileFilter) ([]*services.CompanyView, error) {
	return m.companies, m.err
}
