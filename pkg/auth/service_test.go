package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockJWKSClient is a mock implementation of JWKSClientInterface for testing.
type mockJWKSClient struct {
	claims *Claims
	err    error
}

func (m *mockJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockJWKSClient) Close() {}

func TestAuthService_ValidateRequest_Cookie(t *testing.T) {
	expectedClaims := &Claims{}
	expectedClaims.Subject = "user-123"

	service := NewAuthService(&mockJWKSClient{claims: expectedClaims}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "test-token"})

	claims, token, err := service.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}

	if token != "test-token" {
		t.Errorf("expected token 'test-token', got %q", token)
	}

	if claims.Subject != "user-123" {
		t.Errorf("expected Subject 'user-123', got %q", claims.Subject)
	}
}

func TestAuthService_ValidateRequest_AuthHeader(t *testing.T) {
	expectedClaims := &Claims{}
	expectedClaims.Subject = "user-456"

	service := NewAuthService(&mockJWKSClient{claims: expectedClaims}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	req.Header.Set("Authorization", "Bearer my-jwt-token")

	claims, token, err := service.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}

	if token != "my-jwt-token" {
		t.Errorf("expected token 'my-jwt-token', got %q", token)
	}

	if claims.Subject != "user-456" {
		t.Errorf("expected Subject 'user-456', got %q", claims.Subject)
	}
}

func TestAuthService_ValidateRequest_CookieTakesPrecedence(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{claims: &Claims{}}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	_, token, err := service.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}

	if token != "cookie-token" {
		t.Errorf("expected cookie token to win, got %q", token)
	}
}

func TestAuthService_ValidateRequest_MissingAuthorization(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)

	_, _, err := service.ValidateRequest(req)
	if !errors.Is(err, ErrMissingAuthorization) {
		t.Errorf("expected ErrMissingAuthorization, got %v", err)
	}
}

func TestAuthService_ValidateRequest_InvalidHeaderFormat(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	formats := []string{"my-jwt-token", "Basic dXNlcjpwYXNz", "Bearer a b"}
	for _, header := range formats {
		req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
		req.Header.Set("Authorization", header)

		_, _, err := service.ValidateRequest(req)
		if !errors.Is(err, ErrInvalidAuthFormat) {
			t.Errorf("header %q: expected ErrInvalidAuthFormat, got %v", header, err)
		}
	}
}

func TestAuthService_ValidateRequest_ValidationError(t *testing.T) {
	validationErr := errors.New("token expired")
	service := NewAuthService(&mockJWKSClient{err: validationErr}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "expired-token"})

	_, _, err := service.ValidateRequest(req)
	if !errors.Is(err, validationErr) {
		t.Errorf("expected validation error to propagate, got %v", err)
	}
}

func TestAuthService_RequireSubject(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	claims := &Claims{}
	claims.Subject = "user-123"
	if err := service.RequireSubject(claims); err != nil {
		t.Errorf("expected no error for claims with subject, got %v", err)
	}

	if err := service.RequireSubject(&Claims{}); !errors.Is(err, ErrMissingSubject) {
		t.Errorf("expected ErrMissingSubject for empty subject, got %v", err)
	}
}
