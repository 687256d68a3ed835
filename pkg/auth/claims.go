// Package auth provides JWT-based authentication for agrilink-engine.
// It validates tokens issued by the hosted auth provider using JWKS endpoints.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Claims represents the JWT claims structure issued by the auth provider.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.).
// The subject is the marketplace user ID; profiles reference it directly.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"` // User email address
	Name  string `json:"name,omitempty"`  // Display name
}

// UserID returns the auth provider subject, which identifies the user
// across profiles, connections, quotes, messages and notifications.
func (c *Claims) UserID() string {
	return c.Subject
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
