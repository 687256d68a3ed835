package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/config"
)

// AuthHandler handles the login redirect flow and session endpoints.
// Token issuance happens at the hosted auth provider; this service only
// round-trips the user there and stores the returned JWT in a cookie.
type AuthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", authMiddleware.RequireAuth(h.Me))
}

// Login handles GET /auth/login?redirect=/path
// Stores CSRF state and the original URL in the session, then bounces the
// user to the hosted login page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		h.logger.Error("Failed to generate state", zap.Error(err))
		http.Error(w, "failed to start login", http.StatusInternalServerError)
		return
	}

	originalURL := r.URL.Query().Get("redirect")
	if originalURL == "" || originalURL[0] != '/' {
		originalURL = "/"
	}

	session, err := auth.GetSession(r)
	if err != nil {
		h.logger.Warn("Failed to load session, starting fresh", zap.Error(err))
	}
	session.Values[auth.SessionKeyState] = state
	session.Values[auth.SessionKeyOriginalURL] = originalURL
	if err := auth.SaveSession(r, w, session); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
		http.Error(w, "failed to start login", http.StatusInternalServerError)
		return
	}

	loginURL, err := url.Parse(h.cfg.Auth.LoginURL)
	if err != nil {
		h.logger.Error("Invalid login URL", zap.Error(err))
		http.Error(w, "failed to start login", http.StatusInternalServerError)
		return
	}
	query := loginURL.Query()
	query.Set("state", state)
	query.Set("redirect_uri", h.cfg.BaseURL+"/auth/callback")
	loginURL.RawQuery = query.Encode()

	http.Redirect(w, r, loginURL.String(), http.StatusFound)
}

// Callback handles GET /auth/callback?state=&token=
// Verifies the CSRF state against the session, stores the JWT in an
// httpOnly cookie and redirects to the originally requested page.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSession(r)
	if err != nil {
		h.logger.Warn("Failed to load session on callback", zap.Error(err))
		http.Error(w, "login session expired", http.StatusBadRequest)
		return
	}

	expectedState, _ := session.Values[auth.SessionKeyState].(string)
	if expectedState == "" || r.URL.Query().Get("state") != expectedState {
		h.logger.Warn("State mismatch on auth callback")
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	originalURL, _ := session.Values[auth.SessionKeyOriginalURL].(string)
	if originalURL == "" {
		originalURL = "/"
	}

	auth.ClearSessionValues(session)
	if err := auth.SaveSession(r, w, session); err != nil {
		h.logger.Warn("Failed to clear session", zap.Error(err))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// Logout handles POST /api/auth/logout by expiring the JWT cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type meResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Me handles GET /api/auth/me and echoes the authenticated identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: meResponse{
		UserID: claims.UserID(),
		Email:  claims.Email,
		Name:   claims.Name,
	}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
