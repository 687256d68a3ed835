package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// ParseUUIDPath extracts and parses a UUID path value. Writes a 400 response
// and returns false on failure.
func ParseUUIDPath(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_"+name, "Invalid "+name+" format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

// CurrentUserID returns the authenticated user's ID from the request context.
// Writes a 401 response and returns false if the claims are missing.
func CurrentUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok || claims.UserID() == "" {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return claims.UserID(), true
}

// RequireRole reads the acting role from the "role" query parameter. A user
// may hold both a farmer and a company profile, so every workflow call names
// the side it acts from.
func RequireRole(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (models.Role, bool) {
	role := models.Role(r.URL.Query().Get("role"))
	if !role.Valid() {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_role", "Role must be FARMER or COMPANY"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return role, true
}

// ParsePagination reads limit/offset query parameters with sane defaults.
func ParsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
