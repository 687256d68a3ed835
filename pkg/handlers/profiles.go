package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

// ProfileHandler handles profile and catalogue HTTP requests.
type ProfileHandler struct {
	profileService services.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("PUT /api/profiles/farmer", authMiddleware.RequireAuth(h.SaveFarmerProfile))
	mux.HandleFunc("PUT /api/profiles/company", authMiddleware.RequireAuth(h.SaveCompanyProfile))
	mux.HandleFunc("GET /api/profiles/me", authMiddleware.RequireAuth(h.GetOwnProfile))

	mux.HandleFunc("GET /api/farmers", authMiddleware.RequireAuth(h.ListFarmers))
	mux.HandleFunc("GET /api/farmers/{profile_id}", authMiddleware.RequireAuth(h.GetFarmer))
	mux.HandleFunc("GET /api/companies", authMiddleware.RequireAuth(h.ListCompanies))
	mux.HandleFunc("GET /api/companies/{profile_id}", authMiddleware.RequireAuth(h.GetCompany))
}

// SaveFarmerProfile handles PUT /api/profiles/farmer
func (h *ProfileHandler) SaveFarmerProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}

	var profile models.FarmerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	view, err := h.profileService.SaveFarmerProfile(r.Context(), userID, &profile)
	if err != nil {
		h.logger.Warn("Failed to save farmer profile", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: view}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SaveCompanyProfile handles PUT /api/profiles/company
func (h *ProfileHandler) SaveCompanyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}

	var profile models.CompanyProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	view, err := h.profileService.SaveCompanyProfile(r.Context(), userID, &profile)
	if err != nil {
		h.logger.Warn("Failed to save company profile", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: view}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetOwnProfile handles GET /api/profiles/me?role=FARMER|COMPANY
func (h *ProfileHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(w, r, h.logger)
	if !ok {
		return
	}
	role, ok := RequireRole(w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.profileService.GetOwnProfile(r.Context(), userID, role)
	if err != nil {
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: view}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetFarmer handles GET /api/farmers/{profile_id}
func (h *ProfileHandler) GetFarmer(w http.ResponseWriter, r *http.Request) {
	profileID, ok := ParseUUIDPath(w, r, "profile_id", h.logger)
	if !ok {
		return
	}

	view, err := h.profileService.GetFarmer(r.Context(), profileID)
	if err != nil {
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: view}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetCompany handles GET /api/companies/{profile_id}
func (h *ProfileHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	profileID, ok := ParseUUIDPath(w, r, "profile_id", h.logger)
	if !ok {
		return
	}

	view, err := h.profileService.GetCompany(r.Context(), profileID)
	if err != nil {
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: view}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListFarmers handles GET /api/farmers
func (h *ProfileHandler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	filter := catalogueFilter(r)

	views, err := h.profileService.ListFarmers(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list farmers", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if views == nil {
		views = make([]*services.FarmerView, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    PaginatedResponse{Items: views, Limit: filter.Limit, Offset: filter.Offset},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListCompanies handles GET /api/companies
func (h *ProfileHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	filter := catalogueFilter(r)

	views, err := h.profileService.ListCompanies(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list companies", zap.Error(err))
		if err := WriteServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if views == nil {
		views = make([]*services.CompanyView, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    PaginatedResponse{Items: views, Limit: filter.Limit, Offset: filter.Offset},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func catalogueFilter(r *http.Request) repositories.ProfileFilter {
	limit, offset := ParsePagination(r)
	return repositories.ProfileFilter{
		Region:  r.URL.Query().Get("region"),
		Keyword: r.URL.Query().Get("keyword"),
		Limit:   limit,
		Offset:  offset,
	}
}
