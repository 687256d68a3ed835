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

// FarmerView is a farmer profile with its computed confidence score.
// The score is derived on read and never stored.
type FarmerView struct {
	*models.FarmerProfile
	ConfidenceScore int `json:"confidence_score"`
}

// CompanyView is a company profile with its computed confidence score.
type CompanyView struct {
	*models.CompanyProfile
	ConfidenceScore int `json:"confidence_score"`
}

// ProfileService manages marketplace profiles and the discovery catalogue.
type ProfileService interface {
	// SaveFarmerProfile upserts the caller's farmer profile. The user_id is
	// taken from the authenticated caller, never from the payload.
	SaveFarmerProfile(ctx context.Context, userID string, profile *models.FarmerProfile) (*FarmerView, error)

	// SaveCompanyProfile upserts the caller's company profile.
	SaveCompanyProfile(ctx context.Context, userID string, profile *models.CompanyProfile) (*CompanyView, error)

	// GetFarmer returns a farmer profile by id.
	GetFarmer(ctx context.Context, id uuid.UUID) (*FarmerView, error)

	// GetCompany returns a company profile by id.
	GetCompany(ctx context.Context, id uuid.UUID) (*CompanyView, error)

	// GetOwnProfile returns the caller's profile for the given role.
	GetOwnProfile(ctx context.Context, userID string, role models.Role) (any, error)

	// ListFarmers returns the farmer catalogue, filtered and paginated.
	ListFarmers(ctx context.Context, filter repositories.ProfileFilter) ([]*FarmerView, error)

	// ListCompanies returns the company catalogue, filtered and paginated.
	ListCompanies(ctx context.Context, filter repositories.ProfileFilter) ([]*CompanyView, error)
}

type profileService struct {
	repo   repositories.ProfileRepository
	logger *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo repositories.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		repo:   repo,
		logger: logger.Named("profile-service"),
	}
}

var _ ProfileService = (*profileService)(nil)

func (s *profileService) SaveFarmerProfile(ctx context.Context, userID string, profile *models.FarmerProfile) (*FarmerView, error) {
	if strings.TrimSpace(profile.FullName) == "" {
		return nil, fmt.Errorf("full name is required: %w", apperrors.ErrValidation)
	}
	if strings.TrimSpace(profile.Region) == "" {
		return nil, fmt.Errorf("region is required: %w", apperrors.ErrValidation)
	}
	if profile.FarmSizeHa < 0 {
		return nil, fmt.Errorf("farm size cannot be negative: %w", apperrors.ErrValidation)
	}

	profile.UserID = userID
	if err := s.repo.UpsertFarmer(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Debug("Saved farmer profile",
		zap.String("profile_id", profile.ID.String()))

	return &FarmerView{FarmerProfile: profile, ConfidenceScore: FarmerConfidence(profile)}, nil
}

func (s *profileService) SaveCompanyProfile(ctx context.Context, userID string, profile *models.CompanyProfile) (*CompanyView, error) {
	if strings.TrimSpace(profile.CompanyName) == "" {
		return nil, fmt.Errorf("company name is required: %w", apperrors.ErrValidation)
	}
	if strings.TrimSpace(profile.Region) == "" {
		return nil, fmt.Errorf("region is required: %w", apperrors.ErrValidation)
	}

	profile.UserID = userID
	if err := s.repo.UpsertCompany(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Debug("Saved company profile",
		zap.String("profile_id", profile.ID.String()))

	return &CompanyView{CompanyProfile: profile, ConfidenceScore: CompanyConfidence(profile)}, nil
}

func (s *profileService) GetFarmer(ctx context.Context, id uuid.UUID) (*FarmerView, error) {
	farmer, err := s.repo.GetFarmer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FarmerView{FarmerProfile: farmer, ConfidenceScore: FarmerConfidence(farmer)}, nil
}

func (s *profileService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyView, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CompanyView{CompanyProfile: company, ConfidenceScore: CompanyConfidence(company)}, nil
}

func (s *profileService) GetOwnProfile(ctx context.Context, userID string, role models.Role) (any, error) {
	switch role {
	case models.RoleFarmer:
		farmer, err := s.repo.GetFarmerByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &FarmerView{FarmerProfile: farmer, ConfidenceScore: FarmerConfidence(farmer)}, nil
	case models.RoleCompany:
		company, err := s.repo.GetCompanyByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &CompanyView{CompanyProfile: company, ConfidenceScore: CompanyConfidence(company)}, nil
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, apperrors.ErrValidation)
	}
}

func (s *profileService) ListFarmers(ctx context.Context, filter repositories.ProfileFilter) ([]*FarmerView, error) {
	farmers, err := s.repo.ListFarmers(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*FarmerView, 0, len(farmers))
	for _, farmer := range farmers {
		views = append(views, &FarmerView{FarmerProfile: farmer, ConfidenceScore: FarmerConfidence(farmer)})
	}
	return views, nil
}

func (s *profileService) ListCompanies(ctx context.Context, filter repositories.ProfileFilter) ([]*CompanyView, error) {
	companies, err := s.repo.ListCompanies(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*CompanyView, 0, len(companies))
	for _, company := range companies {
		views = append(views, &CompanyView{CompanyProfile: company, ConfidenceScore: CompanyConfidence(company)})
	}
	return views, nil
}
