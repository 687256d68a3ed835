package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/database"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// ProfileFilter narrows catalogue listings.
type ProfileFilter struct {
	Region  string
	Keyword string // matches crops (farmers) or business type (companies)
	Limit   int
	Offset  int
}

// ProfileRepository defines the interface for profile data access.
type ProfileRepository interface {
	UpsertFarmer(ctx context.Context, profile *models.FarmerProfile) error
	UpsertCompany(ctx context.Context, profile *models.CompanyProfile) error
	GetFarmer(ctx context.Context, id uuid.UUID) (*models.FarmerProfile, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyProfile, error)
	GetFarmerByUser(ctx context.Context, userID string) (*models.FarmerProfile, error)
	GetCompanyByUser(ctx context.Context, userID string) (*models.CompanyProfile, error)
	ListFarmers(ctx context.Context, filter ProfileFilter) ([]*models.FarmerProfile, error)
	ListCompanies(ctx context.Context, filter ProfileFilter) ([]*models.CompanyProfile, error)
}

// profileRepository implements ProfileRepository using PostgreSQL.
type profileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const farmerColumns = `id, user_id, full_name, farm_name, region, farm_size_ha,
	crops, certifications, photo_url, verified, created_at, updated_at`

const companyColumns = `id, user_id, company_name, region, business_type,
	products_of_interest, registration_no, website, logo_url, verified, created_at, updated_at`

// UpsertFarmer inserts a farmer profile or updates the existing one for the
// same user (one farmer profile per user).
func (r *profileRepository) UpsertFarmer(ctx context.Context, profile *models.FarmerProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `
		INSERT INTO farmer_profiles (` + farmerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    farm_name = EXCLUDED.farm_name,
		    region = EXCLUDED.region,
		    farm_size_ha = EXCLUDED.farm_size_ha,
		    crops = EXCLUDED.crops,
		    certifications = EXCLUDED.certifications,
		    photo_url = EXCLUDED.photo_url,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, verified, created_at`

	err := r.db.QueryRow(ctx, query,
		profile.ID,
		profile.UserID,
		profile.FullName,
		profile.FarmName,
		profile.Region,
		profile.FarmSizeHa,
		profile.Crops,
		profile.Certifications,
		profile.PhotoURL,
		profile.Verified,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID, &profile.Verified, &profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert farmer profile: %w", err)
	}

	return nil
}

// UpsertCompany inserts a company profile or updates the existing one for the
// same user.
func (r *profileRepository) UpsertCompany(ctx context.Context, profile *models.CompanyProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `
		INSERT INTO company_profiles (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE
		SET company_name = EXCLUDED.company_name,
		    region = EXCLUDED.region,
		    business_type = EXCLUDED.business_type,
		    products_of_interest = EXCLUDED.products_of_interest,
		    registration_no = EXCLUDED.registration_no,
		    website = EXCLUDED.website,
		    logo_url = EXCLUDED.logo_url,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, verified, created_at`

	err := r.db.QueryRow(ctx, query,
		profile.ID,
		profile.UserID,
		profile.CompanyName,
		profile.Region,
		profile.BusinessType,
		profile.ProductsOfInterest,
		profile.RegistrationNo,
		profile.Website,
		profile.LogoURL,
		profile.Verified,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID, &profile.Verified, &profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert company profile: %w", err)
	}

	return nil
}

// GetFarmer retrieves a farmer profile by ID.
func (r *profileRepository) GetFarmer(ctx context.Context, id uuid.UUID) (*models.FarmerProfile, error) {
	query := `SELECT ` + farmerColumns + ` FROM farmer_profiles WHERE id = $1`
	return r.scanFarmer(r.db.QueryRow(ctx, query, id))
}

// GetCompany retrieves a company profile by ID.
func (r *profileRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyProfile, error) {
	query := `SELECT ` + companyColumns + ` FROM company_profiles WHERE id = $1`
	return r.scanCompany(r.db.QueryRow(ctx, query, id))
}

// GetFarmerByUser retrieves a farmer profile by auth user ID.
func (r *profileRepository) GetFarmerByUser(ctx context.Context, userID string) (*models.FarmerProfile, error) {
	query := `SELECT ` + farmerColumns + ` FROM farmer_profiles WHERE user_id = $1`
	return r.scanFarmer(r.db.QueryRow(ctx, query, userID))
}

// GetCompanyByUser retrieves a company profile by auth user ID.
func (r *profileRepository) GetCompanyByUser(ctx context.Context, userID string) (*models.CompanyProfile, error) {
	query := `SELECT ` + companyColumns + ` FROM company_profiles WHERE user_id = $1`
	return r.scanCompany(r.db.QueryRow(ctx, query, userID))
}

// ListFarmers retrieves farmer profiles for the catalogue, optionally
// filtered by region and crop.
func (r *profileRepository) ListFarmers(ctx context.Context, filter ProfileFilter) ([]*models.FarmerProfile, error) {
	query := `
		SELECT ` + farmerColumns + `
		FROM farmer_profiles
		WHERE ($1 = '' OR region = $1)
		  AND ($2 = '' OR $2 = ANY(crops))
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, filter.Region, filter.Keyword, normalizeLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmer profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.FarmerProfile
	for rows.Next() {
		profile, err := r.scanFarmerRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating farmer profiles: %w", err)
	}

	return profiles, nil
}

// ListCompanies retrieves company profiles for the catalogue, optionally
// filtered by region and business type.
func (r *profileRepository) ListCompanies(ctx context.Context, filter ProfileFilter) ([]*models.CompanyProfile, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM company_profiles
		WHERE ($1 = '' OR region = $1)
		  AND ($2 = '' OR business_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, filter.Region, filter.Keyword, normalizeLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list company profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.CompanyProfile
	for rows.Next() {
		profile, err := r.scanCompanyRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company profiles: %w", err)
	}

	return profiles, nil
}

func (r *profileRepository) scanFarmer(row pgx.Row) (*models.FarmerProfile, error) {
	profile, err := r.scanFarmerRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("farmer profile: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) scanFarmerRow(row pgx.Row) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.FarmName,
		&profile.Region,
		&profile.FarmSizeHa,
		&profile.Crops,
		&profile.Certifications,
		&profile.PhotoURL,
		&profile.Verified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan farmer profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) scanCompany(row pgx.Row) (*models.CompanyProfile, error) {
	profile, err := r.scanCompanyRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company profile: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) scanCompanyRow(row pgx.Row) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.CompanyName,
		&profile.Region,
		&profile.BusinessType,
		&profile.ProductsOfInterest,
		&profile.RegistrationNo,
		&profile.Website,
		&profile.LogoURL,
		&profile.Verified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan company profile: %w", err)
	}
	return &profile, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}

// Ensure profileRepository implements ProfileRepository at compile time.
var _ ProfileRepository = (*profileRepository)(nil)
