package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
)

func TestProfileService_SaveFarmerProfile(t *testing.T) {
	t.Run("creates then updates the same profile", func(t *testing.T) {
		repo := &mockProfileRepo{}
		svc := NewProfileService(repo, zap.NewNop())

		view, err := svc.SaveFarmerProfile(context.Background(), "user-1", &models.FarmerProfile{
			FullName: "Amina Diallo",
			Region:   "Thies",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", view.UserID)
		assert.NotEqual(t, uuid.Nil, view.ID)
		firstID := view.ID

		updated, err := svc.SaveFarmerProfile(context.Background(), "user-1", &models.FarmerProfile{
			FullName: "Amina Diallo",
			Region:   "Thies",
			Crops:    []string{"tomatoes"},
		})
		require.NoError(t, err)
		assert.Equal(t, firstID, updated.ID)
		assert.Len(t, repo.farmers, 1)
	})

	t.Run("user id comes from the caller, not the payload", func(t *testing.T) {
		repo := &mockProfileRepo{}
		svc := NewProfileService(repo, zap.NewNop())

		view, err := svc.SaveFarmerProfile(context.Background(), "user-1", &models.FarmerProfile{
			UserID:   "someone-else",
			FullName: "Amina Diallo",
			Region:   "Thies",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", view.UserID)
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		svc := NewProfileService(&mockProfileRepo{}, zap.NewNop())

		_, err := svc.SaveFarmerProfile(context.Background(), "user-1", &models.FarmerProfile{Region: "Thies"})
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("negative farm size is a validation error", func(t *testing.T) {
		svc := NewProfileService(&mockProfileRepo{}, zap.NewNop())

		_, err := svc.SaveFarmerProfile(context.Background(), "user-1", &models.FarmerProfile{
			FullName:   "Amina Diallo",
			Region:     "Thies",
			FarmSizeHa: -1,
		})
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})
}

func TestProfileService_SaveCompanyProfile(t *testing.T) {
	repo := &mockProfileRepo{}
	svc := NewProfileService(repo, zap.NewNop())

	view, err := svc.SaveCompanyProfile(context.Background(), "user-1", &models.CompanyProfile{
		CompanyName: "AgroExport SARL",
		Region:      "Dakar",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", view.UserID)

	_, err = svc.SaveCompanyProfile(context.Background(), "user-1", &models.CompanyProfile{Region: "Dakar"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestProfileService_Views(t *testing.T) {
	repo := &mockProfileRepo{}
	svc := NewProfileService(repo, zap.NewNop())

	farmer := seedFarmer(repo, "user-farmer", "Amina Diallo")
	farmer.Verified = true
	company := seedCompany(repo, "user-company", "AgroExport SARL")

	t.Run("get farmer carries confidence score", func(t *testing.T) {
		view, err := svc.GetFarmer(context.Background(), farmer.ID)
		require.NoError(t, err)
		assert.Equal(t, FarmerConfidence(farmer), view.ConfidenceScore)
		assert.Greater(t, view.ConfidenceScore, 0)
	})

	t.Run("get company carries confidence score", func(t *testing.T) {
		view, err := svc.GetCompany(context.Background(), company.ID)
		require.NoError(t, err)
		assert.Equal(t, CompanyConfidence(company), view.ConfidenceScore)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.GetFarmer(context.Background(), uuid.New())
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("own profile by role", func(t *testing.T) {
		own, err := svc.GetOwnProfile(context.Background(), "user-farmer", models.RoleFarmer)
		require.NoError(t, err)
		view, ok := own.(*FarmerView)
		require.True(t, ok)
		assert.Equal(t, farmer.ID, view.ID)

		_, err = svc.GetOwnProfile(context.Background(), "user-farmer", models.Role("ADMIN"))
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("catalogue listing scores every item", func(t *testing.T) {
		seedFarmer(repo, "user-2", "Moussa Ba")

		farmers, err := svc.ListFarmers(context.Background(), repositories.ProfileFilter{})
		require.NoError(t, err)
		require.Len(t, farmers, 2)
		for _, f := range farmers {
			assert.Greater(t, f.ConfidenceScore, 0)
		}

		filtered, err := svc.ListFarmers(context.Background(), repositories.ProfileFilter{Region: "Nowhere"})
		require.NoError(t, err)
		assert.Empty(t, filtered)
	})
}
