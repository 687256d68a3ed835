package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
)

// resolveActor loads the profile a user acts through for the given role.
// Operating without the matching profile is a validation failure, not an
// authorization one: the actor has not finished onboarding.
func resolveActor(ctx context.Context, profiles repositories.ProfileRepository, userID string, role models.Role) (Actor, error) {
	switch role {
	case models.RoleFarmer:
		farmer, err := profiles.GetFarmerByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return Actor{}, fmt.Errorf("farmer profile required: %w", apperrors.ErrValidation)
			}
			return Actor{}, err
		}
		return Actor{UserID: userID, Role: role, ProfileID: farmer.ID}, nil
	case models.RoleCompany:
		company, err := profiles.GetCompanyByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return Actor{}, fmt.Errorf("company profile required: %w", apperrors.ErrValidation)
			}
			return Actor{}, err
		}
		return Actor{UserID: userID, Role: role, ProfileID: company.ID}, nil
	default:
		return Actor{}, fmt.Errorf("unknown role %q: %w", role, apperrors.ErrValidation)
	}
}

// userIDForProfile resolves the auth user behind a connection-side profile.
func userIDForProfile(ctx context.Context, profiles repositories.ProfileRepository, role models.Role, profileID uuid.UUID) (string, error) {
	if role == models.RoleFarmer {
		farmer, err := profiles.GetFarmer(ctx, profileID)
		if err != nil {
			return "", err
		}
		return farmer.UserID, nil
	}
	company, err := profiles.GetCompany(ctx, profileID)
	if err != nil {
		return "", err
	}
	return company.UserID, nil
}

// counterpartyOf returns the opposite marketplace role.
func counterpartyOf(role models.Role) models.Role {
	if role == models.RoleFarmer {
		return models.RoleCompany
	}
	return models.RoleFarmer
}
