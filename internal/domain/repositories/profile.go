package repositories

import (
	"context"

	"bookforge/internal/domain/models"
)

// ProfileRepository defines data access operations for owner profiles.
// Exactly one profile row exists per owner; it is created at account signup.
type ProfileRepository interface {
	// GetByOwner retrieves the profile for an owner.
	// Returns nil (not an error) if no profile row exists.
	GetByOwner(ctx context.Context, ownerID string) (*models.Profile, error)

	// Create inserts a new profile row (signup path).
	Create(ctx context.Context, profile *models.Profile) error

	// UpdateEditable writes only the editable preference/consent subset onto
	// the existing row. It never inserts: restore and profile-settings
	// updates both require the signup-created row to be present.
	UpdateEditable(ctx context.Context, ownerID string, fields *models.ProfileEditable) error
}
