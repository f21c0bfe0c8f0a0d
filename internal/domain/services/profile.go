package services

import (
	"context"

	"bookforge/internal/domain/models"
)

// ProfileService defines business logic for owner profiles.
type ProfileService interface {
	// GetProfile retrieves the profile for an owner
	GetProfile(ctx context.Context, ownerID string) (*models.Profile, error)

	// UpdateProfile applies a partial update to the editable subset of a
	// profile. System-managed billing fields are not reachable through it.
	UpdateProfile(ctx context.Context, ownerID string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

// UsageService defines business logic for the usage ledger.
type UsageService interface {
	// ListRecent returns the owner's most recent usage events
	ListRecent(ctx context.Context, ownerID string, limit int) ([]models.UsageEvent, error)

	// Record appends a ledger entry after checking the owner's plan budget
	Record(ctx context.Context, ownerID string, req *models.RecordUsageRequest) (*models.UsageEvent, error)
}
