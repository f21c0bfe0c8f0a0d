package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
	"bookforge/internal/domain/services"
)

// profileService implements the ProfileService interface
type profileService struct {
	profileRepo repositories.ProfileRepository
	logger      *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repositories.ProfileRepository,
	logger *slog.Logger,
) services.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// GetProfile retrieves the profile for an owner
func (s *profileService) GetProfile(ctx context.Context, ownerID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		return nil, fmt.Errorf("profile for owner %s: %w", ownerID, domain.ErrNotFound)
	}

	return profile, nil
}

// UpdateProfile applies a partial update to the editable subset of a profile.
// System-managed billing fields are not reachable through it.
func (s *profileService) UpdateProfile(ctx context.Context, ownerID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	profile, err := s.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	fields := profile.Editable()
	if req.DisplayName != nil {
		fields.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		fields.Bio = *req.Bio
	}
	if req.Language != nil {
		fields.Language = *req.Language
	}
	if req.Timezone != nil {
		fields.Timezone = *req.Timezone
	}
	// Tri-state: only touch the avatar if the field was present
	if req.AvatarURL.Present {
		fields.AvatarURL = req.AvatarURL.Value
	}
	if req.AIProcessingConsent != nil {
		fields.AIProcessingConsent = *req.AIProcessingConsent
	}
	if req.TrainingOptIn != nil {
		fields.TrainingOptIn = *req.TrainingOptIn
	}
	if req.ContentRetentionDays != nil {
		fields.ContentRetentionDays = *req.ContentRetentionDays
	}
	if req.LogRetentionDays != nil {
		fields.LogRetentionDays = *req.LogRetentionDays
	}
	if req.DefaultVisibility != nil {
		fields.DefaultVisibility = *req.DefaultVisibility
	}

	if err := s.profileRepo.UpdateEditable(ctx, ownerID, fields); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "owner_id", ownerID)

	return s.GetProfile(ctx, ownerID)
}

// validateUpdateRequest validates an update profile request
func (s *profileService) validateUpdateRequest(req *models.UpdateProfileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DisplayName, validation.Length(0, 255)),
		validation.Field(&req.Language, validation.Length(0, 35)),
		validation.Field(&req.Timezone, validation.Length(0, 64)),
		validation.Field(&req.ContentRetentionDays, validation.Min(0)),
		validation.Field(&req.LogRetentionDays, validation.Min(0)),
		validation.Field(&req.DefaultVisibility, validation.In("private", "public")),
	)
}
