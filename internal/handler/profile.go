package handler

import (
	"log/slog"
	"net/http"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/services"
	"bookforge/internal/httputil"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	service services.ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service services.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// updateProfileDTO is the wire form of a profile patch. AvatarURL needs
// tri-state semantics (absent / null / value), which *string cannot express.
type updateProfileDTO struct {
	DisplayName          *string                 `json:"display_name,omitempty"`
	Bio                  *string                 `json:"bio,omitempty"`
	Language             *string                 `json:"language,omitempty"`
	Timezone             *string                 `json:"timezone,omitempty"`
	AvatarURL            httputil.OptionalString `json:"avatar_url"`
	AIProcessingConsent  *bool                   `json:"ai_processing_consent,omitempty"`
	TrainingOptIn        *bool                   `json:"training_opt_in,omitempty"`
	ContentRetentionDays *int                    `json:"content_retention_days,omitempty"`
	LogRetentionDays     *int                    `json:"log_retention_days,omitempty"`
	DefaultVisibility    *string                 `json:"default_visibility,omitempty"`
}

// GetProfile retrieves the caller's profile
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	profile, err := h.service.GetProfile(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies a partial update to the caller's profile
// PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var dto updateProfileDTO
	if err := httputil.ParseJSON(w, r, &dto); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &models.UpdateProfileRequest{
		DisplayName: dto.DisplayName,
		Bio:         dto.Bio,
		Language:    dto.Language,
		Timezone:    dto.Timezone,
		AvatarURL: models.OptionalAvatarURL{
			Present: dto.AvatarURL.Present,
			Value:   dto.AvatarURL.Value,
		},
		AIProcessingConsent:  dto.AIProcessingConsent,
		TrainingOptIn:        dto.TrainingOptIn,
		ContentRetentionDays: dto.ContentRetentionDays,
		LogRetentionDays:     dto.LogRetentionDays,
		DefaultVisibility:    dto.DefaultVisibility,
	}

	profile, err := h.service.UpdateProfile(r.Context(), ownerID, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}
