package models

import (
	"time"
)

// Profile holds exactly one row per owner: mutable preferences plus consent
// state, alongside system-managed billing fields.
//
// Restore writes only the editable subset (see ProfileEditable). Plan tier,
// word-usage counters and consent bookkeeping stay under the live system's
// control so a stale snapshot can never regress billing state.
type Profile struct {
	OwnerID     string  `json:"owner_id" db:"owner_id"`
	DisplayName string  `json:"display_name" db:"display_name"`
	Bio         string  `json:"bio" db:"bio"`
	Language    string  `json:"language" db:"language"`
	Timezone    string  `json:"timezone" db:"timezone"`
	AvatarURL   *string `json:"avatar_url" db:"avatar_url"`

	// Consent / privacy preferences
	AIProcessingConsent  bool   `json:"ai_processing_consent" db:"ai_processing_consent"`
	TrainingOptIn        bool   `json:"training_opt_in" db:"training_opt_in"`
	ContentRetentionDays int    `json:"content_retention_days" db:"content_retention_days"`
	LogRetentionDays     int    `json:"log_retention_days" db:"log_retention_days"`
	DefaultVisibility    string `json:"default_visibility" db:"default_visibility"` // "private" or "public"

	// System-managed: never overwritten by a restore
	PlanTier           string     `json:"plan_tier" db:"plan_tier"`
	WordsUsedThisMonth int        `json:"words_used_this_month" db:"words_used_this_month"`
	BillingCustomerID  *string    `json:"billing_customer_id,omitempty" db:"billing_customer_id"`
	ConsentVersion     string     `json:"consent_version" db:"consent_version"`
	ConsentUpdatedAt   *time.Time `json:"consent_updated_at" db:"consent_updated_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileEditable is the subset of profile fields a user (or a restore) may
// write. Everything billing-related is deliberately absent.
type ProfileEditable struct {
	DisplayName          string  `json:"display_name"`
	Bio                  string  `json:"bio"`
	Language             string  `json:"language"`
	Timezone             string  `json:"timezone"`
	AvatarURL            *string `json:"avatar_url"`
	AIProcessingConsent  bool    `json:"ai_processing_consent"`
	TrainingOptIn        bool    `json:"training_opt_in"`
	ContentRetentionDays int     `json:"content_retention_days"`
	LogRetentionDays     int     `json:"log_retention_days"`
	DefaultVisibility    string  `json:"default_visibility"`
}

// Editable extracts the writable subset of a profile.
func (p *Profile) Editable() *ProfileEditable {
	return &ProfileEditable{
		DisplayName:          p.DisplayName,
		Bio:                  p.Bio,
		Language:             p.Language,
		Timezone:             p.Timezone,
		AvatarURL:            p.AvatarURL,
		AIProcessingConsent:  p.AIProcessingConsent,
		TrainingOptIn:        p.TrainingOptIn,
		ContentRetentionDays: p.ContentRetentionDays,
		LogRetentionDays:     p.LogRetentionDays,
		DefaultVisibility:    p.DefaultVisibility,
	}
}

// OptionalAvatarURL is a transport-agnostic tri-state (no JSON tags); the
// handler maps it from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear the avatar)
//   - Present=true, Value=&url: set the avatar
type OptionalAvatarURL struct {
	Present bool
	Value   *string
}

type UpdateProfileRequest struct {
	DisplayName          *string           `json:"display_name,omitempty"`
	Bio                  *string           `json:"bio,omitempty"`
	Language             *string           `json:"language,omitempty"`
	Timezone             *string           `json:"timezone,omitempty"`
	AvatarURL            OptionalAvatarURL `json:"-"` // mapped from handler DTO
	AIProcessingConsent  *bool             `json:"ai_processing_consent,omitempty"`
	TrainingOptIn        *bool             `json:"training_opt_in,omitempty"`
	ContentRetentionDays *int              `json:"content_retention_days,omitempty"`
	LogRetentionDays     *int              `json:"log_retention_days,omitempty"`
	DefaultVisibility    *string           `json:"default_visibility,omitempty"`
}
