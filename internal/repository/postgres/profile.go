package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
)

// PostgresProfileRepository implements the ProfileRepository interface
type PostgresProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProfileRepository creates a new PostgresProfileRepository
func NewProfileRepository(config *RepositoryConfig) repositories.ProfileRepository {
	return &PostgresProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const profileColumns = `owner_id, display_name, bio, language, timezone, avatar_url,
		ai_processing_consent, training_opt_in, content_retention_days, log_retention_days,
		default_visibility, plan_tier, words_used_this_month, billing_customer_id,
		consent_version, consent_updated_at, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.OwnerID,
		&p.DisplayName,
		&p.Bio,
		&p.Language,
		&p.Timezone,
		&p.AvatarURL,
		&p.AIProcessingConsent,
		&p.TrainingOptIn,
		&p.ContentRetentionDays,
		&p.LogRetentionDays,
		&p.DefaultVisibility,
		&p.PlanTier,
		&p.WordsUsedThisMonth,
		&p.BillingCustomerID,
		&p.ConsentVersion,
		&p.ConsentUpdatedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByOwner retrieves the profile for an owner.
// Returns nil (not an error) if no profile row exists.
func (r *PostgresProfileRepository) GetByOwner(ctx context.Context, ownerID string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
	`, profileColumns, r.tables.Profiles)

	executor := GetExecutor(ctx, r.pool)
	profile, err := scanProfile(executor.QueryRow(ctx, query, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// Create inserts a new profile row (signup path)
func (r *PostgresProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, r.tables.Profiles, profileColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		profile.OwnerID,
		profile.DisplayName,
		profile.Bio,
		profile.Language,
		profile.Timezone,
		profile.AvatarURL,
		profile.AIProcessingConsent,
		profile.TrainingOptIn,
		profile.ContentRetentionDays,
		profile.LogRetentionDays,
		profile.DefaultVisibility,
		profile.PlanTier,
		profile.WordsUsedThisMonth,
		profile.BillingCustomerID,
		profile.ConsentVersion,
		profile.ConsentUpdatedAt,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("profile for owner %s already exists", profile.OwnerID),
				ResourceType: "profile",
				ResourceID:   profile.OwnerID,
			}
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

// UpdateEditable writes only the editable preference/consent subset onto the
// existing row. It never inserts; a missing row surfaces as ErrNotFound.
func (r *PostgresProfileRepository) UpdateEditable(ctx context.Context, ownerID string, fields *models.ProfileEditable) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			display_name = $2,
			bio = $3,
			language = $4,
			timezone = $5,
			avatar_url = $6,
			ai_processing_consent = $7,
			training_opt_in = $8,
			content_retention_days = $9,
			log_retention_days = $10,
			default_visibility = $11,
			updated_at = NOW()
		WHERE owner_id = $1
	`, r.tables.Profiles)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		ownerID,
		fields.DisplayName,
		fields.Bio,
		fields.Language,
		fields.Timezone,
		fields.AvatarURL,
		fields.AIProcessingConsent,
		fields.TrainingOptIn,
		fields.ContentRetentionDays,
		fields.LogRetentionDays,
		fields.DefaultVisibility,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile for owner %s: %w", ownerID, domain.ErrNotFound)
	}

	return nil
}
