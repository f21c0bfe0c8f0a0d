package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookforge/internal/config"
	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
	"bookforge/internal/domain/services"
	"bookforge/internal/plans"
)

// usageService implements the UsageService interface.
//
// The ledger is append-only: this service is the only writer, and nothing in
// the system (the restore engine included) ever updates or deletes entries.
type usageService struct {
	usageRepo   repositories.UsageEventRepository
	profileRepo repositories.ProfileRepository
	plans       *plans.Registry
	logger      *slog.Logger
}

// NewUsageService creates a new usage service
func NewUsageService(
	usageRepo repositories.UsageEventRepository,
	profileRepo repositories.ProfileRepository,
	planRegistry *plans.Registry,
	logger *slog.Logger,
) services.UsageService {
	return &usageService{
		usageRepo:   usageRepo,
		profileRepo: profileRepo,
		plans:       planRegistry,
		logger:      logger,
	}
}

// ListRecent returns the owner's most recent usage events
func (s *usageService) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.UsageEvent, error) {
	if limit <= 0 {
		limit = config.DefaultUsageListLimit
	}
	if limit > config.MaxUsageListLimit {
		limit = config.MaxUsageListLimit
	}

	return s.usageRepo.ListRecent(ctx, ownerID, limit)
}

// Record appends a ledger entry after checking the owner's plan budget
func (s *usageService) Record(ctx context.Context, ownerID string, req *models.RecordUsageRequest) (*models.UsageEvent, error) {
	if err := s.validateRecordRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	profile, err := s.profileRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("profile for owner %s: %w", ownerID, domain.ErrNotFound)
	}

	if req.Billable {
		plan, err := s.plans.Get(profile.PlanTier)
		if err != nil {
			return nil, fmt.Errorf("resolve plan for owner %s: %w", ownerID, err)
		}

		// Budget of zero means unlimited
		if plan.MonthlyWordBudget > 0 && profile.WordsUsedThisMonth+req.Words > plan.MonthlyWordBudget {
			return nil, fmt.Errorf("monthly word budget of %d exceeded on plan %s: %w",
				plan.MonthlyWordBudget, plan.ID, domain.ErrForbidden)
		}
	}

	event := &models.UsageEvent{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Feature:   req.Feature,
		Words:     req.Words,
		Tokens:    req.Tokens,
		Billable:  req.Billable,
		Reason:    req.Reason,
		CreatedAt: time.Now(),
	}

	if err := s.usageRepo.Insert(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("usage recorded",
		"owner_id", ownerID,
		"feature", event.Feature,
		"words", event.Words,
		"billable", event.Billable,
	)

	return event, nil
}

// validateRecordRequest validates a record usage request
func (s *usageService) validateRecordRequest(req *models.RecordUsageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Feature, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Words, validation.Min(0)),
		validation.Field(&req.Tokens, validation.Min(0)),
	)
}
