package backup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
	"bookforge/internal/domain/services"
)

// DefaultUsageEventCap bounds how many recent usage events a snapshot
// carries. The ledger is history for completeness, not restorable data, so a
// cap keeps snapshots from growing without bound.
const DefaultUsageEventCap = 1000

// Service implements the BackupService interface: snapshot builds and
// restores over the per-collection repositories.
type Service struct {
	profileRepo repositories.ProfileRepository
	bookRepo    repositories.BookRepository
	summaryRepo repositories.ChapterSummaryRepository
	usageRepo   repositories.UsageEventRepository
	auditRepo   repositories.BackupAuditRepository
	txManager   repositories.TransactionManager
	clock       Clock
	usageCap    int
	logger      *slog.Logger
}

// NewService creates a new backup service. txManager may be nil, in which
// case restore phases run without transactional isolation.
func NewService(
	profileRepo repositories.ProfileRepository,
	bookRepo repositories.BookRepository,
	summaryRepo repositories.ChapterSummaryRepository,
	usageRepo repositories.UsageEventRepository,
	auditRepo repositories.BackupAuditRepository,
	txManager repositories.TransactionManager,
	clock Clock,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = RealClock{}
	}
	return &Service{
		profileRepo: profileRepo,
		bookRepo:    bookRepo,
		summaryRepo: summaryRepo,
		usageRepo:   usageRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		clock:       clock,
		usageCap:    DefaultUsageEventCap,
		logger:      logger,
	}
}

// inTx runs fn in a transaction when a manager is configured. Used by the
// bulk restore phases so each phase commits or rolls back as a unit.
func (s *Service) inTx(ctx context.Context, fn repositories.TxFn) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.ExecTx(ctx, fn)
}

var _ services.BackupService = (*Service)(nil)
var _ services.BackupAuditService = (*Service)(nil)

// RecordAudit stores a metrics-only audit entry for a system-initiated
// snapshot. Snapshot content never reaches the store.
func (s *Service) RecordAudit(ctx context.Context, snapshot *models.Snapshot) error {
	entry := &models.BackupAuditEntry{
		ID:            uuid.New().String(),
		OwnerID:       snapshot.OwnerID,
		TotalBooks:    snapshot.Metadata.TotalBooks,
		TotalChapters: snapshot.Metadata.TotalChapters,
		TotalWords:    snapshot.Metadata.TotalWords,
		BackupSizeMB:  snapshot.Metadata.BackupSizeMB,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("record backup audit: %w", err)
	}

	return nil
}

// ListAuditEntries returns an owner's backup audit log, newest first
func (s *Service) ListAuditEntries(ctx context.Context, ownerID string, limit int) ([]models.BackupAuditEntry, error) {
	entries, err := s.auditRepo.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list backup audit: %w", err)
	}
	return entries, nil
}
