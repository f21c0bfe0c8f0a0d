package services

import (
	"context"

	"bookforge/internal/domain/models"
)

// BackupService defines the backup/restore engine's business operations.
type BackupService interface {
	// Build assembles a versioned snapshot of one owner's full account data.
	// All-or-nothing: a partial snapshot is never returned.
	// Fails with domain.ErrProfileNotFound when no profile row exists and
	// with domain.ErrStoreUnavailable when any collection read fails.
	Build(ctx context.Context, ownerID string) (*models.Snapshot, error)

	// Restore applies a validated snapshot using per-collection upserts and
	// returns a structured partial-result report. Fails fast with
	// domain.ErrInvalidSnapshotFormat or domain.ErrOwnerMismatch before any
	// write; fails with *domain.RestoreFailedError when every phase failed.
	Restore(ctx context.Context, snapshot *models.Snapshot, actingOwnerID string) (*models.RestoreReport, error)
}

// BackupAuditService exposes the metrics-only audit log of system-initiated
// snapshots.
type BackupAuditService interface {
	ListAuditEntries(ctx context.Context, ownerID string, limit int) ([]models.BackupAuditEntry, error)
}
