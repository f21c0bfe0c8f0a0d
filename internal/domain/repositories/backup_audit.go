package repositories

import (
	"context"

	"bookforge/internal/domain/models"
)

// BackupAuditRepository records size/metrics of system-initiated snapshots.
// Snapshot content is never persisted server-side.
type BackupAuditRepository interface {
	// Insert records one audit entry
	Insert(ctx context.Context, entry *models.BackupAuditEntry) error

	// ListByOwner returns an owner's audit entries, newest first
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.BackupAuditEntry, error)
}
