package repositories

import (
	"context"

	"bookforge/internal/domain/models"
)

// UsageEventRepository defines data access for the usage ledger.
//
// The ledger is append-only and the live system is its sole writer: there is
// deliberately no update, delete or bulk-import operation, and the restore
// engine never touches it.
type UsageEventRepository interface {
	// ListRecent returns up to limit events for an owner, newest first
	ListRecent(ctx context.Context, ownerID string, limit int) ([]models.UsageEvent, error)

	// Insert appends one ledger entry
	Insert(ctx context.Context, event *models.UsageEvent) error
}
