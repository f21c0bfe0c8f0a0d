package repositories

import (
	"context"

	"bookforge/internal/domain/models"
)

// ChapterSummaryRepository defines data access operations for chapter
// summaries. The upsert conflict key is (book_id, chapter_number).
type ChapterSummaryRepository interface {
	// ListByOwner lists all chapter summaries belonging to an owner,
	// ordered by book then chapter number
	ListByOwner(ctx context.Context, ownerID string) ([]models.ChapterSummary, error)

	// ListByBook lists the summaries of one book in chapter order
	ListByBook(ctx context.Context, bookID, ownerID string) ([]models.ChapterSummary, error)

	// Upsert inserts or overwrites a single summary
	Upsert(ctx context.Context, summary *models.ChapterSummary) error

	// BulkUpsert inserts or overwrites summaries keyed by
	// (book_id, chapter_number). Fully succeeds or fully fails.
	BulkUpsert(ctx context.Context, summaries []models.ChapterSummary) error
}
