package repositories

import (
	"context"

	"bookforge/internal/domain/models"
)

// BookRepository defines data access operations for books.
type BookRepository interface {
	// Create creates a new book
	Create(ctx context.Context, book *models.Book) error

	// GetByID retrieves a book by ID, scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Book, error)

	// ListByOwner lists all books belonging to an owner, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]models.Book, error)

	// Update updates an existing book
	Update(ctx context.Context, book *models.Book) error

	// Delete deletes a book
	Delete(ctx context.Context, id, ownerID string) error

	// BulkUpsert inserts or overwrites books keyed by id. Existing rows with
	// a matching id are replaced entirely (last write wins). The call either
	// fully succeeds or fully fails; there is no per-row reporting.
	BulkUpsert(ctx context.Context, books []models.Book) error
}
