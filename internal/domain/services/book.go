package services

import (
	"context"

	"bookforge/internal/domain/models"
)

// BookService defines business logic operations for books.
type BookService interface {
	// CreateBook creates a new book for an owner
	CreateBook(ctx context.Context, ownerID string, req *models.CreateBookRequest) (*models.Book, error)

	// GetBook retrieves a book by ID
	GetBook(ctx context.Context, id, ownerID string) (*models.Book, error)

	// ListBooks retrieves all books for an owner, newest first
	ListBooks(ctx context.Context, ownerID string) ([]models.Book, error)

	// UpdateBook applies a partial update to a book
	UpdateBook(ctx context.Context, id, ownerID string, req *models.UpdateBookRequest) (*models.Book, error)

	// DeleteBook deletes a book
	DeleteBook(ctx context.Context, id, ownerID string) error
}

// ChapterSummaryService defines business logic for per-chapter synopses.
type ChapterSummaryService interface {
	// ListSummaries lists a book's summaries in chapter order
	ListSummaries(ctx context.Context, bookID, ownerID string) ([]models.ChapterSummary, error)

	// PutSummary inserts or overwrites the summary for one chapter
	PutSummary(ctx context.Context, bookID, ownerID string, req *models.PutChapterSummaryRequest) (*models.ChapterSummary, error)
}
