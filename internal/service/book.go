package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookforge/internal/config"
	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
	"bookforge/internal/domain/services"
	"bookforge/internal/utils"
)

// bookService implements the BookService interface
type bookService struct {
	bookRepo repositories.BookRepository
	logger   *slog.Logger
}

// NewBookService creates a new book service
func NewBookService(
	bookRepo repositories.BookRepository,
	logger *slog.Logger,
) services.BookService {
	return &bookService{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// CreateBook creates a new book for an owner
func (s *bookService) CreateBook(ctx context.Context, ownerID string, req *models.CreateBookRequest) (*models.Book, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	book := &models.Book{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(req.Title),
		Genre:         req.Genre,
		Subgenre:      req.Subgenre,
		Description:   req.Description,
		Content:       req.Content,
		WordCount:     req.WordCount,
		TotalChapters: req.TotalChapters,
		CoverURL:      req.CoverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Derive a word count from the manuscript when the client did not supply one
	if book.WordCount == 0 && book.Content != "" {
		book.WordCount = utils.CountWords(book.Content)
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book created",
		"id", book.ID,
		"title", book.Title,
		"owner_id", ownerID,
	)

	return book, nil
}

// GetBook retrieves a book by ID
func (s *bookService) GetBook(ctx context.Context, id, ownerID string) (*models.Book, error) {
	return s.bookRepo.GetByID(ctx, id, ownerID)
}

// ListBooks retrieves all books for an owner, newest first
func (s *bookService) ListBooks(ctx context.Context, ownerID string) ([]models.Book, error) {
	return s.bookRepo.ListByOwner(ctx, ownerID)
}

// UpdateBook applies a partial update to a book
func (s *bookService) UpdateBook(ctx context.Context, id, ownerID string, req *models.UpdateBookRequest) (*models.Book, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	book, err := s.bookRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Subgenre != nil {
		book.Subgenre = *req.Subgenre
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Content != nil {
		book.Content = *req.Content
	}
	if req.WordCount != nil {
		book.WordCount = *req.WordCount
	} else if req.Content != nil {
		book.WordCount = utils.CountWords(*req.Content)
	}
	if req.TotalChapters != nil {
		book.TotalChapters = *req.TotalChapters
	}
	if req.ChaptersRead != nil {
		book.ChaptersRead = *req.ChaptersRead
	}
	if req.CoverURL != nil {
		book.CoverURL = req.CoverURL
	}
	book.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book updated", "id", book.ID, "owner_id", ownerID)

	return book, nil
}

// DeleteBook deletes a book
func (s *bookService) DeleteBook(ctx context.Context, id, ownerID string) error {
	if err := s.bookRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("book deleted", "id", id, "owner_id", ownerID)

	return nil
}

// validateCreateRequest validates a create book request
func (s *bookService) validateCreateRequest(req *models.CreateBookRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxBookTitleLength),
			validation.By(validateNotBlank),
		),
		validation.Field(&req.Genre, validation.Length(0, config.MaxGenreLength)),
		validation.Field(&req.Subgenre, validation.Length(0, config.MaxGenreLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.WordCount, validation.Min(0)),
		validation.Field(&req.TotalChapters, validation.Min(0)),
	)
}

// validateUpdateRequest validates an update book request
func (s *bookService) validateUpdateRequest(req *models.UpdateBookRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxBookTitleLength),
		),
		validation.Field(&req.Genre, validation.Length(0, config.MaxGenreLength)),
		validation.Field(&req.Subgenre, validation.Length(0, config.MaxGenreLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.WordCount, validation.Min(0)),
		validation.Field(&req.TotalChapters, validation.Min(0)),
		validation.Field(&req.ChaptersRead, validation.Min(0)),
	)
}

// validateNotBlank rejects values that are empty after trimming
func validateNotBlank(value interface{}) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}

	if strings.TrimSpace(str) == "" {
		return fmt.Errorf("cannot be blank")
	}

	return nil
}
