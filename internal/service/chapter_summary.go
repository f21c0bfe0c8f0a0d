package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookforge/internal/config"
	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
	"bookforge/internal/domain/services"
)

// chapterSummaryService implements the ChapterSummaryService interface
type chapterSummaryService struct {
	summaryRepo repositories.ChapterSummaryRepository
	bookRepo    repositories.BookRepository
	logger      *slog.Logger
}

// NewChapterSummaryService creates a new chapter summary service
func NewChapterSummaryService(
	summaryRepo repositories.ChapterSummaryRepository,
	bookRepo repositories.BookRepository,
	logger *slog.Logger,
) services.ChapterSummaryService {
	return &chapterSummaryService{
		summaryRepo: summaryRepo,
		bookRepo:    bookRepo,
		logger:      logger,
	}
}

// ListSummaries lists a book's summaries in chapter order
func (s *chapterSummaryService) ListSummaries(ctx context.Context, bookID, ownerID string) ([]models.ChapterSummary, error) {
	// Ownership check doubles as existence check
	if _, err := s.bookRepo.GetByID(ctx, bookID, ownerID); err != nil {
		return nil, err
	}

	return s.summaryRepo.ListByBook(ctx, bookID, ownerID)
}

// PutSummary inserts or overwrites the summary for one chapter
func (s *chapterSummaryService) PutSummary(ctx context.Context, bookID, ownerID string, req *models.PutChapterSummaryRequest) (*models.ChapterSummary, error) {
	if err := s.validatePutRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.bookRepo.GetByID(ctx, bookID, ownerID); err != nil {
		return nil, err
	}

	summary := &models.ChapterSummary{
		BookID:        bookID,
		ChapterNumber: req.ChapterNumber,
		Summary:       req.Summary,
		OwnerID:       ownerID,
		ContentHash:   req.ContentHash,
	}

	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.Info("chapter summary saved",
		"book_id", bookID,
		"chapter_number", req.ChapterNumber,
		"owner_id", ownerID,
	)

	return summary, nil
}

// validatePutRequest validates a put chapter summary request
func (s *chapterSummaryService) validatePutRequest(req *models.PutChapterSummaryRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ChapterNumber, validation.Required, validation.Min(1)),
		validation.Field(&req.Summary,
			validation.Required,
			validation.Length(1, config.MaxSummaryLength),
		),
	)
}
