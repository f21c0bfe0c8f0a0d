package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
)

// Build assembles a versioned snapshot of one owner's full account data.
//
// The four collection reads run concurrently and are joined before anything
// else proceeds. Build is all-or-nothing: if any read fails the whole build
// fails with ErrStoreUnavailable and no partial snapshot is ever returned.
// A missing profile row is ErrProfileNotFound - a snapshot without a profile
// is meaningless.
func (s *Service) Build(ctx context.Context, ownerID string) (*models.Snapshot, error) {
	var (
		profile   *models.Profile
		books     []models.Book
		summaries []models.ChapterSummary
		events    []models.UsageEvent
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		profile, err = s.profileRepo.GetByOwner(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("%w: read profile: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		books, err = s.bookRepo.ListByOwner(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("%w: read books: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		summaries, err = s.summaryRepo.ListByOwner(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("%w: read chapter summaries: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		events, err = s.usageRepo.ListRecent(gctx, ownerID, s.usageCap)
		if err != nil {
			return fmt.Errorf("%w: read usage events: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if profile == nil {
		return nil, fmt.Errorf("owner %s: %w", ownerID, domain.ErrProfileNotFound)
	}

	// Empty collections must serialize as [] rather than null or the
	// document fails structural validation on the way back in.
	if books == nil {
		books = []models.Book{}
	}
	if summaries == nil {
		summaries = []models.ChapterSummary{}
	}
	if events == nil {
		events = []models.UsageEvent{}
	}

	totalWords := 0
	for i := range books {
		totalWords += books[i].WordCount
	}

	snapshot := &models.Snapshot{
		SchemaVersion:    models.SnapshotSchemaVersion,
		CreatedAt:        s.clock.Now(),
		OwnerID:          ownerID,
		Profile:          profile,
		Books:            books,
		ChapterSummaries: summaries,
		UsageEvents:      events,
		Metadata: models.SnapshotMetadata{
			TotalBooks:    len(books),
			TotalChapters: len(summaries),
			TotalWords:    totalWords,
		},
	}

	size, err := serializedSizeMB(snapshot)
	if err != nil {
		return nil, fmt.Errorf("compute snapshot size: %w", err)
	}
	snapshot.Metadata.BackupSizeMB = size

	s.logger.Info("snapshot assembled",
		"owner_id", ownerID,
		"total_books", snapshot.Metadata.TotalBooks,
		"total_chapters", snapshot.Metadata.TotalChapters,
		"total_words", snapshot.Metadata.TotalWords,
		"backup_size_mb", snapshot.Metadata.BackupSizeMB,
	)

	return snapshot, nil
}

// serializedSizeMB is the size of the serialized document in MB, rounded to
// two decimals. Descriptive only - never used for limit enforcement.
func serializedSizeMB(snapshot *models.Snapshot) (float64, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return 0, err
	}
	mb := float64(len(data)) / (1024 * 1024)
	return math.Round(mb*100) / 100, nil
}
