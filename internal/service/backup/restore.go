package backup

import (
	"context"
	"fmt"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
)

// Restore applies a validated snapshot into the record store.
//
// Two fail-fast preconditions run before any write: the snapshot must be
// structurally valid, and its owner_id must match the acting account (one
// account's data must never land in another account's space).
//
// The three write phases - profile, books, chapter summaries - are
// independent and isolated: a failure in one is recorded and the others still
// attempt. There is no cross-phase transaction; the operation is user
// triggered and deliberately favors maximal data recovery over atomicity.
// Every write is an upsert keyed by a stable identifier, so re-running the
// same restore converges to the same final state.
//
// Usage events are never written. The ledger is append-only and owned by the
// live system; importing historical events from a snapshot could let a user
// inflate, erase, or falsify their own billing history.
//
// If every attempted phase fails, Restore returns *domain.RestoreFailedError
// so callers can present a hard failure instead of a misleading report.
func (s *Service) Restore(ctx context.Context, snapshot *models.Snapshot, actingOwnerID string) (*models.RestoreReport, error) {
	if !validRestoreInput(snapshot) {
		return nil, domain.ErrInvalidSnapshotFormat
	}

	if snapshot.OwnerID != actingOwnerID {
		return nil, fmt.Errorf("snapshot belongs to %q, acting owner is %q: %w",
			snapshot.OwnerID, actingOwnerID, domain.ErrOwnerMismatch)
	}

	report := &models.RestoreReport{Errors: []string{}}
	attempted := 0
	succeeded := 0

	// Profile phase: editable fields only, onto the row created at signup.
	// Plan tier and usage counters stay untouched so a stale snapshot can
	// never regress billing state.
	attempted++
	if err := s.profileRepo.UpdateEditable(ctx, actingOwnerID, snapshot.Profile.Editable()); err != nil {
		s.logger.Warn("profile restore phase failed", "owner_id", actingOwnerID, "error", err)
		report.Errors = append(report.Errors, fmt.Sprintf("profile restore failed: %v", err))
	} else {
		report.Restored.Profile = true
		succeeded++
	}

	// Books phase: bulk upsert keyed by id, owner_id rewritten to the acting
	// account first. Snapshot wins over any existing row with the same id.
	if len(snapshot.Books) > 0 {
		attempted++
		books := make([]models.Book, len(snapshot.Books))
		copy(books, snapshot.Books)
		for i := range books {
			books[i].OwnerID = actingOwnerID
		}

		err := s.inTx(ctx, func(txCtx context.Context) error {
			return s.bookRepo.BulkUpsert(txCtx, books)
		})
		if err != nil {
			s.logger.Warn("books restore phase failed", "owner_id", actingOwnerID, "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("books restore failed: %v", err))
		} else {
			// Count reflects the input snapshot, not a store-verified row
			// count: the phase's upsert fully succeeds or fully fails.
			report.Restored.Books = len(snapshot.Books)
			succeeded++
		}
	}

	// Chapter-summaries phase: bulk upsert keyed by
	// (book_id, chapter_number), owner_id rewritten.
	if len(snapshot.ChapterSummaries) > 0 {
		attempted++
		summaries := make([]models.ChapterSummary, len(snapshot.ChapterSummaries))
		copy(summaries, snapshot.ChapterSummaries)
		for i := range summaries {
			summaries[i].OwnerID = actingOwnerID
		}

		err := s.inTx(ctx, func(txCtx context.Context) error {
			return s.summaryRepo.BulkUpsert(txCtx, summaries)
		})
		if err != nil {
			s.logger.Warn("summaries restore phase failed", "owner_id", actingOwnerID, "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("chapter summaries restore failed: %v", err))
		} else {
			report.Restored.Summaries = len(snapshot.ChapterSummaries)
			succeeded++
		}
	}

	report.Success = len(report.Errors) == 0
	report.PartialSuccess = succeeded > 0 && len(report.Errors) > 0

	if succeeded == 0 && len(report.Errors) > 0 {
		return nil, &domain.RestoreFailedError{Errors: report.Errors}
	}

	s.logger.Info("restore finished",
		"owner_id", actingOwnerID,
		"profile", report.Restored.Profile,
		"books", report.Restored.Books,
		"summaries", report.Restored.Summaries,
		"errors", len(report.Errors),
		"partial", report.PartialSuccess,
	)

	return report, nil
}

// validRestoreInput is the typed-form equivalent of IsValidSnapshot: the
// document-level key checks have already happened at decode time, so here
// only the fields the engine is about to dereference matter.
func validRestoreInput(snapshot *models.Snapshot) bool {
	if snapshot == nil {
		return false
	}
	if snapshot.SchemaVersion == "" || snapshot.OwnerID == "" {
		return false
	}
	return snapshot.Profile != nil
}
