package backup

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
)

// buildSnapshot produces a snapshot of U1's seeded account for restore tests.
func buildSnapshot(t *testing.T, st *testStore) *models.Snapshot {
	t.Helper()
	snapshot, err := st.service.Build(context.Background(), "U1")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return snapshot
}

func TestRestore_FullSuccess(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)

	// Wipe the books so the restore has visible work to do
	for id := range st.books.books {
		delete(st.books.books, id)
	}

	report, err := st.service.Restore(context.Background(), snapshot, "U1")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if !report.Success {
		t.Error("expected success")
	}
	if report.PartialSuccess {
		t.Error("expected partial_success false on full success")
	}
	if len(report.Errors) != 0 {
		t.Errorf("expected no errors, got %v", report.Errors)
	}
	if !report.Restored.Profile {
		t.Error("expected profile restored")
	}
	if report.Restored.Books != 3 {
		t.Errorf("expected 3 books restored, got %d", report.Restored.Books)
	}
	if report.Restored.Summaries != 5 {
		t.Errorf("expected 5 summaries restored, got %d", report.Restored.Summaries)
	}
	if len(st.books.books) != 3 {
		t.Errorf("expected 3 books back in store, got %d", len(st.books.books))
	}
}

func TestRestore_InvalidSnapshot(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")

	tests := []struct {
		name     string
		snapshot *models.Snapshot
	}{
		{"nil snapshot", nil},
		{"missing schema version", &models.Snapshot{OwnerID: "U1", Profile: &models.Profile{}}},
		{"missing owner", &models.Snapshot{SchemaVersion: "1.0.0", Profile: &models.Profile{}}},
		{"missing profile", &models.Snapshot{SchemaVersion: "1.0.0", OwnerID: "U1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.service.Restore(context.Background(), tt.snapshot, "U1")
			if !errors.Is(err, domain.ErrInvalidSnapshotFormat) {
				t.Fatalf("expected ErrInvalidSnapshotFormat, got %v", err)
			}
		})
	}
}

// A snapshot belonging to another account must be rejected before any write.
func TestRestore_OwnerMismatchLeavesStoreUntouched(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)

	before := make(map[string]models.Book, len(st.books.books))
	for id, b := range st.books.books {
		before[id] = b
	}

	_, err := st.service.Restore(context.Background(), snapshot, "U2")
	if !errors.Is(err, domain.ErrOwnerMismatch) {
		t.Fatalf("expected ErrOwnerMismatch, got %v", err)
	}

	if st.profiles.updates != 0 {
		t.Error("profile must not be written on owner mismatch")
	}
	if st.books.upserts != 0 || st.summaries.upserts != 0 {
		t.Error("no bulk writes may happen on owner mismatch")
	}
	if !reflect.DeepEqual(before, st.books.books) {
		t.Error("book store changed on rejected restore")
	}
}

// The usage ledger is never written by a restore, even when the snapshot
// carries events.
func TestRestore_NeverWritesUsageEvents(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)
	snapshot.UsageEvents = []models.UsageEvent{
		{ID: "evt-1", OwnerID: "U1", Feature: "book_generation", Words: 99999, Billable: true},
	}

	if _, err := st.service.Restore(context.Background(), snapshot, "U1"); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if len(st.usage.events) != 0 {
		t.Fatalf("restore wrote %d usage events, want 0", len(st.usage.events))
	}
}

// Profile restore never touches the system-managed billing fields.
func TestRestore_PreservesBillingState(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)

	// Billing state moved on after the snapshot was taken
	st.profiles.profiles["U1"].PlanTier = "unlimited"
	st.profiles.profiles["U1"].WordsUsedThisMonth = 5000
	snapshot.Profile.PlanTier = "free"
	snapshot.Profile.WordsUsedThisMonth = 0
	snapshot.Profile.DisplayName = "Old Name"

	if _, err := st.service.Restore(context.Background(), snapshot, "U1"); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	p := st.profiles.profiles["U1"]
	if p.PlanTier != "unlimited" {
		t.Errorf("plan tier regressed to %q", p.PlanTier)
	}
	if p.WordsUsedThisMonth != 5000 {
		t.Errorf("usage counter regressed to %d", p.WordsUsedThisMonth)
	}
	if p.DisplayName != "Old Name" {
		t.Errorf("editable field not restored, got %q", p.DisplayName)
	}
}

func TestRestore_PartialFailure(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)

	st.books.upsertErr = errors.New("deadlock detected")

	report, err := st.service.Restore(context.Background(), snapshot, "U1")
	if err != nil {
		t.Fatalf("Restore returned hard error on partial failure: %v", err)
	}

	if report.Success {
		t.Error("expected success false")
	}
	if !report.PartialSuccess {
		t.Error("expected partial_success true")
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", report.Errors)
	}
	if !strings.Contains(report.Errors[0], "books") {
		t.Errorf("error should name the failed phase, got %q", report.Errors[0])
	}
	if report.Restored.Books != 0 {
		t.Errorf("failed phase must report 0 restored, got %d", report.Restored.Books)
	}
	if !report.Restored.Profile {
		t.Error("profile phase should still succeed")
	}
	if report.Restored.Summaries != 5 {
		t.Errorf("summaries phase should still succeed, got %d", report.Restored.Summaries)
	}
}

func TestRestore_TotalFailure(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)

	st.profiles.updateErr = errors.New("store down")
	st.books.upsertErr = errors.New("store down")
	st.summaries.upsertErr = errors.New("store down")

	report, err := st.service.Restore(context.Background(), snapshot, "U1")
	if report != nil {
		t.Error("expected no report on total failure")
	}

	var restoreErr *domain.RestoreFailedError
	if !errors.As(err, &restoreErr) {
		t.Fatalf("expected RestoreFailedError, got %v", err)
	}
	if len(restoreErr.Errors) != 3 {
		t.Errorf("expected 3 phase errors, got %v", restoreErr.Errors)
	}
}

// A snapshot with no books and no summaries only attempts the profile
// phase; skipped phases count as neither success nor failure.
func TestRestore_SkippedPhasesDoNotCount(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)
	snapshot.Books = nil
	snapshot.ChapterSummaries = nil

	report, err := st.service.Restore(context.Background(), snapshot, "U1")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !report.Success {
		t.Error("expected success with only the profile phase attempted")
	}
	if st.books.upserts != 0 || st.summaries.upserts != 0 {
		t.Error("empty collections must not trigger bulk writes")
	}
}

// Restoring the same snapshot twice converges: every write is an upsert
// keyed by a stable identifier.
func TestRestore_Idempotent(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot := buildSnapshot(t, st)

	first, err := st.service.Restore(context.Background(), snapshot, "U1")
	if err != nil {
		t.Fatalf("first restore failed: %v", err)
	}
	booksAfterFirst := make(map[string]models.Book, len(st.books.books))
	for id, b := range st.books.books {
		booksAfterFirst[id] = b
	}

	second, err := st.service.Restore(context.Background(), snapshot, "U1")
	if err != nil {
		t.Fatalf("second restore failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ between runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if !reflect.DeepEqual(booksAfterFirst, st.books.books) {
		t.Error("store state changed on second identical restore")
	}
	if len(st.books.books) != 3 {
		t.Errorf("expected 3 books after double restore, got %d", len(st.books.books))
	}
}

// Minimal full cycle: one book, one summary, through serialize, validate,
// restore and re-restore.
func TestBackupRestore_SingleBookCycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	_ = st.profiles.Create(ctx, &models.Profile{OwnerID: "U1", DisplayName: "One", DefaultVisibility: "private"})
	_ = st.books.Create(ctx, &models.Book{ID: "B1", OwnerID: "U1", Title: "Only Book", WordCount: 500})
	_ = st.summaries.Upsert(ctx, &models.ChapterSummary{BookID: "B1", ChapterNumber: 1, Summary: "opening", OwnerID: "U1"})

	snapshot := buildSnapshot(t, st)
	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}

	// Fresh store, same profile row (signup-created)
	fresh := newTestStore()
	_ = fresh.profiles.Create(ctx, &models.Profile{OwnerID: "U1"})

	for i := 0; i < 2; i++ {
		report, err := fresh.service.Restore(ctx, decoded, "U1")
		if err != nil {
			t.Fatalf("restore %d failed: %v", i+1, err)
		}
		if !report.Success || report.Restored.Books != 1 || report.Restored.Summaries != 1 {
			t.Fatalf("restore %d report: %+v", i+1, report)
		}
		if len(fresh.books.books) != 1 {
			t.Fatalf("restore %d: expected exactly one book, got %d", i+1, len(fresh.books.books))
		}
		if b := fresh.books.books["B1"]; b.WordCount != 500 || b.OwnerID != "U1" {
			t.Fatalf("restore %d: book state wrong: %+v", i+1, b)
		}
		if _, ok := fresh.summaries.summaries[summaryKey("B1", 1)]; !ok {
			t.Fatalf("restore %d: summary for (B1, 1) missing", i+1)
		}
	}
}

// Full cycle: build, serialize to the on-disk format, decode, restore into
// a wiped store, then restore again.
func TestBackupRestore_EndToEnd(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")

	snapshot := buildSnapshot(t, st)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}

	// Simulate data loss: books and summaries gone, profile reset
	st.books.books = map[string]models.Book{}
	st.summaries.summaries = map[string]models.ChapterSummary{}
	st.profiles.profiles["U1"].DisplayName = ""

	report, err := st.service.Restore(context.Background(), decoded, "U1")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !report.Success {
		t.Fatalf("expected full success, errors: %v", report.Errors)
	}
	if report.Restored.Books != 3 || report.Restored.Summaries != 5 || !report.Restored.Profile {
		t.Errorf("unexpected restored counts: %+v", report.Restored)
	}
	if st.profiles.profiles["U1"].DisplayName != "Reader One" {
		t.Error("profile editable fields not recovered")
	}

	// Second pass over the now-recovered store must be a no-op in effect
	again, err := st.service.Restore(context.Background(), decoded, "U1")
	if err != nil {
		t.Fatalf("re-restore failed: %v", err)
	}
	if !reflect.DeepEqual(report, again) {
		t.Errorf("re-restore report differs: %+v vs %+v", report, again)
	}
}
