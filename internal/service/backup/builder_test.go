package backup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
)

func TestBuild_AssemblesFullSnapshot(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")

	snapshot, err := st.service.Build(context.Background(), "U1")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if snapshot.SchemaVersion != models.SnapshotSchemaVersion {
		t.Errorf("expected schema version %q, got %q", models.SnapshotSchemaVersion, snapshot.SchemaVersion)
	}
	if snapshot.OwnerID != "U1" {
		t.Errorf("expected owner U1, got %q", snapshot.OwnerID)
	}
	if !snapshot.CreatedAt.Equal(st.clock.Now()) {
		t.Errorf("expected created_at %v, got %v", st.clock.Now(), snapshot.CreatedAt)
	}
	if snapshot.Profile == nil || snapshot.Profile.DisplayName != "Reader One" {
		t.Errorf("expected seeded profile, got %+v", snapshot.Profile)
	}
	if len(snapshot.Books) != 3 {
		t.Errorf("expected 3 books, got %d", len(snapshot.Books))
	}
	if len(snapshot.ChapterSummaries) != 5 {
		t.Errorf("expected 5 summaries, got %d", len(snapshot.ChapterSummaries))
	}
}

func TestBuild_MetadataMatchesCollections(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")

	snapshot, err := st.service.Build(context.Background(), "U1")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	md := snapshot.Metadata
	if md.TotalBooks != 3 {
		t.Errorf("expected total_books 3, got %d", md.TotalBooks)
	}
	if md.TotalChapters != 5 {
		t.Errorf("expected total_chapters 5, got %d", md.TotalChapters)
	}
	if md.TotalWords != 600 {
		t.Errorf("expected total_words 600, got %d", md.TotalWords)
	}
	if md.BackupSizeMB < 0 {
		t.Errorf("expected non-negative size, got %f", md.BackupSizeMB)
	}
}

func TestBuild_EmptyAccountStillSnapshots(t *testing.T) {
	st := newTestStore()
	_ = st.profiles.Create(context.Background(), &models.Profile{OwnerID: "U2", PlanTier: "free"})

	snapshot, err := st.service.Build(context.Background(), "U2")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if snapshot.Metadata.TotalBooks != 0 || snapshot.Metadata.TotalChapters != 0 || snapshot.Metadata.TotalWords != 0 {
		t.Errorf("expected zeroed metadata, got %+v", snapshot.Metadata)
	}

	// Empty collections must still be sequences after serialization
	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !IsValidSnapshot(doc) {
		t.Fatal("empty-account snapshot failed structural validation")
	}
}

func TestBuild_MissingProfile(t *testing.T) {
	st := newTestStore()

	_, err := st.service.Build(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

// Any failed collection read fails the whole build; no partial snapshot.
func TestBuild_StoreFailureIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name  string
		breakFn func(*testStore)
	}{
		{"profile read fails", func(st *testStore) { st.profiles.getErr = errors.New("connection reset") }},
		{"book read fails", func(st *testStore) { st.books.listErr = errors.New("connection reset") }},
		{"summary read fails", func(st *testStore) { st.summaries.listErr = errors.New("connection reset") }},
		{"usage read fails", func(st *testStore) { st.usage.listErr = errors.New("connection reset") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore()
			st.seedOwner("U1")
			tt.breakFn(st)

			snapshot, err := st.service.Build(context.Background(), "U1")
			if !errors.Is(err, domain.ErrStoreUnavailable) {
				t.Fatalf("expected ErrStoreUnavailable, got %v", err)
			}
			if snapshot != nil {
				t.Error("expected no snapshot on failure")
			}
		})
	}
}

// A built snapshot must pass the structural validator after a JSON round
// trip: the builder and validator agree on the document shape.
func TestBuild_OutputPassesValidator(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")

	snapshot, err := st.service.Build(context.Background(), "U1")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !IsValidSnapshot(doc) {
		t.Fatal("built snapshot failed structural validation")
	}
}
