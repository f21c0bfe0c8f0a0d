package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
)

// fakeClock returns a fixed time that tests can advance.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]*models.Profile
	getErr    error
	updateErr error
	updates   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (r *fakeProfileRepo) GetByOwner(_ context.Context, ownerID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.profiles[ownerID]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *profile
	r.profiles[profile.OwnerID] = &clone
	return nil
}

func (r *fakeProfileRepo) UpdateEditable(_ context.Context, ownerID string, fields *models.ProfileEditable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.profiles[ownerID]
	if !ok {
		return fmt.Errorf("profile for owner %s: %w", ownerID, domain.ErrNotFound)
	}
	p.DisplayName = fields.DisplayName
	p.Bio = fields.Bio
	p.Language = fields.Language
	p.Timezone = fields.Timezone
	p.AvatarURL = fields.AvatarURL
	p.AIProcessingConsent = fields.AIProcessingConsent
	p.TrainingOptIn = fields.TrainingOptIn
	p.ContentRetentionDays = fields.ContentRetentionDays
	p.LogRetentionDays = fields.LogRetentionDays
	p.DefaultVisibility = fields.DefaultVisibility
	r.updates++
	return nil
}

// fakeBookRepo is an in-memory BookRepository keyed by book id.
type fakeBookRepo struct {
	mu        sync.Mutex
	books     map[string]models.Book
	listErr   error
	upsertErr error
	upserts   int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[string]models.Book)}
}

func (r *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[book.ID] = *book
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id, ownerID string) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok || book.OwnerID != ownerID {
		return nil, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	return &book, nil
}

func (r *fakeBookRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Book
	for _, b := range r.books {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookRepo) Update(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[book.ID] = *book
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) BulkUpsert(_ context.Context, books []models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for _, b := range books {
		r.books[b.ID] = b
	}
	r.upserts++
	return nil
}

// fakeSummaryRepo is an in-memory ChapterSummaryRepository keyed by
// (book_id, chapter_number).
type fakeSummaryRepo struct {
	mu        sync.Mutex
	summaries map[string]models.ChapterSummary
	listErr   error
	upsertErr error
	upserts   int
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: make(map[string]models.ChapterSummary)}
}

func summaryKey(bookID string, chapter int) string {
	return fmt.Sprintf("%s#%d", bookID, chapter)
}

func (r *fakeSummaryRepo) ListByOwner(_ context.Context, ownerID string) ([]models.ChapterSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.ChapterSummary
	for _, s := range r.summaries {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookID != out[j].BookID {
			return out[i].BookID < out[j].BookID
		}
		return out[i].ChapterNumber < out[j].ChapterNumber
	})
	return out, nil
}

func (r *fakeSummaryRepo) ListByBook(_ context.Context, bookID, ownerID string) ([]models.ChapterSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ChapterSummary
	for _, s := range r.summaries {
		if s.BookID == bookID && s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterNumber < out[j].ChapterNumber })
	return out, nil
}

func (r *fakeSummaryRepo) Upsert(_ context.Context, summary *models.ChapterSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[summaryKey(summary.BookID, summary.ChapterNumber)] = *summary
	return nil
}

func (r *fakeSummaryRepo) BulkUpsert(_ context.Context, summaries []models.ChapterSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for _, s := range summaries {
		r.summaries[summaryKey(s.BookID, s.ChapterNumber)] = s
	}
	r.upserts++
	return nil
}

// fakeUsageRepo is an in-memory append-only UsageEventRepository.
type fakeUsageRepo struct {
	mu      sync.Mutex
	events  []models.UsageEvent
	listErr error
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{}
}

func (r *fakeUsageRepo) ListRecent(_ context.Context, ownerID string, limit int) ([]models.UsageEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.UsageEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].OwnerID == ownerID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) Insert(_ context.Context, event *models.UsageEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// fakeAuditRepo is an in-memory BackupAuditRepository.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.BackupAuditEntry
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Insert(_ context.Context, entry *models.BackupAuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByOwner(_ context.Context, ownerID string, limit int) ([]models.BackupAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BackupAuditEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].OwnerID == ownerID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

// testStore bundles the fakes behind one backup Service.
type testStore struct {
	profiles  *fakeProfileRepo
	books     *fakeBookRepo
	summaries *fakeSummaryRepo
	usage     *fakeUsageRepo
	audit     *fakeAuditRepo
	clock     *fakeClock
	service   *Service
}

func newTestStore() *testStore {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	st := &testStore{
		profiles:  newFakeProfileRepo(),
		books:     newFakeBookRepo(),
		summaries: newFakeSummaryRepo(),
		usage:     newFakeUsageRepo(),
		audit:     newFakeAuditRepo(),
		clock:     newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	st.service = NewService(st.profiles, st.books, st.summaries, st.usage, st.audit, nil, st.clock, logger)
	return st
}

// seedOwner populates the store with a profile, books and summaries for
// ownerID. Word counts are 100, 200, 300 across three books with five
// summaries total.
func (st *testStore) seedOwner(ownerID string) {
	ctx := context.Background()
	_ = st.profiles.Create(ctx, &models.Profile{
		OwnerID:           ownerID,
		DisplayName:       "Reader One",
		Language:          "en",
		Timezone:          "UTC",
		DefaultVisibility: "private",
		PlanTier:          "pro",
	})

	for i, words := range []int{100, 200, 300} {
		id := fmt.Sprintf("book-%d", i+1)
		_ = st.books.Create(ctx, &models.Book{
			ID:        id,
			OwnerID:   ownerID,
			Title:     fmt.Sprintf("Book %d", i+1),
			WordCount: words,
		})
	}

	chapters := []struct {
		bookID  string
		chapter int
	}{
		{"book-1", 1}, {"book-1", 2}, {"book-2", 1}, {"book-3", 1}, {"book-3", 2},
	}
	for _, c := range chapters {
		_ = st.summaries.Upsert(ctx, &models.ChapterSummary{
			BookID:        c.bookID,
			ChapterNumber: c.chapter,
			Summary:       "things happen",
			OwnerID:       ownerID,
		})
	}
}
