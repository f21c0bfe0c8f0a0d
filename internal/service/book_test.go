package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
)

// memBookRepo is a minimal in-memory BookRepository for service tests.
type memBookRepo struct {
	mu    sync.Mutex
	books map[string]models.Book
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{books: make(map[string]models.Book)}
}

func (r *memBookRepo) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[book.ID] = *book
	return nil
}

func (r *memBookRepo) GetByID(_ context.Context, id, ownerID string) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok || b.OwnerID != ownerID {
		return nil, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	return &b, nil
}

func (r *memBookRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Book
	for _, b := range r.books {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBookRepo) Update(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[book.ID] = *book
	return nil
}

func (r *memBookRepo) Delete(_ context.Context, id, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

func (r *memBookRepo) BulkUpsert(_ context.Context, books []models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range books {
		r.books[b.ID] = b
	}
	return nil
}

func newTestBookService() (*memBookRepo, *bookService) {
	repo := newMemBookRepo()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewBookService(repo, logger).(*bookService)
	return repo, svc
}

func TestCreateBook_DerivesWordCount(t *testing.T) {
	_, svc := newTestBookService()

	book, err := svc.CreateBook(context.Background(), "U1", &models.CreateBookRequest{
		Title:   "The Clockwork Harbor",
		Content: "# Chapter One\n\nThe tide came in on brass gears.",
	})
	if err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}
	if book.WordCount != 9 {
		t.Errorf("derived word count = %d, want 9", book.WordCount)
	}

	// An explicit count wins over derivation
	book, err = svc.CreateBook(context.Background(), "U1", &models.CreateBookRequest{
		Title:     "Counted Elsewhere",
		Content:   "one two three",
		WordCount: 42,
	})
	if err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}
	if book.WordCount != 42 {
		t.Errorf("explicit word count overridden: got %d", book.WordCount)
	}
}

func TestCreateBook_Validation(t *testing.T) {
	_, svc := newTestBookService()

	tests := []struct {
		name string
		req  models.CreateBookRequest
	}{
		{"empty title", models.CreateBookRequest{Title: ""}},
		{"blank title", models.CreateBookRequest{Title: "   "}},
		{"title too long", models.CreateBookRequest{Title: strings.Repeat("x", 300)}},
		{"negative word count", models.CreateBookRequest{Title: "ok", WordCount: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBook(context.Background(), "U1", &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateBook_OwnerScoped(t *testing.T) {
	repo, svc := newTestBookService()

	created, err := svc.CreateBook(context.Background(), "U1", &models.CreateBookRequest{Title: "Mine"})
	if err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	// Another owner cannot see or update the book
	title := "Stolen"
	_, err = svc.UpdateBook(context.Background(), created.ID, "U2", &models.UpdateBookRequest{Title: &title})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if repo.books[created.ID].Title != "Mine" {
		t.Error("foreign owner's update modified the book")
	}

	// The owner can
	updated, err := svc.UpdateBook(context.Background(), created.ID, "U1", &models.UpdateBookRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdateBook failed: %v", err)
	}
	if updated.Title != "Stolen" {
		t.Errorf("title not updated: %q", updated.Title)
	}
}

func TestUpdateBook_RecountsOnContentChange(t *testing.T) {
	_, svc := newTestBookService()

	created, err := svc.CreateBook(context.Background(), "U1", &models.CreateBookRequest{
		Title:   "Draft",
		Content: "one two",
	})
	if err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	content := "one two three four five"
	updated, err := svc.UpdateBook(context.Background(), created.ID, "U1", &models.UpdateBookRequest{Content: &content})
	if err != nil {
		t.Fatalf("UpdateBook failed: %v", err)
	}
	if updated.WordCount != 5 {
		t.Errorf("word count not recounted: got %d, want 5", updated.WordCount)
	}
}
