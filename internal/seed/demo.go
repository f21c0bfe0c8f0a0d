package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookforge/internal/domain/models"
	"bookforge/internal/repository/postgres"
	"bookforge/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DemoSeeder populates a development database with one demo account:
// a profile, a handful of generated books with chapter summaries, and a
// few usage ledger entries.
type DemoSeeder struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDemoSeeder creates a new demo data seeder
func NewDemoSeeder(pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) *DemoSeeder {
	return &DemoSeeder{
		pool:   pool,
		tables: tables,
		logger: logger,
	}
}

// SeedAccount creates the demo profile and its books for ownerID. Inserts
// are idempotent so the seeder can run repeatedly against the same database.
func (s *DemoSeeder) SeedAccount(ctx context.Context, ownerID string) error {
	if err := s.seedProfile(ctx, ownerID); err != nil {
		return fmt.Errorf("seeding profile: %w", err)
	}

	books := demoBooks(ownerID)
	for i := range books {
		if err := s.seedBook(ctx, &books[i]); err != nil {
			return fmt.Errorf("seeding book %q: %w", books[i].Title, err)
		}
	}

	if err := s.seedUsage(ctx, ownerID); err != nil {
		return fmt.Errorf("seeding usage events: %w", err)
	}

	s.logger.Info("demo account seeded", "owner_id", ownerID, "books", len(books))
	return nil
}

func (s *DemoSeeder) seedProfile(ctx context.Context, ownerID string) error {
	now := time.Now()
	query := `INSERT INTO ` + s.tables.Profiles + ` (
		owner_id, display_name, bio, language, timezone,
		ai_processing_consent, training_opt_in, content_retention_days,
		log_retention_days, default_visibility, plan_tier,
		words_used_this_month, consent_version, consent_updated_at,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (owner_id) DO NOTHING`

	_, err := s.pool.Exec(ctx, query,
		ownerID, "Demo Author", "Writes demo fiction.", "en", "UTC",
		true, false, 365, 90, "private", "free",
		0, "2025-01", now, now, now,
	)
	return err
}

func (s *DemoSeeder) seedBook(ctx context.Context, book *models.Book) error {
	query := `INSERT INTO ` + s.tables.Books + ` (
		id, owner_id, title, genre, subgenre, description, content,
		word_count, total_chapters, chapters_read, cover_url,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO NOTHING`

	if _, err := s.pool.Exec(ctx, query,
		book.ID, book.OwnerID, book.Title, book.Genre, book.Subgenre,
		book.Description, book.Content, book.WordCount, book.TotalChapters,
		book.ChaptersRead, book.CoverURL, book.CreatedAt, book.UpdatedAt,
	); err != nil {
		return err
	}

	summaryQuery := `INSERT INTO ` + s.tables.ChapterSummaries + ` (
		book_id, chapter_number, summary, owner_id
	) VALUES ($1, $2, $3, $4)
	ON CONFLICT (book_id, chapter_number) DO NOTHING`

	for chapter := 1; chapter <= book.TotalChapters; chapter++ {
		summary := fmt.Sprintf("Chapter %d of %s: the plot advances.", chapter, book.Title)
		if _, err := s.pool.Exec(ctx, summaryQuery,
			book.ID, chapter, summary, book.OwnerID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *DemoSeeder) seedUsage(ctx context.Context, ownerID string) error {
	query := `INSERT INTO ` + s.tables.UsageEvents + ` (
		id, owner_id, feature, words, tokens, billable, reason, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING`

	events := []struct {
		feature  string
		words    int
		tokens   int
		billable bool
		reason   string
	}{
		{"book_generation", 4200, 6100, true, "chapter draft"},
		{"book_generation", 3800, 5500, true, "chapter draft"},
		{"summary_generation", 150, 400, false, "auto summary"},
	}

	now := time.Now()
	for i, e := range events {
		if _, err := s.pool.Exec(ctx, query,
			uuid.New().String(), ownerID, e.feature, e.words, e.tokens,
			e.billable, e.reason, now.Add(-time.Duration(i)*time.Hour),
		); err != nil {
			return err
		}
	}
	return nil
}

// demoBooks returns the fixed demo catalog. IDs are stable so reruns hit
// the ON CONFLICT guards instead of duplicating rows.
func demoBooks(ownerID string) []models.Book {
	now := time.Now()
	catalog := []struct {
		id       string
		title    string
		genre    string
		subgenre string
		chapters int
		content  string
	}{
		{
			id:       "aaaaaaaa-0000-0000-0000-000000000001",
			title:    "The Clockwork Harbor",
			genre:    "fantasy",
			subgenre: "steampunk",
			chapters: 3,
			content:  "# The Clockwork Harbor\n\nThe tide came in on brass gears that morning, and nobody in Port Vellum thought it strange.",
		},
		{
			id:       "aaaaaaaa-0000-0000-0000-000000000002",
			title:    "Letters from the Red Dust",
			genre:    "science fiction",
			subgenre: "colonization",
			chapters: 2,
			content:  "# Letters from the Red Dust\n\nDear Ana, the habitat printed its first window today and the light in here changed everything.",
		},
		{
			id:       "aaaaaaaa-0000-0000-0000-000000000003",
			title:    "A Quiet Inheritance",
			genre:    "mystery",
			subgenre: "cozy",
			chapters: 2,
			content:  "# A Quiet Inheritance\n\nThe will mentioned the lighthouse twice, which was once more than it mentioned her brother.",
		},
	}

	books := make([]models.Book, 0, len(catalog))
	for _, c := range catalog {
		books = append(books, models.Book{
			ID:            c.id,
			OwnerID:       ownerID,
			Title:         c.title,
			Genre:         c.genre,
			Subgenre:      c.subgenre,
			Description:   "Seeded demo book.",
			Content:       c.content,
			WordCount:     utils.CountWords(c.content),
			TotalChapters: c.chapters,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return books
}
