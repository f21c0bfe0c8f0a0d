package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
)

// PostgresChapterSummaryRepository implements the ChapterSummaryRepository interface
type PostgresChapterSummaryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChapterSummaryRepository creates a new PostgresChapterSummaryRepository
func NewChapterSummaryRepository(config *RepositoryConfig) repositories.ChapterSummaryRepository {
	return &PostgresChapterSummaryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const summaryColumns = `book_id, chapter_number, summary, owner_id, content_hash`

// summaryUpsertQuery upserts on the composite conflict key
// (book_id, chapter_number): at most one summary per chapter per owner.
func (r *PostgresChapterSummaryRepository) summaryUpsertQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (book_id, chapter_number) DO UPDATE SET
			summary = EXCLUDED.summary,
			owner_id = EXCLUDED.owner_id,
			content_hash = EXCLUDED.content_hash
	`, r.tables.ChapterSummaries, summaryColumns)
}

func scanSummary(rows pgx.Rows) (*models.ChapterSummary, error) {
	var s models.ChapterSummary
	err := rows.Scan(
		&s.BookID,
		&s.ChapterNumber,
		&s.Summary,
		&s.OwnerID,
		&s.ContentHash,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByOwner lists all chapter summaries belonging to an owner
func (r *PostgresChapterSummaryRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.ChapterSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY book_id, chapter_number
	`, summaryColumns, r.tables.ChapterSummaries)

	return r.list(ctx, query, ownerID)
}

// ListByBook lists the summaries of one book in chapter order
func (r *PostgresChapterSummaryRepository) ListByBook(ctx context.Context, bookID, ownerID string) ([]models.ChapterSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE book_id = $1 AND owner_id = $2
		ORDER BY chapter_number
	`, summaryColumns, r.tables.ChapterSummaries)

	return r.list(ctx, query, bookID, ownerID)
}

func (r *PostgresChapterSummaryRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.ChapterSummary, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chapter summaries: %w", err)
	}
	defer rows.Close()

	summaries := []models.ChapterSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter summary: %w", err)
		}
		summaries = append(summaries, *summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chapter summaries: %w", err)
	}

	return summaries, nil
}

// Upsert inserts or overwrites a single summary
func (r *PostgresChapterSummaryRepository) Upsert(ctx context.Context, summary *models.ChapterSummary) error {
	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, r.summaryUpsertQuery(),
		summary.BookID,
		summary.ChapterNumber,
		summary.Summary,
		summary.OwnerID,
		summary.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("upsert chapter summary: %w", err)
	}

	return nil
}

// BulkUpsert inserts or overwrites summaries keyed by
// (book_id, chapter_number) in one batched round trip.
func (r *PostgresChapterSummaryRepository) BulkUpsert(ctx context.Context, summaries []models.ChapterSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	query := r.summaryUpsertQuery()
	batch := &pgx.Batch{}
	for i := range summaries {
		s := &summaries[i]
		batch.Queue(query,
			s.BookID,
			s.ChapterNumber,
			s.Summary,
			s.OwnerID,
			s.ContentHash,
		)
	}

	executor := GetExecutor(ctx, r.pool)
	results := executor.SendBatch(ctx, batch)
	defer results.Close()

	for range summaries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("bulk upsert chapter summaries: %w", err)
		}
	}

	return nil
}
