package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookforge/internal/domain"
	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
)

// PostgresBookRepository implements the BookRepository interface
type PostgresBookRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewBookRepository creates a new PostgresBookRepository
func NewBookRepository(config *RepositoryConfig) repositories.BookRepository {
	return &PostgresBookRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const bookColumns = `id, owner_id, title, genre, subgenre, description, content,
		word_count, total_chapters, chapters_read, cover_url, created_at, updated_at`

func scanBook(row pgx.Row) (*models.Book, error) {
	var b models.Book
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Title,
		&b.Genre,
		&b.Subgenre,
		&b.Description,
		&b.Content,
		&b.WordCount,
		&b.TotalChapters,
		&b.ChaptersRead,
		&b.CoverURL,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create creates a new book
func (r *PostgresBookRepository) Create(ctx context.Context, book *models.Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.Books, bookColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		book.ID,
		book.OwnerID,
		book.Title,
		book.Genre,
		book.Subgenre,
		book.Description,
		book.Content,
		book.WordCount,
		book.TotalChapters,
		book.ChaptersRead,
		book.CoverURL,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("book %s already exists", book.ID),
				ResourceType: "book",
				ResourceID:   book.ID,
			}
		}
		return fmt.Errorf("create book: %w", err)
	}

	return nil
}

// GetByID retrieves a book by ID, scoped to its owner
func (r *PostgresBookRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, bookColumns, r.tables.Books)

	executor := GetExecutor(ctx, r.pool)
	book, err := scanBook(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

// ListByOwner lists all books belonging to an owner, newest first
func (r *PostgresBookRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, bookColumns, r.tables.Books)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// Update updates an existing book
func (r *PostgresBookRepository) Update(ctx context.Context, book *models.Book) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			title = $3,
			genre = $4,
			subgenre = $5,
			description = $6,
			content = $7,
			word_count = $8,
			total_chapters = $9,
			chapters_read = $10,
			cover_url = $11,
			updated_at = $12
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Books)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		book.ID,
		book.OwnerID,
		book.Title,
		book.Genre,
		book.Subgenre,
		book.Description,
		book.Content,
		book.WordCount,
		book.TotalChapters,
		book.ChaptersRead,
		book.CoverURL,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", book.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a book
func (r *PostgresBookRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Books)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// BulkUpsert inserts or overwrites books keyed by id. The whole batch is sent
// in one round trip and executed inside a single implicit transaction, so it
// either fully succeeds or fully fails.
func (r *PostgresBookRepository) BulkUpsert(ctx context.Context, books []models.Book) error {
	if len(books) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			title = EXCLUDED.title,
			genre = EXCLUDED.genre,
			subgenre = EXCLUDED.subgenre,
			description = EXCLUDED.description,
			content = EXCLUDED.content,
			word_count = EXCLUDED.word_count,
			total_chapters = EXCLUDED.total_chapters,
			chapters_read = EXCLUDED.chapters_read,
			cover_url = EXCLUDED.cover_url,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`, r.tables.Books, bookColumns)

	batch := &pgx.Batch{}
	for i := range books {
		b := &books[i]
		batch.Queue(query,
			b.ID,
			b.OwnerID,
			b.Title,
			b.Genre,
			b.Subgenre,
			b.Description,
			b.Content,
			b.WordCount,
			b.TotalChapters,
			b.ChaptersRead,
			b.CoverURL,
			b.CreatedAt,
			b.UpdatedAt,
		)
	}

	executor := GetExecutor(ctx, r.pool)
	results := executor.SendBatch(ctx, batch)
	defer results.Close()

	for range books {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("bulk upsert books: %w", err)
		}
	}

	return nil
}
