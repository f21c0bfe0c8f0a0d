package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
)

// PostgresBackupAuditRepository implements the BackupAuditRepository interface
type PostgresBackupAuditRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewBackupAuditRepository creates a new PostgresBackupAuditRepository
func NewBackupAuditRepository(config *RepositoryConfig) repositories.BackupAuditRepository {
	return &PostgresBackupAuditRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Insert records one audit entry
func (r *PostgresBackupAuditRepository) Insert(ctx context.Context, entry *models.BackupAuditEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, total_books, total_chapters, total_words, backup_size_mb, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.BackupAudit)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.TotalBooks,
		entry.TotalChapters,
		entry.TotalWords,
		entry.BackupSizeMB,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert backup audit entry: %w", err)
	}

	return nil
}

// ListByOwner returns an owner's audit entries, newest first
func (r *PostgresBackupAuditRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.BackupAuditEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, total_books, total_chapters, total_words, backup_size_mb, created_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.BackupAudit)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list backup audit entries: %w", err)
	}
	defer rows.Close()

	entries := []models.BackupAuditEntry{}
	for rows.Next() {
		var e models.BackupAuditEntry
		err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.TotalBooks,
			&e.TotalChapters,
			&e.TotalWords,
			&e.BackupSizeMB,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan backup audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list backup audit entries: %w", err)
	}

	return entries, nil
}
