package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/repositories"
)

// PostgresUsageEventRepository implements the UsageEventRepository interface.
// The usage ledger is append-only; no update or delete is exposed.
type PostgresUsageEventRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUsageEventRepository creates a new PostgresUsageEventRepository
func NewUsageEventRepository(config *RepositoryConfig) repositories.UsageEventRepository {
	return &PostgresUsageEventRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListRecent returns up to limit events for an owner, newest first
func (r *PostgresUsageEventRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.UsageEvent, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, feature, words, tokens, billable, reason, created_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.UsageEvents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage events: %w", err)
	}
	defer rows.Close()

	events := []models.UsageEvent{}
	for rows.Next() {
		var e models.UsageEvent
		err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Feature,
			&e.Words,
			&e.Tokens,
			&e.Billable,
			&e.Reason,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan usage event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list usage events: %w", err)
	}

	return events, nil
}

// Insert appends one ledger entry
func (r *PostgresUsageEventRepository) Insert(ctx context.Context, event *models.UsageEvent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, feature, words, tokens, billable, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.UsageEvents)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		event.ID,
		event.OwnerID,
		event.Feature,
		event.Words,
		event.Tokens,
		event.Billable,
		event.Reason,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert usage event: %w", err)
	}

	return nil
}
