package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// EndpointRepository is the configuration store for classification
// endpoints. The scheduler refreshes from it periodically.
type EndpointRepository struct {
	db *sql.DB
}

func NewEndpointRepository(db *sql.DB) *EndpointRepository {
	return &EndpointRepository{db: db}
}

func (r *EndpointRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082403)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS review_endpoints (
	name TEXT PRIMARY KEY,
	priority INTEGER NOT NULL DEFAULT 100,
	max_context_len INTEGER NOT NULL DEFAULT 8000,
	cooldown_seconds INTEGER NOT NULL DEFAULT 60,
	enabled BOOLEAN NOT NULL DEFAULT TRUE
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *EndpointRepository) ListEnabledEndpoints(ctx context.Context) ([]domain.Endpoint, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT name, priority, max_context_len, cooldown_seconds
FROM review_endpoints
WHERE enabled
ORDER BY priority ASC, name ASC
`)
	if err != nil {
		return nil, fmt.Errorf("select enabled endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []domain.Endpoint
	for rows.Next() {
		var endpoint domain.Endpoint
		var cooldownSeconds int
		if err := rows.Scan(&endpoint.Name, &endpoint.Priority, &endpoint.MaxContextLen, &cooldownSeconds); err != nil {
			return nil, fmt.Errorf("scan endpoint row: %w", err)
		}
		endpoint.Cooldown = time.Duration(cooldownSeconds) * time.Second
		endpoints = append(endpoints, endpoint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate endpoint rows: %w", err)
	}
	return endpoints, nil
}
