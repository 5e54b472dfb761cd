package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// AuditRepository records one row per classification API attempt.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082402)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS classification_calls (
	id BIGSERIAL PRIMARY KEY,
	endpoint TEXT NOT NULL,
	content_hint TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms BIGINT NOT NULL DEFAULT 0,
	success BOOLEAN NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classification_calls_endpoint ON classification_calls(endpoint);
CREATE INDEX IF NOT EXISTS idx_classification_calls_created_at ON classification_calls(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AuditRepository) RecordCall(ctx context.Context, call domain.ClassificationCall) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO classification_calls (
	endpoint, content_hint, prompt_tokens, completion_tokens, latency_ms, success, error_message, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		call.Endpoint, string(call.Hint), call.PromptTokens, call.CompletionTokens,
		call.Latency.Milliseconds(), call.Success, call.Error, call.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert classification call: %w", err)
	}
	return nil
}
