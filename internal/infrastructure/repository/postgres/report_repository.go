package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// ReportRepository persists review reports. The table is append-only: a
// re-review of the same content inserts a new row, existing rows are never
// updated.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082401)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS review_reports (
	id TEXT PRIMARY KEY,
	content_id TEXT NOT NULL,
	content_name TEXT NOT NULL,
	content_type TEXT NOT NULL,
	decision TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	violation_types JSONB NOT NULL DEFAULT '[]'::jsonb,
	parts JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_reports_content_id ON review_reports(content_id);
CREATE INDEX IF NOT EXISTS idx_review_reports_created_at ON review_reports(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.ReviewReport) error {
	violationsJSON, err := json.Marshal(report.Violations)
	if err != nil {
		return fmt.Errorf("marshal violation types: %w", err)
	}
	partsJSON, err := json.Marshal(report.Parts)
	if err != nil {
		return fmt.Errorf("marshal report parts: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO review_reports (
	id, content_id, content_name, content_type, decision, confidence, violation_types, parts, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		report.ID, report.ContentID, report.ContentName, report.ContentType,
		string(report.Decision), report.Confidence, violationsJSON, partsJSON, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.ReviewReport, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, content_id, content_name, content_type, decision, confidence, violation_types, parts, created_at
FROM review_reports
WHERE id = $1
`, id)

	var report domain.ReviewReport
	var decision string
	var violationsRaw, partsRaw []byte

	err := row.Scan(
		&report.ID, &report.ContentID, &report.ContentName, &report.ContentType,
		&decision, &report.Confidence, &violationsRaw, &partsRaw, &report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrReportNotFound, "fetch report", err)
		}
		return nil, fmt.Errorf("select review report: %w", err)
	}

	report.Decision = domain.Decision(decision)
	if err := json.Unmarshal(violationsRaw, &report.Violations); err != nil {
		return nil, fmt.Errorf("unmarshal violation types: %w", err)
	}
	if err := json.Unmarshal(partsRaw, &report.Parts); err != nil {
		return nil, fmt.Errorf("unmarshal report parts: %w", err)
	}
	return &report, nil
}
