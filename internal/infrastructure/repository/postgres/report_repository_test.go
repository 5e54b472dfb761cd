package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

func TestReportRepositoryCreateInsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewReportRepository(db)
	report := &domain.ReviewReport{
		ID:          "r-1",
		ContentID:   "c-1",
		ContentName: "demo",
		ContentType: "article",
		Decision:    domain.DecisionAutoRejected,
		Confidence:  0.97,
		Violations:  []domain.ViolationType{domain.ViolationAbuse},
		Parts: []domain.ReportPart{
			{Name: "content", Type: domain.PartText, Decision: domain.VerdictReject, Confidence: 0.97},
		},
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO review_reports").
		WithArgs(
			report.ID, report.ContentID, report.ContentName, report.ContentType,
			string(report.Decision), report.Confidence,
			sqlmock.AnyArg(), sqlmock.AnyArg(), report.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReportRepositoryGetByIDRoundTrips(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewReportRepository(db)
	createdAt := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "content_id", "content_name", "content_type",
		"decision", "confidence", "violation_types", "parts", "created_at",
	}).AddRow(
		"r-1", "c-1", "demo", "article",
		"pending_manual", 0.7,
		[]byte(`["abuse","spam"]`),
		[]byte(`[{"part_name":"content","part_type":"text","decision":"uncertain","confidence":0.7,"violation_types":["abuse"]}]`),
		createdAt,
	)

	mock.ExpectQuery("FROM review_reports").
		WithArgs("r-1").
		WillReturnRows(rows)

	report, err := repo.GetByID(context.Background(), "r-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if report.Decision != domain.DecisionPendingManual {
		t.Fatalf("unexpected decision %s", report.Decision)
	}
	if len(report.Violations) != 2 || report.Violations[0] != domain.ViolationAbuse {
		t.Fatalf("unexpected violations %v", report.Violations)
	}
	if len(report.Parts) != 1 || report.Parts[0].Name != "content" {
		t.Fatalf("unexpected parts %+v", report.Parts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReportRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewReportRepository(db)
	mock.ExpectQuery("FROM review_reports").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "content_id", "content_name", "content_type",
			"decision", "confidence", "violation_types", "parts", "created_at",
		}))

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
