package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEndpointRepositoryListEnabledEndpoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEndpointRepository(db)
	rows := sqlmock.NewRows([]string{"name", "priority", "max_context_len", "cooldown_seconds"}).
		AddRow("primary", 1, 16000, 30).
		AddRow("fallback", 2, 8000, 120)

	mock.ExpectQuery("FROM review_endpoints").
		WillReturnRows(rows)

	endpoints, err := repo.ListEnabledEndpoints(context.Background())
	if err != nil {
		t.Fatalf("ListEnabledEndpoints() error = %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(endpoints))
	}
	if endpoints[0].Name != "primary" || endpoints[0].Cooldown != 30*time.Second {
		t.Fatalf("unexpected first endpoint %+v", endpoints[0])
	}
	if endpoints[1].MaxContextLen != 8000 || endpoints[1].Cooldown != 2*time.Minute {
		t.Fatalf("unexpected second endpoint %+v", endpoints[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEndpointRepositoryEmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEndpointRepository(db)
	mock.ExpectQuery("FROM review_endpoints").
		WillReturnRows(sqlmock.NewRows([]string{"name", "priority", "max_context_len", "cooldown_seconds"}))

	endpoints, err := repo.ListEnabledEndpoints(context.Background())
	if err != nil {
		t.Fatalf("ListEnabledEndpoints() error = %v", err)
	}
	if len(endpoints) != 0 {
		t.Fatalf("expected no endpoints, got %d", len(endpoints))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
