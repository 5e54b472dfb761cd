package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

type enqueuerFake struct {
	tasks []domain.ReviewTask
	err   error
}

func (f *enqueuerFake) Enqueue(_ context.Context, task domain.ReviewTask) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}

type reportStoreFake struct {
	report *domain.ReviewReport
	err    error
}

func (f *reportStoreFake) Create(context.Context, *domain.ReviewReport) error { return nil }

func (f *reportStoreFake) GetByID(context.Context, string) (*domain.ReviewReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func TestHealthz(t *testing.T) {
	router := NewRouter(&enqueuerFake{}, &reportStoreFake{})

	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header must be set")
	}
}

func TestEnqueueReviewAccepted(t *testing.T) {
	enqueuer := &enqueuerFake{}
	router := NewRouter(enqueuer, &reportStoreFake{})

	body := strings.NewReader(`{"content_id":"c-1","content_type":"article"}`)
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reviews", body))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(enqueuer.tasks) != 1 || enqueuer.tasks[0].ContentID != "c-1" {
		t.Fatalf("task not enqueued: %+v", enqueuer.tasks)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "queued" {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestEnqueueReviewValidation(t *testing.T) {
	enqueuer := &enqueuerFake{err: domain.WrapError(
		domain.ErrInvalidInput, "enqueue review", errors.New("content_id is required"),
	)}
	router := NewRouter(enqueuer, &reportStoreFake{})

	body := strings.NewReader(`{"content_type":"article"}`)
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reviews", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEnqueueReviewRejectsInvalidJSON(t *testing.T) {
	router := NewRouter(&enqueuerFake{}, &reportStoreFake{})

	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reviews", strings.NewReader("{")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEnqueueReviewMethodNotAllowed(t *testing.T) {
	router := NewRouter(&enqueuerFake{}, &reportStoreFake{})

	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reviews", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestGetReportByID(t *testing.T) {
	reports := &reportStoreFake{report: &domain.ReviewReport{
		ID:       "r-1",
		Decision: domain.DecisionPendingManual,
	}}
	router := NewRouter(&enqueuerFake{}, reports)

	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reviews/r-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report domain.ReviewReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.ID != "r-1" || report.Decision != domain.DecisionPendingManual {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestGetReportByIDNotFound(t *testing.T) {
	reports := &reportStoreFake{err: domain.WrapError(
		domain.ErrReportNotFound, "fetch report", errors.New("no rows"),
	)}
	router := NewRouter(&enqueuerFake{}, reports)

	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reviews/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
