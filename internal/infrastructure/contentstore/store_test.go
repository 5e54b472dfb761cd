package contentstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := New(db, t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store, mock
}

func writeFile(t *testing.T, store *Store, contentID, name string, data []byte) {
	t.Helper()
	dir := filepath.Join(store.filesRoot, contentID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestListReviewableFilesFiltersByExtension(t *testing.T) {
	store, _ := newTestStore(t)
	writeFile(t, store, "c-1", "notes.md", []byte("hello"))
	writeFile(t, store, "c-1", "data.json", []byte("{}"))
	writeFile(t, store, "c-1", "image.png", []byte{0x89, 0x50})
	writeFile(t, store, "c-1", "binary.exe", []byte{0x4d, 0x5a})

	files, err := store.ListReviewableFiles(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("ListReviewableFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 reviewable files, got %d: %+v", len(files), files)
	}
	for _, file := range files {
		if file.Ext != ".md" && file.Ext != ".json" {
			t.Fatalf("unexpected extension %q", file.Ext)
		}
	}
}

func TestListReviewableFilesMissingDirIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	files, err := store.ListReviewableFiles(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("missing dir must not error, got %v", err)
	}
	if files != nil {
		t.Fatalf("expected no files, got %+v", files)
	}
}

func TestReadFileTextRoundTrips(t *testing.T) {
	store, _ := newTestStore(t)
	writeFile(t, store, "c-1", "notes.md", []byte("first line\n\nsecond paragraph"))

	text, err := store.ReadFileText(context.Background(), filepath.Join("c-1", "notes.md"))
	if err != nil {
		t.Fatalf("ReadFileText() error = %v", err)
	}
	if text != "first line\n\nsecond paragraph" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestReadFileTextRejectsInvalidUTF8(t *testing.T) {
	store, _ := newTestStore(t)
	writeFile(t, store, "c-1", "junk.txt", []byte{0xff, 0xfe, 0xfd})

	_, err := store.ReadFileText(context.Background(), filepath.Join("c-1", "junk.txt"))
	if err == nil {
		t.Fatalf("expected error for invalid utf-8")
	}
}

func TestGetMapsMissingRowToNotFound(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectQuery("FROM contents").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "body", "owner_id", "status", "created_at",
		}))

	_, err := store.Get(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestApproveUpdatesStatus(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("UPDATE contents").
		WithArgs("c-1", string(domain.ContentApproved)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Approve(context.Background(), "c-1", "article", domain.Actor{ID: "auto-review", System: true})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRejectMissingContent(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("UPDATE contents").
		WithArgs("missing", string(domain.ContentRejected)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Reject(context.Background(), "missing", "article", domain.Actor{ID: "auto-review"}, "violations detected")
	if !domain.IsKind(err, domain.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
