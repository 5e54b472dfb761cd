// Package contentstore backs the narrow ContentStore/ReviewActionService
// interfaces with a postgres row per content item plus a local directory of
// attached files.
package contentstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// reviewableExts lists the plain-text-like file types eligible for review.
// Everything else is ignored.
var reviewableExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

const maxFileBytes = 8 << 20

type Store struct {
	db        *sql.DB
	filesRoot string
}

func New(db *sql.DB, filesRoot string) (*Store, error) {
	if filesRoot == "" {
		filesRoot = "./data/content-files"
	}
	if err := os.MkdirAll(filesRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create content files dir: %w", err)
	}
	return &Store{db: db, filesRoot: filesRoot}, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082404)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS contents (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contents_status ON contents(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Content, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, description, body, owner_id, status, created_at
FROM contents
WHERE id = $1
`, id)

	var content domain.Content
	var status string
	err := row.Scan(
		&content.ID, &content.Name, &content.Description, &content.Body,
		&content.OwnerID, &status, &content.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrContentNotFound, "fetch content", err)
		}
		return nil, fmt.Errorf("select content: %w", err)
	}
	content.Status = domain.ContentStatus(status)
	return &content, nil
}

// ListReviewableFiles enumerates the plain-text attachments of one content
// item. A missing directory means no attachments, not an error.
func (s *Store) ListReviewableFiles(_ context.Context, id string) ([]domain.ContentFile, error) {
	entries, err := os.ReadDir(filepath.Join(s.filesRoot, filepath.Base(id)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list content files: %w", err)
	}

	var files []domain.ContentFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !reviewableExts[ext] {
			continue
		}
		files = append(files, domain.ContentFile{
			Name: entry.Name(),
			Ext:  ext,
			Key:  filepath.Join(filepath.Base(id), entry.Name()),
		})
	}
	return files, nil
}

func (s *Store) ReadFileText(_ context.Context, key string) (string, error) {
	path := filepath.Join(s.filesRoot, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxFileBytes))
	if err != nil {
		return "", fmt.Errorf("read content file: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("file %s is not valid utf-8 text", key)
	}
	return string(raw), nil
}

// Approve flips the content row to approved on behalf of the given actor.
func (s *Store) Approve(ctx context.Context, contentID, contentType string, actor domain.Actor) error {
	return s.setStatus(ctx, contentID, contentType, domain.ContentApproved, actor, "")
}

// Reject flips the content row to rejected, recording the reason.
func (s *Store) Reject(ctx context.Context, contentID, contentType string, actor domain.Actor, reason string) error {
	return s.setStatus(ctx, contentID, contentType, domain.ContentRejected, actor, reason)
}

func (s *Store) setStatus(ctx context.Context, contentID, contentType string, status domain.ContentStatus, actor domain.Actor, reason string) error {
	result, err := s.db.ExecContext(ctx, `
UPDATE contents SET status = $2 WHERE id = $1
`, contentID, string(status))
	if err != nil {
		return fmt.Errorf("update content status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(
			domain.ErrContentNotFound,
			"apply review action",
			fmt.Errorf("content %s (%s) not found for actor %s, reason %q", contentID, contentType, actor.ID, reason),
		)
	}
	return nil
}
