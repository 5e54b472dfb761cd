package ports

import (
	"context"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// ReviewRunner is the inbound contract for executing one auto-review run.
type ReviewRunner interface {
	Execute(ctx context.Context, contentID, contentType string) (*domain.ReviewReport, error)
}

// ReviewEnqueuer is the inbound contract for requesting an asynchronous review.
type ReviewEnqueuer interface {
	Enqueue(ctx context.Context, task domain.ReviewTask) error
}
