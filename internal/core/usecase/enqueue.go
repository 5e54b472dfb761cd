package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/core/ports"
)

// EnqueueReviewUseCase validates and publishes an asynchronous review task.
type EnqueueReviewUseCase struct {
	queue ports.MessageQueue
}

func NewEnqueueReviewUseCase(queue ports.MessageQueue) *EnqueueReviewUseCase {
	return &EnqueueReviewUseCase{queue: queue}
}

func (uc *EnqueueReviewUseCase) Enqueue(ctx context.Context, task domain.ReviewTask) error {
	if strings.TrimSpace(task.ContentID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "enqueue review", errors.New("content_id is required"))
	}
	if strings.TrimSpace(task.ContentType) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "enqueue review", errors.New("content_type is required"))
	}
	return uc.queue.PublishReviewRequested(ctx, task)
}
