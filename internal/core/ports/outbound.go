package ports

import (
	"context"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// ContentStore exposes the business entities owned by the main application.
type ContentStore interface {
	Get(ctx context.Context, id string) (*domain.Content, error)
	ListReviewableFiles(ctx context.Context, id string) ([]domain.ContentFile, error)
	ReadFileText(ctx context.Context, key string) (string, error)
}

// ReviewActionService applies the terminal moderation action.
type ReviewActionService interface {
	Approve(ctx context.Context, contentID, contentType string, actor domain.Actor) error
	Reject(ctx context.Context, contentID, contentType string, actor domain.Actor, reason string) error
}

// Notifier delivers best-effort outcome notifications to content owners.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// EndpointConfigStore lists the currently enabled classification endpoints.
type EndpointConfigStore interface {
	ListEnabledEndpoints(ctx context.Context) ([]domain.Endpoint, error)
}

// EndpointScheduler hands out endpoints, excluding those in cooldown.
type EndpointScheduler interface {
	Next(ctx context.Context) (domain.Endpoint, error)
	MarkRateLimited(name string)
	IsAvailable(name string) bool
}

// TextClassifier scores free text for policy violations. It never returns
// an error: every failure mode degrades to a normalized verdict.
type TextClassifier interface {
	Classify(ctx context.Context, text string, hint domain.ContentHint) domain.Verdict
}

// ReportRepository persists review reports append-only.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.ReviewReport) error
	GetByID(ctx context.Context, id string) (*domain.ReviewReport, error)
}

// AuditLogger records every classification attempt, successful or not.
type AuditLogger interface {
	RecordCall(ctx context.Context, call domain.ClassificationCall) error
}

// MessageQueue publishes/consumes review tasks.
type MessageQueue interface {
	PublishReviewRequested(ctx context.Context, task domain.ReviewTask) error
	SubscribeReviewRequested(ctx context.Context, handler func(context.Context, domain.ReviewTask) error) error
}
