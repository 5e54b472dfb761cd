package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/content-moderation/internal/config"
	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/core/ports"
	"github.com/kirillkom/content-moderation/internal/core/usecase"
	"github.com/kirillkom/content-moderation/internal/infrastructure/classifier"
	"github.com/kirillkom/content-moderation/internal/infrastructure/contentstore"
	"github.com/kirillkom/content-moderation/internal/infrastructure/notify"
	natsqueue "github.com/kirillkom/content-moderation/internal/infrastructure/queue/nats"
	"github.com/kirillkom/content-moderation/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/content-moderation/internal/infrastructure/resilience"
	"github.com/kirillkom/content-moderation/internal/infrastructure/scheduler"
	"github.com/kirillkom/content-moderation/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Service string

	Queue   *natsqueue.Queue
	Reports ports.ReportRepository
	Metrics *metrics.ReviewMetrics

	EnqueueUC ports.ReviewEnqueuer
	ReviewUC  ports.ReviewRunner

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	reports := postgres.NewReportRepository(db)
	if err := reports.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure report schema: %w", err)
	}
	audit := postgres.NewAuditRepository(db)
	if err := audit.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	endpoints := postgres.NewEndpointRepository(db)
	if err := endpoints.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure endpoint schema: %w", err)
	}

	contents, err := contentstore.New(db, cfg.ContentFilesPath)
	if err != nil {
		return nil, fmt.Errorf("init content store: %w", err)
	}
	if err := contents.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure content schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	reviewMetrics := metrics.NewReviewMetrics(service)

	registry := scheduler.NewRegistry(
		endpoints,
		time.Duration(cfg.EndpointRefreshSeconds)*time.Second,
		nil,
	)
	sched := &meteredScheduler{
		inner:   registry,
		metrics: reviewMetrics,
		service: service,
	}
	auditLogger := &meteredAuditLogger{
		repo:    audit,
		metrics: reviewMetrics,
		service: service,
	}

	classifierClient := classifier.New(
		cfg.ClassifierBaseURL,
		cfg.ClassifierAPIKey,
		time.Duration(cfg.ClassifierTimeoutSeconds)*time.Second,
		sched,
		auditLogger,
	)

	fanOut := usecase.NewFanOutExecutor(classifierClient, cfg.MaxWorkers)
	notifier := notify.NewLogNotifier()
	reviewUC := usecase.NewAutoReviewUseCase(
		contents,
		fanOut,
		contents,
		notifier,
		reports,
		nil,
		cfg.MaxSegmentLength,
	)
	enqueueUC := usecase.NewEnqueueReviewUseCase(queue)

	return &App{
		Config:  cfg,
		Service: service,

		Queue:   queue,
		Reports: reports,
		Metrics: reviewMetrics,

		EnqueueUC: enqueueUC,
		ReviewUC:  reviewUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// meteredScheduler mirrors cooldown marks onto the metrics registry.
type meteredScheduler struct {
	inner   *scheduler.Registry
	metrics *metrics.ReviewMetrics
	service string
}

func (s *meteredScheduler) Next(ctx context.Context) (domain.Endpoint, error) {
	return s.inner.Next(ctx)
}

func (s *meteredScheduler) MarkRateLimited(name string) {
	s.inner.MarkRateLimited(name)
	s.metrics.RecordCooldown(s.service, name)
}

func (s *meteredScheduler) IsAvailable(name string) bool {
	return s.inner.IsAvailable(name)
}

// meteredAuditLogger persists the audit row and mirrors it as metrics.
type meteredAuditLogger struct {
	repo    *postgres.AuditRepository
	metrics *metrics.ReviewMetrics
	service string
}

func (l *meteredAuditLogger) RecordCall(ctx context.Context, call domain.ClassificationCall) error {
	l.metrics.RecordCall(l.service, call)
	return l.repo.RecordCall(ctx, call)
}
