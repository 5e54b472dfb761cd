package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/content-moderation/internal/bootstrap"
	"github.com/kirillkom/content-moderation/internal/config"
	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "worker")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	taskTimeout := time.Duration(cfg.ReviewTimeoutSeconds) * time.Second
	maxAttempts := cfg.ReviewMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeReviewRequested(ctx, func(handlerCtx context.Context, task domain.ReviewTask) error {
		return runReview(handlerCtx, app, task, taskTimeout, maxAttempts)
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

// runReview executes one task with bounded retries. Fatal content-state
// errors are not retried; only transient orchestration failures are.
func runReview(ctx context.Context, app *bootstrap.App, task domain.ReviewTask, timeout time.Duration, maxAttempts int) error {
	var lastErr error
	backoff := time.Second

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reviewCtx, cancel := context.WithTimeout(ctx, timeout)

		app.Metrics.StartReview()
		start := time.Now()
		report, err := app.ReviewUC.Execute(reviewCtx, task.ContentID, task.ContentType)
		app.Metrics.FinishReview("worker", report, time.Since(start), err)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if domain.IsKind(err, domain.ErrContentNotFound) ||
			domain.IsKind(err, domain.ErrContentNotPending) ||
			domain.IsKind(err, domain.ErrNoEndpoints) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		slog.Warn("review_retry",
			"content_id", task.ContentID,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}
