package config

import "testing"

func TestLoadReviewDefaults(t *testing.T) {
	t.Setenv("MAX_SEGMENT_LENGTH", "")
	t.Setenv("REVIEW_MAX_WORKERS", "")
	t.Setenv("ENDPOINT_REFRESH_SECONDS", "")
	t.Setenv("CLASSIFIER_TIMEOUT_SECONDS", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.MaxSegmentLength != 100_000 {
		t.Fatalf("expected default segment length 100000, got %d", cfg.MaxSegmentLength)
	}
	if cfg.MaxWorkers != 5 {
		t.Fatalf("expected default worker cap 5, got %d", cfg.MaxWorkers)
	}
	if cfg.EndpointRefreshSeconds != 60 {
		t.Fatalf("expected default refresh 60s, got %d", cfg.EndpointRefreshSeconds)
	}
	if cfg.ClassifierTimeoutSeconds != 120 {
		t.Fatalf("expected default classifier timeout 120s, got %d", cfg.ClassifierTimeoutSeconds)
	}
	if cfg.NATSSubject != "reviews.requested" {
		t.Fatalf("expected default subject reviews.requested, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("MAX_SEGMENT_LENGTH", "50000")
	t.Setenv("REVIEW_MAX_WORKERS", "8")
	t.Setenv("CLASSIFIER_URL", "http://classifier.internal:8300")
	t.Setenv("REVIEW_MAX_ATTEMPTS", "5")

	cfg := Load()
	if cfg.MaxSegmentLength != 50_000 {
		t.Fatalf("expected segment length override, got %d", cfg.MaxSegmentLength)
	}
	if cfg.MaxWorkers != 8 {
		t.Fatalf("expected worker cap override, got %d", cfg.MaxWorkers)
	}
	if cfg.ClassifierBaseURL != "http://classifier.internal:8300" {
		t.Fatalf("expected classifier url override, got %q", cfg.ClassifierBaseURL)
	}
	if cfg.ReviewMaxAttempts != 5 {
		t.Fatalf("expected max attempts override, got %d", cfg.ReviewMaxAttempts)
	}
}

func TestLoadFallsBackOnMalformedInt(t *testing.T) {
	t.Setenv("REVIEW_MAX_WORKERS", "not-a-number")

	cfg := Load()
	if cfg.MaxWorkers != 5 {
		t.Fatalf("malformed int must fall back to default, got %d", cfg.MaxWorkers)
	}
}
