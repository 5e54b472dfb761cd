package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// ReviewMetrics instruments the worker side: review runs and classification
// API attempts.
type ReviewMetrics struct {
	registry *prometheus.Registry

	reviewsTotal     *prometheus.CounterVec
	reviewDuration   *prometheus.HistogramVec
	reviewsInFlight  prometheus.Gauge
	callsTotal       *prometheus.CounterVec
	callLatency      *prometheus.HistogramVec
	cooldownsTotal   *prometheus.CounterVec
	reportPartsCount *prometheus.HistogramVec
}

func NewReviewMetrics(service string) *ReviewMetrics {
	registry := prometheus.NewRegistry()

	reviewsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modreview",
			Subsystem: "worker",
			Name:      "reviews_total",
			Help:      "Completed review runs by decision.",
		},
		[]string{"service", "decision"},
	)
	reviewDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modreview",
			Subsystem: "worker",
			Name:      "review_duration_seconds",
			Help:      "Review run duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	reviewsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modreview",
			Subsystem: "worker",
			Name:      "reviews_in_flight",
			Help:      "Number of review runs currently executing.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	callsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modreview",
			Subsystem: "classifier",
			Name:      "calls_total",
			Help:      "Classification API attempts by endpoint and outcome.",
		},
		[]string{"service", "endpoint", "outcome"},
	)
	callLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modreview",
			Subsystem: "classifier",
			Name:      "call_latency_seconds",
			Help:      "Classification API call latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	cooldownsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modreview",
			Subsystem: "classifier",
			Name:      "cooldowns_total",
			Help:      "Rate-limit cooldown marks by endpoint.",
		},
		[]string{"service", "endpoint"},
	)
	reportPartsCount := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modreview",
			Subsystem: "worker",
			Name:      "report_parts",
			Help:      "Distribution of part counts per review report.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		reviewsTotal,
		reviewDuration,
		reviewsInFlight,
		callsTotal,
		callLatency,
		cooldownsTotal,
		reportPartsCount,
	)

	return &ReviewMetrics{
		registry:         registry,
		reviewsTotal:     reviewsTotal,
		reviewDuration:   reviewDuration,
		reviewsInFlight:  reviewsInFlight,
		callsTotal:       callsTotal,
		callLatency:      callLatency,
		cooldownsTotal:   cooldownsTotal,
		reportPartsCount: reportPartsCount,
	}
}

func (m *ReviewMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ReviewMetrics) StartReview() {
	m.reviewsInFlight.Inc()
}

func (m *ReviewMetrics) FinishReview(service string, report *domain.ReviewReport, duration time.Duration, err error) {
	m.reviewsInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.reviewDuration.WithLabelValues(service, status).Observe(duration.Seconds())

	if report == nil {
		return
	}
	m.reviewsTotal.WithLabelValues(service, string(report.Decision)).Inc()
	m.reportPartsCount.WithLabelValues(service).Observe(float64(len(report.Parts)))
}

// RecordCall mirrors one audit-log entry onto the metrics registry.
func (m *ReviewMetrics) RecordCall(service string, call domain.ClassificationCall) {
	outcome := "success"
	if !call.Success {
		outcome = "failure"
	}
	endpoint := call.Endpoint
	if endpoint == "" {
		endpoint = "none"
	}
	m.callsTotal.WithLabelValues(service, endpoint, outcome).Inc()
	m.callLatency.WithLabelValues(service, endpoint).Observe(call.Latency.Seconds())
}

func (m *ReviewMetrics) RecordCooldown(service, endpoint string) {
	m.cooldownsTotal.WithLabelValues(service, endpoint).Inc()
}
