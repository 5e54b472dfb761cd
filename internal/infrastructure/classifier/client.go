package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/core/ports"
)

const (
	classifyPath       = "/v1/classifications"
	requestTemperature = 0.1
	requestMaxTokens   = 500
	defaultHTTPTimeout = 120 * time.Second
)

// Client calls the external classification API through the endpoint
// scheduler. Recovery is asymmetric on purpose: HTTP 429 is the only
// condition that rotates to another endpoint; every other failure mode
// degrades to the canonical uncertain verdict right away.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	scheduler  ports.EndpointScheduler
	audit      ports.AuditLogger
	clock      func() time.Time
}

func New(baseURL, apiKey string, timeout time.Duration, scheduler ports.EndpointScheduler, audit ports.AuditLogger) *Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		scheduler:  scheduler,
		audit:      audit,
		clock:      time.Now,
	}
}

type apiRequest struct {
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	UserMessage  string  `json:"user_message"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

type apiResponse struct {
	Decision       string   `json:"decision"`
	Confidence     float64  `json:"confidence"`
	ViolationTypes []string `json:"violation_types"`
	FlaggedContent string   `json:"flagged_content"`
}

// Classify scores text for policy violations. It never returns an error:
// blank input short-circuits to approve, any failure degrades to the
// canonical uncertain verdict.
func (c *Client) Classify(ctx context.Context, text string, hint domain.ContentHint) domain.Verdict {
	if strings.TrimSpace(text) == "" {
		return domain.BlankInputVerdict()
	}

	tried := make(map[string]bool)
	for {
		endpoint, err := c.scheduler.Next(ctx)
		if err != nil {
			slog.Error("classify_no_endpoints", "error", err)
			return domain.UncertainVerdict(domain.CallMeta{Error: err.Error()})
		}
		if tried[endpoint.Name] {
			slog.Warn("classify_endpoints_exhausted", "tried", len(tried))
			return domain.UncertainVerdict(domain.CallMeta{Error: "all endpoints rate limited"})
		}
		tried[endpoint.Name] = true

		verdict, err := c.attempt(ctx, endpoint, text, hint)
		if err != nil {
			c.scheduler.MarkRateLimited(endpoint.Name)
			slog.Warn("classify_rate_limited", "endpoint", endpoint.Name)
			continue
		}
		return verdict
	}
}

// attempt performs one API call against one endpoint. The returned error is
// non-nil only for the rate-limit case; all other failures are already
// converted to the canonical uncertain verdict.
func (c *Client) attempt(ctx context.Context, endpoint domain.Endpoint, text string, hint domain.ContentHint) (domain.Verdict, error) {
	request := apiRequest{
		Model:        endpoint.Name,
		SystemPrompt: systemPromptFor(hint),
		UserMessage:  userMessageFor(endpoint, text),
		Temperature:  requestTemperature,
		MaxTokens:    requestMaxTokens,
	}

	start := c.clock()
	var response apiResponse
	err := c.postJSON(ctx, classifyPath, request, &response, "classify")
	meta := domain.CallMeta{
		Endpoint:     endpoint.Name,
		PromptTokens: estimateTokens(request.SystemPrompt) + estimateTokens(request.UserMessage),
		Latency:      c.clock().Sub(start),
	}

	if err != nil {
		meta.Error = err.Error()
		c.recordCall(ctx, meta, hint)

		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
			return domain.Verdict{}, domain.WrapError(domain.ErrRateLimited, "classify", err)
		}
		return domain.UncertainVerdict(meta), nil
	}

	verdict, parseErr := parseVerdict(response)
	if parseErr != nil {
		meta.Error = parseErr.Error()
		c.recordCall(ctx, meta, hint)
		return domain.UncertainVerdict(meta), nil
	}

	meta.Success = true
	meta.CompletionTokens = estimateTokens(response.FlaggedContent) + 16
	verdict.Meta = meta
	c.recordCall(ctx, meta, hint)
	return verdict, nil
}

func parseVerdict(response apiResponse) (domain.Verdict, error) {
	var tag domain.VerdictTag
	switch response.Decision {
	case "true":
		tag = domain.VerdictReject
	case "false":
		tag = domain.VerdictApprove
	case "unknown":
		tag = domain.VerdictUncertain
	default:
		return domain.Verdict{}, domain.WrapError(
			domain.ErrMalformedResponse,
			"parse verdict",
			fmt.Errorf("unexpected decision value %q", response.Decision),
		)
	}

	violations := make([]domain.ViolationType, 0, len(response.ViolationTypes))
	for _, raw := range response.ViolationTypes {
		violations = append(violations, domain.ViolationType(raw))
	}

	verdict := domain.Verdict{
		Decision:   tag,
		Confidence: response.Confidence,
		Violations: violations,
		Evidence:   response.FlaggedContent,
	}
	return verdict.Normalize(), nil
}

// recordCall writes the audit entry for one attempt. Auditing is a side
// effect: it never raises and never blocks the classification result.
func (c *Client) recordCall(ctx context.Context, meta domain.CallMeta, hint domain.ContentHint) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("audit_record_panic", "endpoint", meta.Endpoint, "panic", r)
		}
	}()

	call := domain.ClassificationCall{
		Endpoint:         meta.Endpoint,
		Hint:             hint,
		PromptTokens:     meta.PromptTokens,
		CompletionTokens: meta.CompletionTokens,
		Latency:          meta.Latency,
		Success:          meta.Success,
		Error:            meta.Error,
		CreatedAt:        c.clock().UTC(),
	}
	if err := c.audit.RecordCall(ctx, call); err != nil {
		slog.Warn("audit_record_failed", "endpoint", meta.Endpoint, "error", err)
	}
}

// estimateTokens approximates token usage for audit purposes only.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(text)/4 + 1
}
