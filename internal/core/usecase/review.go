package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/core/ports"
)

// AutoReviewUseCase drives one full auto-review run: fetch content, fan out
// classification over text fields, files and segments, aggregate the partial
// verdicts, decide, apply the action and persist the report.
type AutoReviewUseCase struct {
	contents      ports.ContentStore
	executor      *FanOutExecutor
	actions       ports.ReviewActionService
	notifier      ports.Notifier
	reports       ports.ReportRepository
	clock         func() time.Time
	maxSegmentLen int
}

func NewAutoReviewUseCase(
	contents ports.ContentStore,
	executor *FanOutExecutor,
	actions ports.ReviewActionService,
	notifier ports.Notifier,
	reports ports.ReportRepository,
	clock func() time.Time,
	maxSegmentLen int,
) *AutoReviewUseCase {
	if clock == nil {
		clock = time.Now
	}
	if maxSegmentLen < 1 {
		maxSegmentLen = 100_000
	}
	return &AutoReviewUseCase{
		contents:      contents,
		executor:      executor,
		actions:       actions,
		notifier:      notifier,
		reports:       reports,
		clock:         clock,
		maxSegmentLen: maxSegmentLen,
	}
}

// Execute runs one review. It fails with a typed error only before any
// classification happens (missing or non-pending content); after that the
// run is fail-open and always produces a report.
func (uc *AutoReviewUseCase) Execute(ctx context.Context, contentID, contentType string) (*domain.ReviewReport, error) {
	content, err := uc.fetchPending(ctx, contentID)
	if err != nil {
		return nil, err
	}

	parts := uc.collectAndClassify(ctx, content, contentType)

	verdicts := make([]domain.Verdict, len(parts))
	for i, part := range parts {
		verdicts[i] = part.Verdict
	}
	outcome := Aggregate(verdicts)
	decision := Decide(outcome.Confidence)

	uc.applyDecision(ctx, content, contentType, decision, outcome)

	report := buildReport(content, contentType, decision, outcome, parts, uc.clock())
	if err := uc.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("persist review report: %w", err)
	}

	uc.notifyOwner(ctx, content, contentType, decision, outcome)

	slog.Info("review_completed",
		"content_id", content.ID,
		"content_type", contentType,
		"decision", string(decision),
		"confidence", outcome.Confidence,
		"parts", len(parts),
	)
	return report, nil
}

func (uc *AutoReviewUseCase) fetchPending(ctx context.Context, contentID string) (*domain.Content, error) {
	content, err := uc.contents.Get(ctx, contentID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrContentNotFound, "fetch content", err)
	}
	if !content.IsPending() {
		return nil, domain.WrapError(
			domain.ErrContentNotPending,
			"validate content state",
			fmt.Errorf("content %s has status %q", content.ID, content.Status),
		)
	}
	return content, nil
}

// collectAndClassify builds the ordered part list. Oversized units are
// segmented and reviewed immediately, producing one file-level record per
// unit; all remaining units go through a single fan-out batch. The returned
// list preserves submission order.
func (uc *AutoReviewUseCase) collectAndClassify(ctx context.Context, content *domain.Content, contentType string) []domain.PartialRecord {
	var parts []domain.PartialRecord
	var batch []domain.WorkUnit

	add := func(name string, partType domain.PartType, hint domain.ContentHint, text string) {
		if len(text) > uc.maxSegmentLen {
			parts = append(parts, uc.reviewSegmented(ctx, name, partType, hint, text))
			return
		}
		parts = append(parts, domain.PartialRecord{Name: name, Type: partType})
		batch = append(batch, domain.WorkUnit{
			Name:  name,
			Type:  partType,
			Hint:  hint,
			Text:  text,
			Index: len(parts) - 1,
		})
	}

	add("content", domain.PartText, domain.HintBody, joinTextFields(content))

	files, err := uc.contents.ListReviewableFiles(ctx, content.ID)
	if err != nil {
		// Classification must still complete; files are dropped, not fatal.
		slog.Error("list_reviewable_files_failed", "content_id", content.ID, "error", err)
		files = nil
	}
	for _, file := range files {
		text, err := uc.contents.ReadFileText(ctx, file.Key)
		if err != nil {
			slog.Warn("skip_unreadable_file", "content_id", content.ID, "file", file.Name, "error", err)
			continue
		}
		add(file.Name, domain.PartFile, domain.HintKnowledge, text)
	}

	records := uc.executor.RunAll(ctx, batch)
	for i, unit := range batch {
		parts[unit.Index] = records[i]
	}
	return parts
}

// reviewSegmented splits one oversized unit, reviews all segments
// concurrently, and folds the segment verdicts into a single file-level
// record before top-level aggregation.
func (uc *AutoReviewUseCase) reviewSegmented(ctx context.Context, name string, partType domain.PartType, hint domain.ContentHint, text string) domain.PartialRecord {
	segments := SplitSegments(text, uc.maxSegmentLen)
	units := make([]domain.WorkUnit, len(segments))
	for i, segment := range segments {
		units[i] = domain.WorkUnit{
			Name:  fmt.Sprintf("%s#segment-%d", name, segment.Index),
			Type:  domain.PartSegment,
			Hint:  hint,
			Text:  segment.Text,
			Index: i,
		}
	}

	segmentRecords := uc.executor.RunAll(ctx, units)
	verdicts := make([]domain.Verdict, len(segmentRecords))
	for i, record := range segmentRecords {
		verdicts[i] = record.Verdict
	}

	return domain.PartialRecord{
		Name:     name,
		Type:     partType,
		Verdict:  mergeVerdicts(verdicts),
		Segments: segmentRecords,
	}
}

// applyDecision triggers the external action for terminal decisions. A
// failed action is logged but does not change the decision recorded in the
// report: the report keeps what was intended.
func (uc *AutoReviewUseCase) applyDecision(ctx context.Context, content *domain.Content, contentType string, decision domain.Decision, outcome domain.AggregateOutcome) {
	actor := systemActor()
	var err error
	switch decision {
	case domain.DecisionAutoApproved:
		err = uc.actions.Approve(ctx, content.ID, contentType, actor)
	case domain.DecisionAutoRejected:
		err = uc.actions.Reject(ctx, content.ID, contentType, actor, rejectReason(outcome))
	default:
		return
	}
	if err != nil {
		slog.Error("review_action_failed",
			"content_id", content.ID,
			"decision", string(decision),
			"error", err,
		)
	}
}

func (uc *AutoReviewUseCase) notifyOwner(ctx context.Context, content *domain.Content, contentType string, decision domain.Decision, outcome domain.AggregateOutcome) {
	if decision != domain.DecisionAutoApproved && decision != domain.DecisionAutoRejected {
		return
	}
	err := uc.notifier.Notify(ctx, domain.Notification{
		OwnerID:     content.OwnerID,
		ContentName: content.Name,
		ContentType: contentType,
		Decision:    decision,
		Reason:      rejectReason(outcome),
	})
	if err != nil {
		slog.Warn("owner_notification_failed", "content_id", content.ID, "error", err)
	}
}

func joinTextFields(content *domain.Content) string {
	fields := make([]string, 0, 3)
	for _, field := range []string{content.Name, content.Description, content.Body} {
		if strings.TrimSpace(field) != "" {
			fields = append(fields, field)
		}
	}
	return strings.Join(fields, "\n")
}

func rejectReason(outcome domain.AggregateOutcome) string {
	if len(outcome.Violations) == 0 {
		return "automatic review: policy violation detected"
	}
	names := make([]string, len(outcome.Violations))
	for i, v := range outcome.Violations {
		names[i] = string(v)
	}
	return "automatic review: violations detected: " + strings.Join(names, ", ")
}

func systemActor() domain.Actor {
	return domain.Actor{
		ID:     "auto-review",
		Name:   "auto-review-bot",
		System: true,
	}
}
