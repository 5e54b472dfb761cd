package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// buildReport assembles the immutable audit report for one run. Parts keep
// submission order; segmented files carry their segment records nested.
func buildReport(
	content *domain.Content,
	contentType string,
	decision domain.Decision,
	outcome domain.AggregateOutcome,
	parts []domain.PartialRecord,
	now time.Time,
) *domain.ReviewReport {
	reportParts := make([]domain.ReportPart, len(parts))
	for i, part := range parts {
		reportParts[i] = toReportPart(part)
	}
	return &domain.ReviewReport{
		ID:          uuid.NewString(),
		ContentID:   content.ID,
		ContentName: content.Name,
		ContentType: contentType,
		Decision:    decision,
		Confidence:  outcome.Confidence,
		Violations:  outcome.Violations,
		Parts:       reportParts,
		CreatedAt:   now.UTC(),
	}
}

func toReportPart(record domain.PartialRecord) domain.ReportPart {
	part := domain.ReportPart{
		Name:       record.Name,
		Type:       record.Type,
		Decision:   record.Verdict.Decision,
		Confidence: record.Verdict.Confidence,
		Violations: record.Verdict.Violations,
		Evidence:   record.Verdict.Evidence,
	}
	if part.Violations == nil {
		part.Violations = []domain.ViolationType{}
	}
	for _, segment := range record.Segments {
		part.Segments = append(part.Segments, toReportPart(segment))
	}
	return part
}
