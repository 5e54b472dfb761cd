package usecase

import (
	"strings"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

// Aggregate merges verdicts into one outcome: max confidence, union of
// violation types in canonical enum order, and deduplicated concatenation
// of non-empty evidence. Confidence and violations are invariant under
// permutation of the input.
func Aggregate(verdicts []domain.Verdict) domain.AggregateOutcome {
	outcome := domain.AggregateOutcome{
		Violations: []domain.ViolationType{},
	}
	if len(verdicts) == 0 {
		return outcome
	}

	var violations []domain.ViolationType
	seenEvidence := make(map[string]bool)
	var evidence []string

	for _, v := range verdicts {
		if v.Confidence > outcome.Confidence {
			outcome.Confidence = v.Confidence
		}
		violations = append(violations, v.Violations...)
		if v.Evidence != "" && !seenEvidence[v.Evidence] {
			seenEvidence[v.Evidence] = true
			evidence = append(evidence, v.Evidence)
		}
	}

	outcome.Violations = domain.SortViolations(violations)
	outcome.Evidence = strings.Join(evidence, "\n")
	return outcome
}

// mergeVerdicts folds segment verdicts into one file-level verdict. The tag
// is the most severe one seen; call metadata is dropped since the merged
// verdict does not correspond to a single API attempt.
func mergeVerdicts(verdicts []domain.Verdict) domain.Verdict {
	agg := Aggregate(verdicts)
	merged := domain.Verdict{
		Decision:   domain.VerdictApprove,
		Confidence: agg.Confidence,
		Violations: agg.Violations,
		Evidence:   agg.Evidence,
	}
	for _, v := range verdicts {
		if v.Decision == domain.VerdictReject {
			merged.Decision = domain.VerdictReject
			break
		}
		if v.Decision == domain.VerdictUncertain {
			merged.Decision = domain.VerdictUncertain
		}
	}
	return merged
}
