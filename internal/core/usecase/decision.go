package usecase

import "github.com/kirillkom/content-moderation/internal/core/domain"

// Decision thresholds. Both bounds are strict: confidence of exactly
// approveBelow or rejectAbove routes to manual review.
const (
	approveBelow = 0.5
	rejectAbove  = 0.95
)

// Decide maps aggregate confidence to the terminal decision.
func Decide(confidence float64) domain.Decision {
	switch {
	case confidence < approveBelow:
		return domain.DecisionAutoApproved
	case confidence > rejectAbove:
		return domain.DecisionAutoRejected
	default:
		return domain.DecisionPendingManual
	}
}
