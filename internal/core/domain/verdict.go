package domain

import "time"

// VerdictTag is the normalized outcome of one classification call.
type VerdictTag string

const (
	VerdictApprove   VerdictTag = "approve"
	VerdictReject    VerdictTag = "reject"
	VerdictUncertain VerdictTag = "uncertain"
)

type ViolationType string

const (
	ViolationPorn     ViolationType = "porn"
	ViolationPolitics ViolationType = "politics"
	ViolationAbuse    ViolationType = "abuse"
	ViolationViolence ViolationType = "violence"
	ViolationSpam     ViolationType = "spam"
	ViolationIllegal  ViolationType = "illegal"
)

// violationOrder fixes the canonical ordering for aggregated violation sets.
var violationOrder = []ViolationType{
	ViolationPorn,
	ViolationPolitics,
	ViolationAbuse,
	ViolationViolence,
	ViolationSpam,
	ViolationIllegal,
}

// ParseViolationType maps a raw API value onto the closed enum.
func ParseViolationType(raw string) (ViolationType, bool) {
	v := ViolationType(raw)
	for _, known := range violationOrder {
		if v == known {
			return v, true
		}
	}
	return "", false
}

// SortViolations returns the set in canonical enum order, deduplicated.
func SortViolations(violations []ViolationType) []ViolationType {
	present := make(map[ViolationType]bool, len(violations))
	for _, v := range violations {
		present[v] = true
	}
	out := make([]ViolationType, 0, len(present))
	for _, v := range violationOrder {
		if present[v] {
			out = append(out, v)
		}
	}
	return out
}

// CallMeta records how a single classification attempt went.
type CallMeta struct {
	Endpoint         string        `json:"endpoint"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	Latency          time.Duration `json:"latency"`
	Success          bool          `json:"success"`
	Error            string        `json:"error,omitempty"`
}

// Verdict is the normalized result of classifying one piece of text.
type Verdict struct {
	Decision   VerdictTag      `json:"decision"`
	Confidence float64         `json:"confidence"`
	Violations []ViolationType `json:"violation_types"`
	Evidence   string          `json:"flagged_content,omitempty"`
	Meta       CallMeta        `json:"meta"`
}

// Normalize clamps confidence into [0,1] and drops unknown violation values.
func (v Verdict) Normalize() Verdict {
	out := v
	out.Confidence = ClampConfidence(v.Confidence)
	filtered := make([]ViolationType, 0, len(v.Violations))
	for _, raw := range v.Violations {
		if parsed, ok := ParseViolationType(string(raw)); ok {
			filtered = append(filtered, parsed)
		}
	}
	out.Violations = SortViolations(filtered)
	return out
}

func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// UncertainVerdict is the canonical fallback for any failed or malformed
// classification attempt. The run stays reviewable by a human.
func UncertainVerdict(meta CallMeta) Verdict {
	return Verdict{
		Decision:   VerdictUncertain,
		Confidence: 0.5,
		Violations: []ViolationType{},
		Meta:       meta,
	}
}

// BlankInputVerdict is returned for empty text without touching the API.
func BlankInputVerdict() Verdict {
	return Verdict{
		Decision:   VerdictApprove,
		Confidence: 0,
		Violations: []ViolationType{},
		Meta:       CallMeta{Success: true},
	}
}
