package domain

import "testing"

func TestNormalizeClampsAndFilters(t *testing.T) {
	verdict := Verdict{
		Decision:   VerdictReject,
		Confidence: 1.7,
		Violations: []ViolationType{"spam", "nonsense", "abuse", "spam"},
	}

	normalized := verdict.Normalize()
	if normalized.Confidence != 1 {
		t.Fatalf("confidence must clamp to 1, got %f", normalized.Confidence)
	}
	want := []ViolationType{ViolationAbuse, ViolationSpam}
	if len(normalized.Violations) != len(want) {
		t.Fatalf("expected %v, got %v", want, normalized.Violations)
	}
	for i, v := range want {
		if normalized.Violations[i] != v {
			t.Fatalf("expected %v, got %v", want, normalized.Violations)
		}
	}

	negative := Verdict{Confidence: -0.3}.Normalize()
	if negative.Confidence != 0 {
		t.Fatalf("confidence must clamp to 0, got %f", negative.Confidence)
	}
}

func TestSortViolationsCanonicalOrder(t *testing.T) {
	sorted := SortViolations([]ViolationType{
		ViolationIllegal, ViolationSpam, ViolationPorn, ViolationSpam,
	})
	want := []ViolationType{ViolationPorn, ViolationSpam, ViolationIllegal}
	if len(sorted) != len(want) {
		t.Fatalf("expected %v, got %v", want, sorted)
	}
	for i, v := range want {
		if sorted[i] != v {
			t.Fatalf("expected %v, got %v", want, sorted)
		}
	}
}

func TestParseViolationType(t *testing.T) {
	if _, ok := ParseViolationType("politics"); !ok {
		t.Fatalf("politics must parse")
	}
	if _, ok := ParseViolationType("jaywalking"); ok {
		t.Fatalf("unknown values must not parse")
	}
}

func TestUncertainVerdictShape(t *testing.T) {
	verdict := UncertainVerdict(CallMeta{Error: "timeout"})
	if verdict.Decision != VerdictUncertain || verdict.Confidence != 0.5 {
		t.Fatalf("unexpected canonical uncertain verdict %+v", verdict)
	}
	if len(verdict.Violations) != 0 {
		t.Fatalf("uncertain verdict carries no violations, got %v", verdict.Violations)
	}
	if verdict.Meta.Success {
		t.Fatalf("uncertain verdict must not report success")
	}
}

func TestBlankInputVerdictShape(t *testing.T) {
	verdict := BlankInputVerdict()
	if verdict.Decision != VerdictApprove || verdict.Confidence != 0 {
		t.Fatalf("unexpected blank input verdict %+v", verdict)
	}
	if !verdict.Meta.Success {
		t.Fatalf("blank input counts as a successful (skipped) classification")
	}
}
