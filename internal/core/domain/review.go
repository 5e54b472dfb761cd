package domain

import "time"

// ContentHint selects the system prompt variant for a classification call.
type ContentHint string

const (
	HintComment   ContentHint = "comment"
	HintArticle   ContentHint = "article"
	HintTitle     ContentHint = "title"
	HintBody      ContentHint = "body"
	HintKnowledge ContentHint = "knowledge"
	HintPersona   ContentHint = "persona"
)

// PartType distinguishes what a review part was produced from.
type PartType string

const (
	PartText    PartType = "text"
	PartFile    PartType = "file"
	PartSegment PartType = "segment"
)

// Decision is the final three-way outcome of one review run.
type Decision string

const (
	DecisionAutoApproved  Decision = "auto_approved"
	DecisionAutoRejected  Decision = "auto_rejected"
	DecisionPendingManual Decision = "pending_manual"
)

// Segment is a bounded slice of oversized text. Segments concatenated in
// index order reconstruct the original text byte-for-byte.
type Segment struct {
	Index   int    `json:"index"`
	Text    string `json:"-"`
	Preview string `json:"preview"`
}

// WorkUnit is one named piece of text submitted for classification.
type WorkUnit struct {
	Name  string
	Type  PartType
	Hint  ContentHint
	Text  string
	Index int
}

// PartialRecord associates a unit of work with its verdict. For a segmented
// file the record carries one child record per segment.
type PartialRecord struct {
	Name     string          `json:"part_name"`
	Type     PartType        `json:"part_type"`
	Verdict  Verdict         `json:"-"`
	Segments []PartialRecord `json:"segments,omitempty"`
}

// AggregateOutcome merges all verdicts belonging to one review run.
type AggregateOutcome struct {
	Confidence float64
	Violations []ViolationType
	Evidence   string
}

// ReviewReport is the immutable audit record of one orchestration run.
// Re-reviewing the same content produces a new report, never an update.
type ReviewReport struct {
	ID          string          `json:"id"`
	ContentID   string          `json:"content_id"`
	ContentName string          `json:"content_name"`
	ContentType string          `json:"content_type"`
	Decision    Decision        `json:"decision"`
	Confidence  float64         `json:"final_confidence"`
	Violations  []ViolationType `json:"violation_types"`
	Parts       []ReportPart    `json:"parts"`
	CreatedAt   time.Time       `json:"review_time"`
}

// ReportPart is the persisted shape of one PartialRecord.
type ReportPart struct {
	Name       string          `json:"part_name"`
	Type       PartType        `json:"part_type"`
	Decision   VerdictTag      `json:"decision"`
	Confidence float64         `json:"confidence"`
	Violations []ViolationType `json:"violation_types"`
	Evidence   string          `json:"flagged_content,omitempty"`
	Segments   []ReportPart    `json:"segments,omitempty"`
}

// ReviewTask is the queue payload that triggers one review run.
type ReviewTask struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
}

// Actor identifies who applied a review action.
type Actor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	System bool   `json:"system"`
}

// Notification is a fire-and-forget message to a content owner.
type Notification struct {
	OwnerID     string
	ContentName string
	ContentType string
	Decision    Decision
	Reason      string
}

// ClassificationCall is one audit-log row for an external API attempt.
type ClassificationCall struct {
	Endpoint         string
	Hint             ContentHint
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
	Success          bool
	Error            string
	CreatedAt        time.Time
}
