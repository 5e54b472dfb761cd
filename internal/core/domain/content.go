package domain

import "time"

type ContentStatus string

const (
	ContentPending  ContentStatus = "pending"
	ContentApproved ContentStatus = "approved"
	ContentRejected ContentStatus = "rejected"
)

// Content is the reviewable entity as seen through the content store.
type Content struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Body        string        `json:"body"`
	OwnerID     string        `json:"owner_id"`
	Status      ContentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (c *Content) IsPending() bool {
	return c != nil && c.Status == ContentPending
}

// ContentFile is one attached file eligible for review. Key addresses the
// file in the backing store; only plain-text-like extensions are listed.
type ContentFile struct {
	Name string `json:"name"`
	Ext  string `json:"ext"`
	Key  string `json:"key"`
}

// Endpoint describes one configured backend of the classification API.
type Endpoint struct {
	Name          string        `json:"name"`
	Priority      int           `json:"priority"`
	MaxContextLen int           `json:"max_context_len"`
	Cooldown      time.Duration `json:"cooldown"`
}
