package domain

import "time"

// RawMessage is the provider-shaped metadata for a single message, as
// returned by the mailbox fetch adapter. Fields map 1:1 to what the Gmail
// API exposes; nothing here is validated yet.
type RawMessage struct {
	ID           string            `json:"id"`
	ThreadID     string            `json:"thread_id"`
	Headers      map[string]string `json:"headers"`
	LabelIDs     []string          `json:"label_ids"`
	Snippet      string            `json:"snippet"`
	InternalDate time.Time         `json:"internal_date"`
	ThreadSize   int               `json:"thread_size"`
	SizeEstimate int64             `json:"size_estimate"`
}

// Sender is a parsed From header.
type Sender struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// MessageRecord is the canonical, normalized view of one message.
// Immutable once built; re-fetching replaces the whole record.
type MessageRecord struct {
	ID           string    `json:"id"`
	ThreadID     string    `json:"thread_id"`
	Subject      string    `json:"subject"`
	Sender       Sender    `json:"sender"`
	Timestamp    time.Time `json:"timestamp"`
	Snippet      string    `json:"snippet"`
	Labels       []string  `json:"labels"`
	Unread       bool      `json:"unread"`
	Starred      bool      `json:"starred"`
	Important    bool      `json:"important"`
	ThreadSize   int       `json:"thread_size"`
	SizeEstimate int64     `json:"size_estimate"`
	// CCOnly is true when the account only appears in a Cc-equivalent
	// role and is not a primary recipient.
	CCOnly bool `json:"cc_only"`
}

// Factor is one scoring contribution, reported in evaluation order.
type Factor struct {
	Name  string `json:"name"`
	Delta int    `json:"delta"`
}

// ScoreResult is the outcome of scoring a MessageRecord. It has no
// lifecycle of its own: recomputed on demand, never cached across fetches.
type ScoreResult struct {
	Score   int      `json:"score"`
	Factors []Factor `json:"factors"`
}
