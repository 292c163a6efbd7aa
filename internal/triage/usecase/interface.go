package usecase

import (
	"context"

	"mail-triage-backend/internal/triage/domain"
)

// MailboxFetcher is the mailbox-fetch collaborator: raw message metadata
// for a trailing day window. An empty result is not an error.
type MailboxFetcher interface {
	FetchRecent(ctx context.Context, days int) ([]domain.RawMessage, error)
}

// DraftWriter is the draft persistence collaborator. ComposeEnabled must be
// checked before CreateDraft; when the compose scope is missing the action
// is disabled instead of called.
type DraftWriter interface {
	CreateDraft(ctx context.Context, record domain.MessageRecord, body string) (string, error)
	ComposeEnabled() bool
}

// ScoredMessage pairs a record with its current score and triage state for
// the presentation layer.
type ScoredMessage struct {
	Record domain.MessageRecord `json:"record"`
	Score  domain.ScoreResult   `json:"score"`
	State  domain.TriageState   `json:"state"`
}

// TriageUsecase defines the interface for the triage engine
type TriageUsecase interface {
	// Fetch the window, normalize and score, replacing the session records
	FetchAndScore(ctx context.Context, days int) ([]ScoredMessage, error)
	// Look up one session record with score and state
	GetMessage(id string) (ScoredMessage, bool)
	// Current triage state for an id (created lazily)
	GetState(id string) domain.TriageState
	SetMustReply(id string, mustReply bool) domain.TriageState
	// Store a manually edited draft text
	SetDraft(id, text string) domain.TriageState
	ClearState(id string)
	// Generate a draft for one message and record it with its provenance
	GenerateDraft(ctx context.Context, id, instruction string) (domain.TriageState, error)
	// Persist the locally held draft to the provider
	PersistDraft(ctx context.Context, id string) (domain.TriageState, error)
	// Run bulk generation over the current session records
	RunBulk(ctx context.Context, n int, force bool) *domain.BulkReport
	ComposeEnabled() bool
}
