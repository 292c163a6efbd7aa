package repository

import "mail-triage-backend/internal/triage/domain"

// TriageStateRepository defines the interface for session-local triage state.
// Every operation is synchronous, idempotent for identical arguments, and
// atomic per message id with respect to concurrent callers.
type TriageStateRepository interface {
	// Get or lazily create the state for a message id
	GetOrCreate(messageID string) domain.TriageState
	// Get the state if one exists, without creating it
	Get(messageID string) (domain.TriageState, bool)
	// Toggle the must-reply flag
	SetMustReply(messageID string, mustReply bool) domain.TriageState
	// Overwrite the draft text and its provenance; identical arguments
	// leave the state (including last-modified) untouched
	SetDraft(messageID, text string, source domain.Provenance) domain.TriageState
	// Record the provider-side draft id after a successful persistence call
	MarkPersisted(messageID, persistedDraftID string) domain.TriageState
	// Drop the state for a message id; only explicit user action clears state
	Clear(messageID string)
	// All returns a snapshot of every tracked state
	All() []domain.TriageState
}
