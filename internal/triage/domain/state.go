package domain

import "time"

// Provenance records which backend produced a draft text.
type Provenance string

const (
	ProvenanceNone   Provenance = "none"
	ProvenanceRule   Provenance = "rule-based"
	ProvenanceModel  Provenance = "model-based"
	ProvenanceManual Provenance = "manually-edited"
)

// TriageState is the session-local review state for one message id.
// It references its MessageRecord by id only; the record may have been
// replaced or dropped by a later fetch without invalidating this state.
type TriageState struct {
	MessageID        string     `json:"message_id"`
	MustReply        bool       `json:"must_reply"`
	DraftText        string     `json:"draft_text,omitempty"`
	Source           Provenance `json:"source"`
	LastModified     time.Time  `json:"last_modified,omitempty"`
	PersistedDraftID string     `json:"persisted_draft_id,omitempty"`
}

// HasDraft reports whether any draft text is held locally for the message.
func (s *TriageState) HasDraft() bool {
	return s.DraftText != ""
}
