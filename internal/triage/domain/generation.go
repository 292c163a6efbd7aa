package domain

// GenerationRequest asks a backend for a reply draft to one message.
type GenerationRequest struct {
	Record      MessageRecord `json:"record"`
	Instruction string        `json:"instruction,omitempty"`
}

// GenerationResult carries the produced draft text and the provenance of
// the backend that actually produced it.
type GenerationResult struct {
	Text    string     `json:"text"`
	Backend Provenance `json:"backend"`
}

// Outcome statuses for one message inside a bulk run. Terminal states are
// "persisted" for the session, and the failed states until an explicit retry.
const (
	OutcomeDrafted           = "drafted"
	OutcomePersisted         = "persisted"
	OutcomeGenerationFailed  = "generation-failed"
	OutcomePersistenceFailed = "persistence-failed"
)

// MessageOutcome is the per-message result of a bulk run.
type MessageOutcome struct {
	MessageID        string     `json:"message_id"`
	Status           string     `json:"status"`
	Reason           string     `json:"reason,omitempty"`
	Backend          Provenance `json:"backend,omitempty"`
	PersistedDraftID string     `json:"persisted_draft_id,omitempty"`
}

// BulkReport is returned by the bulk orchestrator instead of a single
// aggregate status: every selected message gets its own outcome.
type BulkReport struct {
	BatchID   string           `json:"batch_id"`
	Requested int              `json:"requested"`
	Selected  int              `json:"selected"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Outcomes  []MessageOutcome `json:"outcomes"`
}
