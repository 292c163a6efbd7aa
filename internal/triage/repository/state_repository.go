package repository

import (
	"sync"
	"time"

	"mail-triage-backend/internal/triage/domain"
)

// triageStateRepository keeps triage state in memory for the lifetime of the
// session. State is never written to disk: the only durable artifact of a
// triage session is whatever drafts were persisted to the provider.
type triageStateRepository struct {
	mu     sync.RWMutex
	states map[string]*domain.TriageState
	now    func() time.Time
}

// NewTriageStateRepository creates an empty in-memory state repository.
func NewTriageStateRepository() TriageStateRepository {
	return &triageStateRepository{
		states: make(map[string]*domain.TriageState),
		now:    time.Now,
	}
}

// getOrCreateLocked returns the live entry for an id, creating the default
// state on first touch. Caller must hold the write lock.
func (r *triageStateRepository) getOrCreateLocked(messageID string) *domain.TriageState {
	state, ok := r.states[messageID]
	if !ok {
		state = &domain.TriageState{
			MessageID: messageID,
			Source:    domain.ProvenanceNone,
		}
		r.states[messageID] = state
	}
	return state
}

func (r *triageStateRepository) GetOrCreate(messageID string) domain.TriageState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.getOrCreateLocked(messageID)
}

func (r *triageStateRepository) Get(messageID string) (domain.TriageState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[messageID]
	if !ok {
		return domain.TriageState{}, false
	}
	return *state, true
}

func (r *triageStateRepository) SetMustReply(messageID string, mustReply bool) domain.TriageState {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.getOrCreateLocked(messageID)
	if state.MustReply != mustReply {
		state.MustReply = mustReply
		state.LastModified = r.now()
	}
	return *state
}

func (r *triageStateRepository) SetDraft(messageID, text string, source domain.Provenance) domain.TriageState {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.getOrCreateLocked(messageID)
	if state.DraftText == text && state.Source == source {
		return *state
	}
	state.DraftText = text
	state.Source = source
	state.LastModified = r.now()
	return *state
}

func (r *triageStateRepository) MarkPersisted(messageID, persistedDraftID string) domain.TriageState {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.getOrCreateLocked(messageID)
	if state.PersistedDraftID != persistedDraftID {
		state.PersistedDraftID = persistedDraftID
		state.LastModified = r.now()
	}
	return *state
}

func (r *triageStateRepository) Clear(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, messageID)
}

func (r *triageStateRepository) All() []domain.TriageState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	states := make([]domain.TriageState, 0, len(r.states))
	for _, state := range r.states {
		states = append(states, *state)
	}
	return states
}
