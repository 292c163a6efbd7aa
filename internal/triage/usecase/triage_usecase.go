package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"mail-triage-backend/internal/triage/domain"
	"mail-triage-backend/internal/triage/repository"
	"mail-triage-backend/internal/triage/scoring"
	"mail-triage-backend/pkg/ai"
)

type triageUsecase struct {
	fetcher       MailboxFetcher
	writer        DraftWriter
	states        repository.TriageStateRepository
	scorer        *scoring.Scorer
	replies       ai.ReplyService
	logger        *zap.Logger
	concurrency   int
	persistDrafts bool

	// Session cache of the last fetched records, keyed by id plus the
	// score-descending order used for bulk selection. Re-fetching replaces
	// the whole cache; triage state outlives it.
	mu      sync.RWMutex
	records map[string]domain.MessageRecord
	ordered []string
}

// NewTriageUsecase wires the triage engine. writer may be nil when no
// persistence collaborator is configured.
func NewTriageUsecase(
	fetcher MailboxFetcher,
	writer DraftWriter,
	states repository.TriageStateRepository,
	scorer *scoring.Scorer,
	replies ai.ReplyService,
	logger *zap.Logger,
	concurrency int,
	persistDrafts bool,
) TriageUsecase {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &triageUsecase{
		fetcher:       fetcher,
		writer:        writer,
		states:        states,
		scorer:        scorer,
		replies:       replies,
		logger:        logger,
		concurrency:   concurrency,
		persistDrafts: persistDrafts,
		records:       make(map[string]domain.MessageRecord),
	}
}

func (u *triageUsecase) FetchAndScore(ctx context.Context, days int) ([]ScoredMessage, error) {
	raws, err := u.fetcher.FetchRecent(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("fetch mailbox window: %w", err)
	}

	type scored struct {
		record domain.MessageRecord
		score  domain.ScoreResult
	}

	items := make([]scored, 0, len(raws))
	for _, raw := range raws {
		record, err := Normalize(raw)
		if err != nil {
			// A malformed source record skips that message only
			u.logger.Warn("skipping message that failed normalization",
				zap.String("message_id", raw.ID), zap.Error(err))
			continue
		}
		items = append(items, scored{record: *record, score: u.scorer.Score(*record)})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score.Score != items[j].score.Score {
			return items[i].score.Score > items[j].score.Score
		}
		return items[i].record.Timestamp.After(items[j].record.Timestamp)
	})

	u.mu.Lock()
	u.records = make(map[string]domain.MessageRecord, len(items))
	u.ordered = make([]string, 0, len(items))
	for _, item := range items {
		u.records[item.record.ID] = item.record
		u.ordered = append(u.ordered, item.record.ID)
	}
	u.mu.Unlock()

	results := make([]ScoredMessage, 0, len(items))
	for _, item := range items {
		results = append(results, ScoredMessage{
			Record: item.record,
			Score:  item.score,
			State:  u.stateOrDefault(item.record.ID),
		})
	}

	u.logger.Info("fetched and scored mailbox window",
		zap.Int("days", days),
		zap.Int("fetched", len(raws)),
		zap.Int("scored", len(results)))

	return results, nil
}

func (u *triageUsecase) GetMessage(id string) (ScoredMessage, bool) {
	u.mu.RLock()
	record, ok := u.records[id]
	u.mu.RUnlock()
	if !ok {
		return ScoredMessage{}, false
	}
	return ScoredMessage{
		Record: record,
		Score:  u.scorer.Score(record),
		State:  u.stateOrDefault(id),
	}, true
}

// stateOrDefault reads existing state without creating an entry: listing a
// message is not yet an interaction with it.
func (u *triageUsecase) stateOrDefault(id string) domain.TriageState {
	if state, ok := u.states.Get(id); ok {
		return state
	}
	return domain.TriageState{MessageID: id, Source: domain.ProvenanceNone}
}

func (u *triageUsecase) GetState(id string) domain.TriageState {
	return u.states.GetOrCreate(id)
}

func (u *triageUsecase) SetMustReply(id string, mustReply bool) domain.TriageState {
	return u.states.SetMustReply(id, mustReply)
}

func (u *triageUsecase) SetDraft(id, text string) domain.TriageState {
	return u.states.SetDraft(id, text, domain.ProvenanceManual)
}

func (u *triageUsecase) ClearState(id string) {
	u.states.Clear(id)
}

func (u *triageUsecase) GenerateDraft(ctx context.Context, id, instruction string) (domain.TriageState, error) {
	u.mu.RLock()
	record, ok := u.records[id]
	u.mu.RUnlock()
	if !ok {
		return domain.TriageState{}, fmt.Errorf("unknown message id %q: fetch the mailbox window first", id)
	}

	result, err := u.replies.GenerateReply(ctx, domain.GenerationRequest{
		Record:      record,
		Instruction: instruction,
	})
	if err != nil {
		return domain.TriageState{}, &domain.GenerationError{MessageID: id, Backend: domain.ProvenanceNone, Err: err}
	}

	u.logger.Info("generated reply draft",
		zap.String("message_id", id),
		zap.String("backend", string(result.Backend)))

	return u.states.SetDraft(id, result.Text, result.Backend), nil
}

func (u *triageUsecase) PersistDraft(ctx context.Context, id string) (domain.TriageState, error) {
	if u.writer == nil || !u.writer.ComposeEnabled() {
		return domain.TriageState{}, &domain.PersistenceError{
			MessageID: id,
			Err:       fmt.Errorf("compose scope not granted"),
		}
	}

	state, ok := u.states.Get(id)
	if !ok || !state.HasDraft() {
		return domain.TriageState{}, &domain.PersistenceError{
			MessageID: id,
			Err:       fmt.Errorf("no local draft text to persist"),
		}
	}

	u.mu.RLock()
	record, ok := u.records[id]
	u.mu.RUnlock()
	if !ok {
		return domain.TriageState{}, &domain.PersistenceError{
			MessageID: id,
			Err:       fmt.Errorf("record no longer in session; re-fetch before persisting"),
		}
	}

	draftID, err := u.writer.CreateDraft(ctx, record, state.DraftText)
	if err != nil {
		return domain.TriageState{}, &domain.PersistenceError{MessageID: id, Err: err}
	}

	u.logger.Info("persisted draft to provider",
		zap.String("message_id", id),
		zap.String("draft_id", draftID))

	return u.states.MarkPersisted(id, draftID), nil
}

func (u *triageUsecase) ComposeEnabled() bool {
	return u.writer != nil && u.writer.ComposeEnabled()
}

func (u *triageUsecase) RunBulk(ctx context.Context, n int, force bool) *domain.BulkReport {
	u.mu.RLock()
	records := make([]domain.MessageRecord, 0, len(u.ordered))
	for _, id := range u.ordered {
		records = append(records, u.records[id])
	}
	u.mu.RUnlock()

	return u.runBulkOver(ctx, records, n, force)
}
