package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mail-triage-backend/internal/triage/domain"
)

// runBulkOver drives generation (and, when enabled, persistence) for the
// first n unresolved records. Records must already be sorted by descending
// score. Messages are independent units of work: workers run in parallel
// behind a semaphore, and a failure for one message never halts the rest.
func (u *triageUsecase) runBulkOver(ctx context.Context, records []domain.MessageRecord, n int, force bool) *domain.BulkReport {
	report := &domain.BulkReport{
		BatchID:   uuid.NewString(),
		Requested: n,
	}

	var selected []domain.MessageRecord
	for _, record := range records {
		if len(selected) >= n {
			break
		}
		state, ok := u.states.Get(record.ID)
		if ok && state.PersistedDraftID != "" {
			// Persisted is terminal for the session, force or not
			continue
		}
		if ok && state.HasDraft() && !force {
			continue
		}
		selected = append(selected, record)
	}
	report.Selected = len(selected)

	u.logger.Info("starting bulk generation",
		zap.String("batch_id", report.BatchID),
		zap.Int("requested", n),
		zap.Int("selected", len(selected)),
		zap.Bool("force", force))

	outcomes := make([]domain.MessageOutcome, len(selected))
	semaphore := make(chan struct{}, u.concurrency)
	var wg sync.WaitGroup

	for i, record := range selected {
		wg.Add(1)
		go func(i int, record domain.MessageRecord) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcomes[i] = u.processBulkMessage(ctx, record)
		}(i, record)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		switch outcome.Status {
		case domain.OutcomeDrafted, domain.OutcomePersisted:
			report.Succeeded++
		default:
			report.Failed++
		}
	}
	report.Outcomes = outcomes

	u.logger.Info("bulk generation finished",
		zap.String("batch_id", report.BatchID),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed))

	return report
}

// processBulkMessage walks one message through the per-message state
// machine: generating, then drafted, then optionally persisting.
func (u *triageUsecase) processBulkMessage(ctx context.Context, record domain.MessageRecord) domain.MessageOutcome {
	outcome := domain.MessageOutcome{MessageID: record.ID}

	result, err := u.replies.GenerateReply(ctx, domain.GenerationRequest{Record: record})
	if err != nil {
		outcome.Status = domain.OutcomeGenerationFailed
		outcome.Reason = err.Error()
		u.logger.Warn("bulk generation failed for message",
			zap.String("message_id", record.ID), zap.Error(err))
		return outcome
	}

	u.states.SetDraft(record.ID, result.Text, result.Backend)
	outcome.Status = domain.OutcomeDrafted
	outcome.Backend = result.Backend

	if !u.persistDrafts || u.writer == nil || !u.writer.ComposeEnabled() {
		return outcome
	}

	draftID, err := u.writer.CreateDraft(ctx, record, result.Text)
	if err != nil {
		// The local draft survives; only the provider-side copy failed
		outcome.Status = domain.OutcomePersistenceFailed
		outcome.Reason = err.Error()
		u.logger.Warn("bulk persistence failed for message",
			zap.String("message_id", record.ID), zap.Error(err))
		return outcome
	}

	u.states.MarkPersisted(record.ID, draftID)
	outcome.Status = domain.OutcomePersisted
	outcome.PersistedDraftID = draftID
	return outcome
}
