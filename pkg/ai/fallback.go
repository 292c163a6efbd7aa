package ai

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"mail-triage-backend/internal/triage/domain"
)

const defaultModelTimeout = 30 * time.Second

var errInvalidRecord = errors.New("invalid record: missing message id")

// FallbackService routes generation requests with a fallback policy:
// the model backend is tried first when configured, and any model failure
// (auth, network, quota, timeout, malformed response) falls through to the
// deterministic rule-based backend. A valid record therefore always yields
// draft text, with the provenance of whichever backend produced it.
type FallbackService struct {
	model        ReplyService
	rule         ReplyService
	modelTimeout time.Duration
	logger       *zap.Logger
}

// NewFallbackService creates a fallback service over an optional model
// backend and the mandatory rule-based backend.
func NewFallbackService(model ReplyService, rule ReplyService, logger *zap.Logger) *FallbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackService{
		model:        model,
		rule:         rule,
		modelTimeout: defaultModelTimeout,
		logger:       logger,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"context deadline exceeded",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// GenerateReply implements ReplyService
func (f *FallbackService) GenerateReply(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	if req.Record.ID == "" {
		return domain.GenerationResult{}, &domain.GenerationError{
			MessageID: req.Record.ID,
			Backend:   domain.ProvenanceNone,
			Err:       errInvalidRecord,
		}
	}

	if f.model != nil {
		modelCtx, cancel := context.WithTimeout(ctx, f.modelTimeout)
		result, err := f.model.GenerateReply(modelCtx, req)
		cancel()
		if err == nil && result.Text != "" {
			return result, nil
		}

		switch {
		case isQuotaError(err):
			f.logger.Warn("model backend quota exhausted, falling back to rule-based reply",
				zap.String("message_id", req.Record.ID), zap.Error(err))
		case isConnectionError(err):
			f.logger.Warn("model backend unreachable, falling back to rule-based reply",
				zap.String("message_id", req.Record.ID), zap.Error(err))
		default:
			f.logger.Warn("model backend failed, falling back to rule-based reply",
				zap.String("message_id", req.Record.ID), zap.Error(err))
		}
	}

	return f.rule.GenerateReply(ctx, req)
}
