package ai

import (
	"context"

	"mail-triage-backend/internal/triage/domain"
)

// ReplyService is the interface for reply draft generation backends.
// Implement this interface to add new model providers (OpenAI, Gemini, etc.)
type ReplyService interface {
	GenerateReply(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}

// ProviderType represents the model provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderAuto   ProviderType = "auto"
)
