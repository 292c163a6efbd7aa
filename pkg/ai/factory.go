package ai

import (
	"time"

	"go.uber.org/zap"

	"mail-triage-backend/internal/triage/scoring"
	"mail-triage-backend/pkg/gemini"
)

// Config holds reply generation provider configuration
type Config struct {
	Provider ProviderType // "openai", "gemini" or "auto"

	// OpenAI config
	OpenAIAPIKey  string
	OpenAIModel   string // e.g. "gpt-4o-mini"
	OpenAIBaseURL string // optional OpenAI-compatible endpoint

	// Gemini config
	GeminiAPIKey string

	// Per-request deadline for the model backend; zero means the default
	GenerationTimeout time.Duration

	// Heuristics shared with the scorer, used by the rule-based backend
	Heuristics scoring.Heuristics
}

// NewReplyService creates the reply generation gateway: a fallback service
// over the configured model backend and the rule-based template backend.
// With no model credentials configured, generation is rule-based only.
func NewReplyService(cfg Config, logger *zap.Logger) ReplyService {
	rule := NewTemplateService(cfg.Heuristics)

	var model ReplyService
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			model = NewOpenAIServiceWithBaseURL(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey != "" {
			model = gemini.NewGeminiService(cfg.GeminiAPIKey)
		}
	default:
		// Prefer OpenAI when a key is available, otherwise Gemini
		if cfg.OpenAIAPIKey != "" {
			model = NewOpenAIServiceWithBaseURL(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		} else if cfg.GeminiAPIKey != "" {
			model = gemini.NewGeminiService(cfg.GeminiAPIKey)
		}
	}

	svc := NewFallbackService(model, rule, logger)
	if cfg.GenerationTimeout > 0 {
		svc.modelTimeout = cfg.GenerationTimeout
	}
	return svc
}
