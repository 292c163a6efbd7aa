package main

import (
	"go.uber.org/zap"

	api "mail-triage-backend/cmd/api"
	triageRepo "mail-triage-backend/internal/triage/repository"
	"mail-triage-backend/internal/triage/scoring"
	triageUsecase "mail-triage-backend/internal/triage/usecase"
	"mail-triage-backend/pkg/ai"
	"mail-triage-backend/pkg/config"
	"mail-triage-backend/pkg/gmail"
	"mail-triage-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// Scoring heuristics: built-in defaults, optionally overridden by file
	heuristics, err := config.LoadHeuristics(cfg.HeuristicsFile)
	if err != nil {
		log.Fatal("Failed to load scoring heuristics", zap.Error(err))
	}

	// Gmail adapter: mailbox fetch + draft persistence
	gmailService := gmail.NewService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleAccessToken,
		cfg.GoogleRefreshToken,
		cfg.GmailScopes,
	)
	if !gmailService.ComposeEnabled() {
		log.Warn("Compose scope not granted; draft persistence disabled")
	}

	// Reply generation gateway with model-to-rule fallback
	replyService := ai.NewReplyService(ai.Config{
		Provider:          ai.ProviderType(cfg.AIProvider),
		OpenAIAPIKey:      cfg.OpenAIAPIKey,
		OpenAIModel:       cfg.OpenAIModel,
		OpenAIBaseURL:     cfg.OpenAIBaseURL,
		GeminiAPIKey:      cfg.GeminiAPIKey,
		GenerationTimeout: cfg.GenerationTimeout,
		Heuristics:        heuristics,
	}, log)

	// Session-local triage state
	stateRepo := triageRepo.NewTriageStateRepository()

	scorer := scoring.NewScorer(heuristics)

	triageUc := triageUsecase.NewTriageUsecase(
		gmailService,
		gmailService,
		stateRepo,
		scorer,
		replyService,
		log,
		cfg.BulkConcurrency,
		cfg.PersistDrafts,
	)

	handler := api.NewHandler(triageUc, cfg)

	log.Info("Server starting", zap.String("port", cfg.Port))
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
