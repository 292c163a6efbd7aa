package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleAccessToken  string
	GoogleRefreshToken string
	GmailScopes        []string
	FetchWindowDays    int
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	GeminiAPIKey       string
	AIProvider         string
	BulkConcurrency    int
	PersistDrafts      bool
	GenerationTimeout  time.Duration
	HeuristicsFile     string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	fetchWindow := 14
	if v := os.Getenv("FETCH_WINDOW_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			fetchWindow = parsed
		}
	}

	bulkConcurrency := 4
	if v := os.Getenv("BULK_CONCURRENCY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			bulkConcurrency = parsed
		}
	}

	generationTimeout := 30 * time.Second
	if v := os.Getenv("GENERATION_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			generationTimeout = parsed
		}
	}

	scopes := []string{
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/gmail.compose",
	}
	if v := os.Getenv("GMAIL_SCOPES"); v != "" {
		scopes = nil
		for _, scope := range strings.Split(v, ",") {
			if scope = strings.TrimSpace(scope); scope != "" {
				scopes = append(scopes, scope)
			}
		}
	}

	persistDrafts := true
	if v := os.Getenv("PERSIST_DRAFTS"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			persistDrafts = parsed
		}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleAccessToken:  getEnv("GOOGLE_ACCESS_TOKEN", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GmailScopes:        scopes,
		FetchWindowDays:    fetchWindow,
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		AIProvider:         getEnv("AI_PROVIDER", "auto"),
		BulkConcurrency:    bulkConcurrency,
		PersistDrafts:      persistDrafts,
		GenerationTimeout:  generationTimeout,
		HeuristicsFile:     getEnv("HEURISTICS_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
