package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mail-triage-backend/internal/triage/domain"
)

const defaultOpenAIModel = "gpt-4o-mini"

const replySystemPrompt = "You are a helpful executive assistant. Provide concise, polite replies " +
	"that include a TL;DR sentence and, when helpful, a single clarifying question."

// OpenAIService implements ReplyService using the OpenAI chat completions API
type OpenAIService struct {
	client *openai.Client
	model  string
}

// NewOpenAIService creates a new OpenAI reply service
func NewOpenAIService(apiKey, model string) *OpenAIService {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIServiceWithBaseURL creates an OpenAI reply service against an
// OpenAI-compatible endpoint (proxies, self-hosted gateways).
func NewOpenAIServiceWithBaseURL(apiKey, model, baseURL string) *OpenAIService {
	if model == "" {
		model = defaultOpenAIModel
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// GenerateReply implements ReplyService
func (s *OpenAIService) GenerateReply(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	prompt := buildReplyPrompt(req)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: replySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   240,
	})
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.GenerationResult{}, fmt.Errorf("no response choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return domain.GenerationResult{}, fmt.Errorf("empty completion text")
	}

	return domain.GenerationResult{Text: text, Backend: domain.ProvenanceModel}, nil
}

// buildReplyPrompt renders the user prompt shared by all model backends.
func buildReplyPrompt(req domain.GenerationRequest) string {
	record := req.Record
	var b strings.Builder
	fmt.Fprintf(&b, "Email subject: %s\n", record.Subject)
	fmt.Fprintf(&b, "From: %s\n", formatSender(record.Sender))
	fmt.Fprintf(&b, "Summary/snippet: %s\n", record.Snippet)
	b.WriteString("Compose a brief and polite reply, include a TL;DR sentence and one clarifying question " +
		"if more information is required.")
	if req.Instruction != "" {
		fmt.Fprintf(&b, "\nAdditional instruction from the user: %s", req.Instruction)
	}
	return b.String()
}

func formatSender(sender domain.Sender) string {
	if sender.Name != "" && sender.Address != "" {
		return fmt.Sprintf("%s <%s>", sender.Name, sender.Address)
	}
	if sender.Address != "" {
		return sender.Address
	}
	return sender.Name
}
