package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mail-triage-backend/internal/triage/domain"
)

const generateURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key="

type GeminiService struct {
	ApiKey string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{ApiKey: apiKey}
}

// GenerateReply asks Gemini for a reply draft to the given message.
func (g *GeminiService) GenerateReply(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	record := req.Record

	prompt := fmt.Sprintf(`You are a helpful executive assistant. Write a concise, polite reply to the email below. Start with a one-sentence TL;DR and add a single clarifying question if more information is required.

Subject: %s
From: %s
Summary/snippet: %s`, record.Subject, record.Sender.Address, record.Snippet)
	if req.Instruction != "" {
		prompt += "\n\nAdditional instruction from the user: " + req.Instruction
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", generateURL+g.ApiKey, bytes.NewBuffer(body))
	if err != nil {
		return domain.GenerationResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return domain.GenerationResult{}, fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return domain.GenerationResult{}, err
	}

	// Parse reply text from response
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok && strings.TrimSpace(text) != "" {
							return domain.GenerationResult{
								Text:    strings.TrimSpace(text),
								Backend: domain.ProvenanceModel,
							}, nil
						}
					}
				}
			}
		}
	}
	return domain.GenerationResult{}, fmt.Errorf("no reply text returned")
}
