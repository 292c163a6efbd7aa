package dto

import (
	"mail-triage-backend/internal/triage/domain"
	"mail-triage-backend/internal/triage/usecase"
)

type MessagesResponse struct {
	Messages       []usecase.ScoredMessage `json:"messages"`
	Count          int                     `json:"count"`
	Days           int                     `json:"days"`
	ComposeEnabled bool                    `json:"compose_enabled"`
}

type StateResponse struct {
	State domain.TriageState `json:"state"`
}

type MustReplyRequest struct {
	Value *bool `json:"value" binding:"required"`
}

type DraftRequest struct {
	Text string `json:"text" binding:"required"`
}

type GenerateRequest struct {
	Instruction string `json:"instruction"`
}

type BulkRequest struct {
	Count int  `json:"count" binding:"required,min=1"`
	Force bool `json:"force"`
}
