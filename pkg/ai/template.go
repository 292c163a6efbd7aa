package ai

import (
	"context"
	"fmt"
	"strings"

	"mail-triage-backend/internal/triage/domain"
	"mail-triage-backend/internal/triage/scoring"
)

// TemplateService is the rule-based reply backend. It never calls an
// external service and is deterministic: the same request always renders
// the same draft. It fails only when the record itself is invalid.
type TemplateService struct {
	heuristics scoring.Heuristics
}

// NewTemplateService creates the rule-based backend using the same
// heuristics that drive scoring, so sender categorization stays consistent.
func NewTemplateService(h scoring.Heuristics) *TemplateService {
	def := scoring.DefaultHeuristics()
	if len(h.ActionCues) == 0 {
		h.ActionCues = def.ActionCues
	}
	if len(h.NoReplyPatterns) == 0 {
		h.NoReplyPatterns = def.NoReplyPatterns
	}
	if len(h.NewsletterPatterns) == 0 {
		h.NewsletterPatterns = def.NewsletterPatterns
	}
	return &TemplateService{heuristics: h}
}

// GenerateReply implements ReplyService
func (s *TemplateService) GenerateReply(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	record := req.Record
	if record.ID == "" {
		return domain.GenerationResult{}, fmt.Errorf("invalid record: missing message id")
	}

	greeting := "Hello,"
	if name := senderFirstName(record.Sender); name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}

	summary := record.Snippet
	if summary == "" {
		summary = record.Subject
	}
	if len(summary) > 140 {
		summary = summary[:140]
	}

	var body string
	switch {
	case s.isBulkSender(record):
		body = "Thanks for the update. I have read your message and will reach out if anything is needed on my side."
	case s.isActionable(record):
		body = fmt.Sprintf("TL;DR: %s\n\nThanks for flagging this - I will look into it and get back to you shortly. Could you let me know if there is a hard deadline attached?", summary)
	default:
		body = fmt.Sprintf("TL;DR: %s\n\nThanks for your message. Feel free to share any additional details that would help me respond fully.", summary)
	}

	text := fmt.Sprintf("%s\n\n%s\n\nBest regards,\n[Your name]", greeting, body)

	return domain.GenerationResult{Text: text, Backend: domain.ProvenanceRule}, nil
}

func (s *TemplateService) isBulkSender(record domain.MessageRecord) bool {
	sender := strings.ToLower(record.Sender.Address)
	for _, p := range append(s.heuristics.NoReplyPatterns, s.heuristics.NewsletterPatterns...) {
		if p != "" && strings.Contains(sender, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func (s *TemplateService) isActionable(record domain.MessageRecord) bool {
	if strings.Contains(record.Subject, "?") {
		return true
	}
	blob := strings.ToLower(record.Subject + " " + record.Snippet)
	for _, cue := range s.heuristics.ActionCues {
		if cue != "" && strings.Contains(blob, strings.ToLower(cue)) {
			return true
		}
	}
	return false
}

// senderFirstName pulls a usable name out of the parsed sender, falling
// back to the mailbox part of the address.
func senderFirstName(sender domain.Sender) string {
	if fields := strings.Fields(sender.Name); len(fields) > 0 {
		return fields[0]
	}
	if at := strings.Index(sender.Address, "@"); at > 0 {
		return sender.Address[:at]
	}
	return ""
}
