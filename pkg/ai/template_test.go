package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"mail-triage-backend/internal/triage/domain"
	"mail-triage-backend/internal/triage/scoring"
)

func sampleRecord(id, from, subject, snippet string) domain.MessageRecord {
	return domain.MessageRecord{
		ID:        id,
		ThreadID:  "thread-" + id,
		Sender:    parseTestSender(from),
		Subject:   subject,
		Snippet:   snippet,
		Timestamp: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
}

func parseTestSender(from string) domain.Sender {
	if open := strings.Index(from, "<"); open >= 0 {
		return domain.Sender{
			Name:    strings.TrimSpace(from[:open]),
			Address: strings.Trim(from[open:], "<>"),
		}
	}
	return domain.Sender{Address: from}
}

func TestTemplateService_Deterministic(t *testing.T) {
	svc := NewTemplateService(scoring.DefaultHeuristics())
	record := sampleRecord("m1", "Alice Nguyen <alice@company.com>", "Budget question?", "can you confirm the numbers")
	req := domain.GenerationRequest{Record: record}

	first, err := svc.GenerateReply(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	second, err := svc.GenerateReply(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}

	if first != second {
		t.Errorf("Rule backend must be deterministic:\n%+v\n%+v", first, second)
	}
	if first.Backend != domain.ProvenanceRule {
		t.Errorf("Expected rule-based provenance, got %s", first.Backend)
	}
	if !strings.Contains(first.Text, "Hello Alice,") {
		t.Errorf("Expected a personalized greeting, got:\n%s", first.Text)
	}
}

func TestTemplateService_ActionableVariant(t *testing.T) {
	svc := NewTemplateService(scoring.DefaultHeuristics())
	record := sampleRecord("m2", "Bob <bob@company.com>", "Deadline for the Q3 report", "the deadline is Friday")

	result, err := svc.GenerateReply(context.Background(), domain.GenerationRequest{Record: record})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if !strings.Contains(result.Text, "hard deadline") {
		t.Errorf("Expected the actionable variant, got:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "TL;DR:") {
		t.Errorf("Expected a TL;DR line, got:\n%s", result.Text)
	}
}

func TestTemplateService_BulkSenderVariant(t *testing.T) {
	svc := NewTemplateService(scoring.DefaultHeuristics())
	record := sampleRecord("m3", "Deals <newsletter@deals.example>", "Weekly deals", "unsubscribe anytime")

	result, err := svc.GenerateReply(context.Background(), domain.GenerationRequest{Record: record})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if !strings.Contains(result.Text, "Thanks for the update") {
		t.Errorf("Expected the bulk-sender variant, got:\n%s", result.Text)
	}
}

func TestTemplateService_DefaultVariant(t *testing.T) {
	svc := NewTemplateService(scoring.DefaultHeuristics())
	record := sampleRecord("m4", "Carol <carol@company.com>", "Lunch next week", "thinking about trying the new place")

	result, err := svc.GenerateReply(context.Background(), domain.GenerationRequest{Record: record})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if !strings.Contains(result.Text, "Feel free to share") {
		t.Errorf("Expected the default variant, got:\n%s", result.Text)
	}
}

func TestTemplateService_MissingID(t *testing.T) {
	svc := NewTemplateService(scoring.DefaultHeuristics())

	_, err := svc.GenerateReply(context.Background(), domain.GenerationRequest{})
	if err == nil {
		t.Fatal("Expected an error for a record without an id")
	}
}

func TestTemplateService_FallsBackToMailboxName(t *testing.T) {
	svc := NewTemplateService(scoring.DefaultHeuristics())
	record := sampleRecord("m5", "dana.lee@company.com", "Quick sync", "do you have ten minutes")

	result, err := svc.GenerateReply(context.Background(), domain.GenerationRequest{Record: record})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if !strings.Contains(result.Text, "Hello dana.lee,") {
		t.Errorf("Expected the mailbox part as the greeting name, got:\n%s", result.Text)
	}
}
