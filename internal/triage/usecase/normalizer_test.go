package usecase

import (
	"errors"
	"testing"
	"time"

	"mail-triage-backend/internal/triage/domain"
)

func TestNormalize_FullRecord(t *testing.T) {
	raw := domain.RawMessage{
		ID:       "msg-1",
		ThreadID: "thread-1",
		Headers: map[string]string{
			"subject": "Quarterly numbers",
			"from":    "Jane Doe <jane@company.com>",
			"to":      "me@company.com",
		},
		LabelIDs:     []string{"INBOX", "UNREAD", "STARRED"},
		Snippet:      "Here are the numbers you asked for",
		InternalDate: time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC),
		ThreadSize:   3,
		SizeEstimate: 2048,
	}

	record, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if record.ID != "msg-1" || record.ThreadID != "thread-1" {
		t.Errorf("Identity not carried over: %+v", record)
	}
	if record.Sender.Address != "jane@company.com" || record.Sender.Name != "Jane Doe" {
		t.Errorf("Sender not parsed: %+v", record.Sender)
	}
	if !record.Unread || !record.Starred || record.Important {
		t.Errorf("Label flags wrong: %+v", record)
	}
	if record.CCOnly {
		t.Error("Primary recipient must not be cc-only")
	}
	if record.ThreadSize != 3 || record.SizeEstimate != 2048 {
		t.Errorf("Thread/size not carried over: %+v", record)
	}
}

func TestNormalize_MissingID(t *testing.T) {
	raw := domain.RawMessage{
		InternalDate: time.Now(),
	}

	_, err := Normalize(raw)

	var normErr *domain.NormalizationError
	if !errors.As(err, &normErr) {
		t.Fatalf("Expected NormalizationError, got %v", err)
	}
	if normErr.Field != "id" {
		t.Errorf("Expected missing id, got field %q", normErr.Field)
	}
}

func TestNormalize_MissingTimestamp(t *testing.T) {
	raw := domain.RawMessage{ID: "msg-2"}

	_, err := Normalize(raw)

	var normErr *domain.NormalizationError
	if !errors.As(err, &normErr) {
		t.Fatalf("Expected NormalizationError, got %v", err)
	}
	if normErr.Field != "timestamp" {
		t.Errorf("Expected missing timestamp, got field %q", normErr.Field)
	}
}

func TestNormalize_DateHeaderFallback(t *testing.T) {
	raw := domain.RawMessage{
		ID: "msg-3",
		Headers: map[string]string{
			"date": "Tue, 10 Jun 2025 09:30:00 +0200",
		},
	}

	record, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := time.Date(2025, 6, 10, 7, 30, 0, 0, time.UTC)
	if !record.Timestamp.Equal(want) {
		t.Errorf("Expected timestamp %v, got %v", want, record.Timestamp)
	}
}

func TestNormalize_EmptyDefaults(t *testing.T) {
	raw := domain.RawMessage{
		ID:           "msg-4",
		InternalDate: time.Now(),
	}

	record, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if record.Subject != "(no subject)" {
		t.Errorf("Expected subject placeholder, got %q", record.Subject)
	}
	if record.Labels == nil || len(record.Labels) != 0 {
		t.Errorf("Expected empty label set, got %v", record.Labels)
	}
	if record.Snippet != "" {
		t.Errorf("Expected empty snippet, got %q", record.Snippet)
	}
	if record.ThreadSize != 1 {
		t.Errorf("Expected default thread size 1, got %d", record.ThreadSize)
	}
}

func TestNormalize_CCOnly(t *testing.T) {
	raw := domain.RawMessage{
		ID:           "msg-5",
		InternalDate: time.Now(),
		Headers: map[string]string{
			"cc": "me@company.com",
		},
	}

	record, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !record.CCOnly {
		t.Error("Expected cc-only record when only a Cc header is present")
	}
}

func TestNormalize_MalformedFromHeader(t *testing.T) {
	raw := domain.RawMessage{
		ID:           "msg-6",
		InternalDate: time.Now(),
		Headers: map[string]string{
			"from": "notifications <no-reply@service.example",
		},
	}

	record, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if record.Sender.Address != "no-reply@service.example" {
		t.Errorf("Expected best-effort address parse, got %+v", record.Sender)
	}
}
