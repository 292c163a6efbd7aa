package usecase

import (
	"net/mail"
	"strings"

	"mail-triage-backend/internal/triage/domain"
)

// Normalize converts provider-shaped metadata into a canonical
// MessageRecord. It is a pure mapping: the only failures are a missing id
// or a missing timestamp; absent snippet/label/header data is replaced by
// empty defaults.
func Normalize(raw domain.RawMessage) (*domain.MessageRecord, error) {
	if raw.ID == "" {
		return nil, &domain.NormalizationError{Field: "id"}
	}

	timestamp := raw.InternalDate
	if timestamp.IsZero() {
		if dateHeader := header(raw, "date"); dateHeader != "" {
			if parsed, err := mail.ParseDate(dateHeader); err == nil {
				timestamp = parsed.UTC()
			}
		}
	}
	if timestamp.IsZero() {
		return nil, &domain.NormalizationError{MessageID: raw.ID, Field: "timestamp"}
	}

	subject := header(raw, "subject")
	if subject == "" {
		subject = "(no subject)"
	}

	labels := raw.LabelIDs
	if labels == nil {
		labels = []string{}
	}

	threadSize := raw.ThreadSize
	if threadSize < 1 {
		threadSize = 1
	}

	toHeader := header(raw, "to")
	ccHeader := header(raw, "cc")

	return &domain.MessageRecord{
		ID:           raw.ID,
		ThreadID:     raw.ThreadID,
		Subject:      subject,
		Sender:       parseSender(header(raw, "from")),
		Timestamp:    timestamp,
		Snippet:      raw.Snippet,
		Labels:       labels,
		Unread:       hasLabel(labels, "UNREAD"),
		Starred:      hasLabel(labels, "STARRED"),
		Important:    hasLabel(labels, "IMPORTANT") || hasLabel(labels, "CATEGORY_PERSONAL"),
		ThreadSize:   threadSize,
		SizeEstimate: raw.SizeEstimate,
		CCOnly:       ccHeader != "" && toHeader == "",
	}, nil
}

func header(raw domain.RawMessage, name string) string {
	if raw.Headers == nil {
		return ""
	}
	return raw.Headers[name]
}

// parseSender splits a From header into address and display name, falling
// back to the raw header text when it is not RFC 5322 shaped.
func parseSender(from string) domain.Sender {
	from = strings.TrimSpace(from)
	if from == "" {
		return domain.Sender{}
	}

	if addr, err := mail.ParseAddress(from); err == nil {
		return domain.Sender{Address: addr.Address, Name: addr.Name}
	}

	if idx := strings.Index(from, "<"); idx >= 0 {
		address := strings.Trim(from[idx:], "<> ")
		return domain.Sender{
			Address: address,
			Name:    strings.TrimSpace(from[:idx]),
		}
	}

	return domain.Sender{Address: from}
}

func hasLabel(labels []string, labelID string) bool {
	for _, label := range labels {
		if label == labelID {
			return true
		}
	}
	return false
}
