package scoring

import (
	"strings"
	"time"

	"mail-triage-backend/internal/triage/domain"
)

// Factor names, reported in the fixed evaluation order below so the
// "why this score" explanation is reproducible.
const (
	FactorUnread       = "unread"
	FactorHumanSender  = "human-sender"
	FactorActionable   = "actionable"
	FactorActiveThread = "active-thread"
	FactorFlagged      = "flagged"
	FactorRecent       = "recent"
	FactorCCOnly       = "cc-only"
	FactorNewsletter   = "newsletter"
)

const recencyWindow = 48 * time.Hour

// Scorer computes a 0-100 priority score for a message record. Scoring is
// deterministic for a given record and clock reading.
type Scorer struct {
	heuristics Heuristics
	now        func() time.Time
}

// NewScorer creates a scorer using the given heuristics; empty pattern
// lists fall back to the defaults.
func NewScorer(h Heuristics) *Scorer {
	return &Scorer{
		heuristics: h.merged(),
		now:        time.Now,
	}
}

// NewScorerAt creates a scorer with a fixed clock, for reproducible scoring.
func NewScorerAt(h Heuristics, now func() time.Time) *Scorer {
	s := NewScorer(h)
	if now != nil {
		s.now = now
	}
	return s
}

// Score evaluates every factor in canonical order, sums the applied deltas
// and clamps the total once to [0,100].
func (s *Scorer) Score(record domain.MessageRecord) domain.ScoreResult {
	var factors []domain.Factor
	apply := func(name string, delta int) {
		factors = append(factors, domain.Factor{Name: name, Delta: delta})
	}

	sender := strings.ToLower(record.Sender.Address)
	if sender == "" {
		sender = strings.ToLower(record.Sender.Name)
	}
	blob := strings.ToLower(record.Subject + " " + record.Snippet)

	if record.Unread {
		apply(FactorUnread, 25)
	}
	if !matchAny(sender, s.heuristics.NoReplyPatterns) && !matchAny(sender, s.heuristics.NewsletterPatterns) {
		apply(FactorHumanSender, 15)
	}
	if strings.Contains(record.Subject, "?") || matchAny(blob, s.heuristics.ActionCues) {
		apply(FactorActionable, 10)
	}
	if record.ThreadSize > 2 {
		apply(FactorActiveThread, 10)
	}
	if record.Starred || record.Important {
		apply(FactorFlagged, 15)
	}
	if age := s.now().Sub(record.Timestamp); age >= 0 && age < recencyWindow {
		apply(FactorRecent, 10)
	}
	if record.CCOnly {
		apply(FactorCCOnly, -10)
	}
	if matchAny(sender, s.heuristics.NewsletterPatterns) || matchAny(blob, s.heuristics.NewsletterPatterns) {
		apply(FactorNewsletter, -20)
	}

	total := 0
	for _, f := range factors {
		total += f.Delta
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return domain.ScoreResult{Score: total, Factors: factors}
}

func matchAny(haystack string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(haystack, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
