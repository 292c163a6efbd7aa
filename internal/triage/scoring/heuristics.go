package scoring

// Heuristics holds the pattern lists behind the content-based scoring
// factors. The point values are fixed; the classification patterns are
// deliberately configurable because they are heuristic by nature.
type Heuristics struct {
	// ActionCues are imperative/action words that, together with a
	// question mark in the subject, mark a message as actionable.
	ActionCues []string `yaml:"action_cues"`
	// NoReplyPatterns mark a sender address as automated rather than human.
	NoReplyPatterns []string `yaml:"no_reply_patterns"`
	// NewsletterPatterns mark bulk/newsletter mail in the sender address
	// or the subject/snippet text.
	NewsletterPatterns []string `yaml:"newsletter_patterns"`
}

// DefaultHeuristics returns the built-in pattern lists.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		ActionCues: []string{
			"urgent", "deadline", "action", "reply", "due", "please", "asap",
		},
		NoReplyPatterns: []string{
			"no-reply", "noreply", "donotreply", "mailer-daemon",
		},
		NewsletterPatterns: []string{
			"unsubscribe", "newsletter", "no-reply", "noreply", "bulletin",
		},
	}
}

// merged returns h with empty lists replaced by the defaults, so a partial
// heuristics file only overrides what it names.
func (h Heuristics) merged() Heuristics {
	def := DefaultHeuristics()
	if len(h.ActionCues) == 0 {
		h.ActionCues = def.ActionCues
	}
	if len(h.NoReplyPatterns) == 0 {
		h.NoReplyPatterns = def.NoReplyPatterns
	}
	if len(h.NewsletterPatterns) == 0 {
		h.NewsletterPatterns = def.NewsletterPatterns
	}
	return h
}
