package domain

import "fmt"

// NormalizationError means the raw provider metadata is missing a mandatory
// field. The affected message is skipped; the batch continues.
type NormalizationError struct {
	MessageID string
	Field     string
}

func (e *NormalizationError) Error() string {
	if e.MessageID == "" {
		return fmt.Sprintf("normalize: missing mandatory field %q", e.Field)
	}
	return fmt.Sprintf("normalize message %s: missing mandatory field %q", e.MessageID, e.Field)
}

// GenerationError wraps a backend failure. The gateway handles these by
// falling back to the rule-based backend; callers only see one if the
// request itself was invalid.
type GenerationError struct {
	MessageID string
	Backend   Provenance
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate draft for message %s via %s: %v", e.MessageID, e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError is a per-message failure to create a provider-side
// draft: missing scope, network, or provider rejection.
type PersistenceError struct {
	MessageID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist draft for message %s: %v", e.MessageID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
