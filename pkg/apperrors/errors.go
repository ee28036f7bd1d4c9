// Package apperrors defines the error taxonomy shared across services,
// repositories and handlers.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrArchivePending is returned by topic conversion when the draft was
	// created but archiving the source topic failed. The conversion itself
	// succeeded; callers may retry the archive step.
	ErrArchivePending = errors.New("topic archive pending")
)

// ProviderError indicates an outright failure of an external collaborator
// call (AI provider, OAuth endpoint, storage). Never retried by the core.
type ProviderError struct {
	Provider   string // "openai", "anthropic", "linkedin", "storage"
	Message    string
	StatusCode int // HTTP status if known, 0 otherwise
	Retryable  bool
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// MalformedOutputError indicates the provider responded successfully but the
// payload could not be parsed into the expected shape for the generation
// type. The raw response is preserved in the ledger entry for diagnosis.
type MalformedOutputError struct {
	LedgerID uuid.UUID // entry holding the unparsed raw output
	Cause    error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed provider output (ledger %s): %v", e.LedgerID, e.Cause)
}

func (e *MalformedOutputError) Unwrap() error { return e.Cause }

// ApplyError indicates parsing succeeded and the ledger entry was written,
// but merging the result into the target entity failed. The ledger write is
// unaffected and the target entity is left exactly as it was.
type ApplyError struct {
	LedgerID   uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Cause      error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply to %s %s failed (ledger %s): %v", e.EntityType, e.EntityID, e.LedgerID, e.Cause)
}

func (e *ApplyError) Unwrap() error { return e.Cause }

// PersistenceError indicates the ledger or entity store rejected a
// read/write. No local retry.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// ReferentialCleanupError indicates a deletion's reference-nulling step
// failed. The root row delete is aborted rather than leaving a dangling
// reference.
type ReferentialCleanupError struct {
	Table  string // referencing table whose column could not be cleared
	Column string
	Cause  error
}

func (e *ReferentialCleanupError) Error() string {
	return fmt.Sprintf("referential cleanup of %s.%s failed: %v", e.Table, e.Column, e.Cause)
}

func (e *ReferentialCleanupError) Unwrap() error { return e.Cause }
