package memory

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Gateway adapters wrap the service sentinels so callers
// can classify failures with errors.Is without importing the adapter.
var (
	// ErrInvalidInput rejects empty note text or a non-positive top-k.
	ErrInvalidInput = errors.New("memory: invalid input")

	// ErrDuplicateID reports an id collision on insert. Ids are generated
	// globally unique, so a collision is an internal invariant violation;
	// it is surfaced, never retried.
	ErrDuplicateID = errors.New("memory: duplicate note id")

	// ErrEmbeddingService reports an embedding gateway failure: network,
	// service error, or malformed response.
	ErrEmbeddingService = errors.New("memory: embedding service")

	// ErrCompletionService reports a completion gateway failure.
	ErrCompletionService = errors.New("memory: completion service")
)

// PartialStoreError reports a note whose content was persisted but whose
// indexing failed: the note is durable but unsearchable until a Reconcile
// pass re-embeds it. It is distinct from full success so operators can
// observe the gap rather than discover it by a missing search result.
type PartialStoreError struct {
	NoteID string
	Cause  error
}

func (e *PartialStoreError) Error() string {
	return fmt.Sprintf("memory: note %s stored but not indexed: %v", e.NoteID, e.Cause)
}

func (e *PartialStoreError) Unwrap() error { return e.Cause }
