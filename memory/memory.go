package memory

import (
	"context"

	"github.com/pfranklin/memvault/note"
)

// Archive is the authoritative store for note content.
// Implementations: SQLite (memory/archive/sqlite).
type Archive interface {
	// Insert appends a new note row. Returns ErrDuplicateID if the id
	// already exists.
	Insert(ctx context.Context, n note.Note) error

	// FetchByIDs returns the notes matching ids, in the order the ids
	// were requested. Ids not present are silently omitted; callers must
	// handle fewer results than requested.
	FetchByIDs(ctx context.Context, ids []string) ([]note.Note, error)

	// List returns every stored note. Used by reconciliation.
	List(ctx context.Context) ([]note.Note, error)
}

// Index is the nearest-neighbor search structure over note embeddings.
// Implementations: chromem-go (memory/index/chromem).
//
// The index holds a derived projection only; it may be rebuilt from the
// Archive at any time without information loss. Vector dimensionality must
// match what the Embedder produces; a mismatch is a configuration error.
type Index interface {
	// Add associates id with an embedding and opaque metadata. The
	// metadata carries at least the note's timestamp.
	Add(ctx context.Context, id string, embedding []float32, metadata map[string]string) error

	// Nearest returns up to k note ids ordered by relevance, nearest
	// first. Returns fewer than k if the index holds fewer entries, and
	// an empty result (never an error) if it is empty.
	Nearest(ctx context.Context, embedding []float32, k int) ([]string, error)

	// Has reports whether an entry for id exists.
	Has(ctx context.Context, id string) (bool, error)
}

// Embedder converts text to vector embeddings.
// Implementations: OpenAI-compatible endpoint (memory/embedder/openai),
// deterministic mock (memory/embedder/mock), ristretto-cached wrapper
// (memory/embedder/cached).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Completer turns a prompt into a generated text answer.
// Implementations: OpenAI-compatible endpoint (memory/completer/openai),
// Anthropic (memory/completer/anthropic).
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Turn is one exchange in a caller-owned conversation. Multi-turn chat is
// caller-side state: the Coordinator never remembers previous queries, the
// caller passes the turns it cares about into each QueryNotes call.
type Turn struct {
	Role    string `json:"role"` // "user" or "ai"
	Content string `json:"content"`
}

// Result is the outcome of a query: the generated answer plus the notes
// that grounded it, in relevance order.
type Result struct {
	Answer  string      `json:"answer"`
	Sources []note.Note `json:"sources,omitempty"`
}
