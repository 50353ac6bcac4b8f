package memory

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pfranklin/memvault/note"
)

// NoRelevantNotes is the answer QueryNotes returns when the index has
// nothing to offer. A cold or empty memory is a normal outcome, not an
// error, and it short-circuits before any completion call.
const NoRelevantNotes = "I couldn't find anything relevant."

// DefaultTopK is the number of notes retrieved when the caller does not
// override it.
const DefaultTopK = 5

const promptPreamble = "You are my personal work memory assistant.\n\n" +
	"Based on the following past notes, answer the user query clearly and concisely.\n"

// Coordinator orchestrates the write path (persist, embed, index) and the
// read path (embed, search, hydrate, complete) over explicitly injected
// stores and gateways. It holds no mutable state of its own; concurrent
// calls are independent and rely on globally-unique ids rather than locks.
type Coordinator struct {
	archive   Archive
	index     Index
	embedder  Embedder
	completer Completer
}

// NewCoordinator creates a Coordinator over the given stores and gateways.
func NewCoordinator(archive Archive, index Index, embedder Embedder, completer Completer) *Coordinator {
	return &Coordinator{
		archive:   archive,
		index:     index,
		embedder:  embedder,
		completer: completer,
	}
}

// StoreNote persists text as a new note and indexes its embedding.
// The archive is written first: an index entry must never exist without a
// backing note. If embedding or indexing fails after the archive write, the
// note is durable but unsearchable and the returned error is a
// *PartialStoreError carrying the note id; Reconcile repairs such gaps.
func (c *Coordinator) StoreNote(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty note text", ErrInvalidInput)
	}

	n := note.New(text)

	if err := c.archive.Insert(ctx, n); err != nil {
		return "", fmt.Errorf("persist note: %w", err)
	}

	embedding, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return n.ID, &PartialStoreError{NoteID: n.ID, Cause: err}
	}

	if err := c.index.Add(ctx, n.ID, embedding, map[string]string{"timestamp": n.Timestamp}); err != nil {
		return n.ID, &PartialStoreError{NoteID: n.ID, Cause: err}
	}

	log.Printf("[MEMORY] Stored note %s (%d chars)", n.ID, len(text))
	return n.ID, nil
}

// QueryOption adjusts a single QueryNotes call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	topK    int
	history []Turn
}

// WithTopK sets how many notes are retrieved for grounding. Must be at
// least 1; QueryNotes rejects smaller values with ErrInvalidInput.
func WithTopK(k int) QueryOption {
	return func(o *queryOptions) { o.topK = k }
}

// WithHistory passes earlier conversation turns into the prompt. The
// Coordinator stays stateless; the caller owns the history.
func WithHistory(turns []Turn) QueryOption {
	return func(o *queryOptions) { o.history = turns }
}

// QueryNotes answers a free-text query grounded in the most relevant
// stored notes. The grounding context preserves the index's relevance
// order; it is not re-sorted by timestamp. Gateway failures propagate as
// errors, never as a degraded answer.
func (c *Coordinator) QueryNotes(ctx context.Context, query string, opts ...QueryOption) (*Result, error) {
	qo := queryOptions{topK: DefaultTopK}
	for _, opt := range opts {
		opt(&qo)
	}
	if qo.topK < 1 {
		return nil, fmt.Errorf("%w: top-k must be at least 1, got %d", ErrInvalidInput, qo.topK)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}

	embedding, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	ids, err := c.index.Nearest(ctx, embedding, qo.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	log.Printf("[MEMORY] Retrieved %d note ids for query: %q", len(ids), truncateLog(query, 50))
	if len(ids) == 0 {
		return &Result{Answer: NoRelevantNotes}, nil
	}

	// Hydrate in relevance order. Ids missing from the archive are
	// dropped: a partial-failure leftover must not fail the whole query.
	notes, err := c.archive.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate notes: %w", err)
	}
	if len(notes) == 0 {
		return &Result{Answer: NoRelevantNotes}, nil
	}

	answer, err := c.completer.Complete(ctx, buildPrompt(query, notes, qo.history))
	if err != nil {
		return nil, fmt.Errorf("complete answer: %w", err)
	}

	return &Result{Answer: answer, Sources: notes}, nil
}

// Reconcile re-indexes archived notes missing from the semantic index,
// repairing gaps left by partial stores. Returns how many notes were
// re-indexed. It is an operator maintenance pass, never run automatically.
func (c *Coordinator) Reconcile(ctx context.Context) (int, error) {
	notes, err := c.archive.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list notes: %w", err)
	}

	repaired := 0
	for _, n := range notes {
		ok, err := c.index.Has(ctx, n.ID)
		if err != nil {
			return repaired, fmt.Errorf("check index for %s: %w", n.ID, err)
		}
		if ok {
			continue
		}

		embedding, err := c.embedder.Embed(ctx, n.Content)
		if err != nil {
			return repaired, fmt.Errorf("re-embed note %s: %w", n.ID, err)
		}
		if err := c.index.Add(ctx, n.ID, embedding, map[string]string{"timestamp": n.Timestamp}); err != nil {
			return repaired, fmt.Errorf("re-index note %s: %w", n.ID, err)
		}
		repaired++
	}

	if repaired > 0 {
		log.Printf("[MEMORY] Reconciled %d unindexed notes", repaired)
	}
	return repaired, nil
}

// buildPrompt assembles the single completion prompt: fixed preamble, the
// grounding context, the optional conversation so far, and the literal user
// query, in that fixed order.
func buildPrompt(query string, notes []note.Note, history []Turn) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\nPAST NOTES:\n")
	for _, n := range notes {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", n.Timestamp, n.Content)
	}
	if len(history) > 0 {
		b.WriteString("CONVERSATION SO FAR:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
		}
		b.WriteString("\n")
	}
	b.WriteString("USER QUERY:\n")
	b.WriteString(query)
	b.WriteString("\n")
	return b.String()
}

// truncateLog truncates text for logging.
func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
