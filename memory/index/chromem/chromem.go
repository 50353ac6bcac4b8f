// Package chromem implements the semantic index on chromem-go, an
// embedded pure-Go vector database.
package chromem

import (
	"context"
	"fmt"
	"log"

	chromem "github.com/philippgille/chromem-go"
)

// CollectionName is the named vector collection holding note embeddings.
const CollectionName = "task_memory"

// Index wraps a chromem-go collection keyed by note id. Each entry holds
// the note's embedding and a metadata map carrying at least the timestamp.
// The archive owns canonical content, so entries here are disposable and
// can be rebuilt at any time.
type Index struct {
	col *chromem.Collection
}

// New creates an in-memory index.
func New() (*Index, error) {
	return newIndex(chromem.NewDB())
}

// NewPersistent creates an index persisted under dir.
func NewPersistent(dir string) (*Index, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("chromem: open persistent db: %w", err)
	}
	return newIndex(db)
}

func newIndex(db *chromem.DB) (*Index, error) {
	// Idempotent: reuses the collection when it already exists, which is
	// what happens on every restart of a persistent db.
	col, err := db.GetOrCreateCollection(CollectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: get or create collection: %w", err)
	}
	return &Index{col: col}, nil
}

// Add associates id with an embedding and metadata. Vector dimensionality
// must match the collection's existing entries; chromem rejects mismatches.
func (ix *Index) Add(ctx context.Context, id string, embedding []float32, metadata map[string]string) error {
	doc := chromem.Document{
		ID:        id,
		Embedding: embedding,
		Metadata:  metadata,
	}
	if err := ix.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("chromem: add document: %w", err)
	}
	return nil
}

// Nearest returns up to k note ids ordered by descending similarity.
func (ix *Index) Nearest(ctx context.Context, embedding []float32, k int) ([]string, error) {
	// chromem rejects nResults larger than the collection; clamp instead.
	count := ix.col.Count()
	if count == 0 {
		log.Printf("[CHROMEM] Collection is empty")
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := ix.col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query embedding: %w", err)
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// Has reports whether an entry for id exists.
func (ix *Index) Has(ctx context.Context, id string) (bool, error) {
	// chromem reports a missing id as an error; treat that as absence.
	if _, err := ix.col.GetByID(ctx, id); err != nil {
		return false, nil
	}
	return true, nil
}
