// Package mock provides a deterministic embedder for tests and offline use.
//
// The same text always maps to the same unit vector, so a stored note is
// retrievable by querying its own text; distinct texts map to effectively
// random directions. There is no real semantic similarity.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder generates hash-derived embeddings.
type Embedder struct {
	dims int
}

// New creates a mock embedder producing vectors of the given size.
// A non-positive size defaults to 384, matching all-MiniLM-L6-v2.
func New(dims int) *Embedder {
	if dims <= 0 {
		dims = 384
	}
	return &Embedder{dims: dims}
}

// Embed creates a deterministic embedding from the text's hash.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))

	// Use the hash as the seed of an LCG and fill the vector with
	// pseudo-random values in [-1, 1].
	seed := h.Sum64()
	embedding := make([]float32, e.dims)
	for i := range embedding {
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// normalize converts the embedding to a unit vector.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
