// Package memory implements the dual-store retrieval pipeline behind memvault.
//
// Every note is written to two places: the authoritative archive (SQLite),
// which owns the canonical content, and the semantic index (chromem-go),
// which holds a disposable embedding projection keyed by the same id.
// Queries run the reverse path: embed the query, find the nearest note ids,
// hydrate them from the archive, and hand the result to a completion model
// for a grounded answer.
//
// Architecture:
//   - Archive: durable keyed storage for raw notes (source of truth)
//   - Index: nearest-neighbor search over note embeddings
//   - Embedder: text-to-vector conversion (OpenAI-compatible endpoint, mock for tests)
//   - Completer: prompt-to-answer generation (OpenAI-compatible endpoint or Anthropic)
//   - Coordinator: orchestrates the write and read pipelines
//
// The Coordinator is stateless per call: no background tasks, no cross-store
// transaction. The archive is always written before the index, so an index
// entry without a backing note cannot occur; the reverse gap (note persisted,
// indexing failed) is reported as PartialStoreError and repaired by Reconcile.
package memory
