package driven

import (
	"context"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// IndexEntry pairs a chunk with its embedding vector. Entries are
// immutable once an index is built; a full rebuild is the only update
// path.
type IndexEntry struct {
	// Vector is the chunk's embedding.
	Vector []float32

	// Chunk is the indexed chunk with its course metadata.
	Chunk domain.Chunk
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Score is the cosine similarity to the query vector.
	Score float64
}

// VectorIndex provides k-nearest-neighbour search over chunk vectors.
// An index is read-only after construction, so concurrent searches need
// no locking. Results are totally ordered: descending similarity with
// ties broken by insertion order, making search deterministic for
// identical inputs.
type VectorIndex interface {
	// Search finds the k most similar entries to the query vector.
	// Returns at most k hits, most similar first. An empty index
	// returns an empty result, not an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of entries in the index.
	Len() int

	// Dimensions returns the vector dimensionality of the index.
	Dimensions() int

	// Entries returns the entries in insertion order, for persistence.
	Entries() []IndexEntry
}

// IndexBuilder constructs an immutable VectorIndex from entries.
// Construction is all-or-nothing: no partially built index is ever
// returned.
type IndexBuilder func(entries []IndexEntry) (VectorIndex, error)

// IndexMeta describes the embedding space an index was built in.
// A persisted index is only loadable when its meta matches the
// configured embedding provider.
type IndexMeta struct {
	// Model is the embedding model name the vectors were produced with.
	Model string

	// Dimensions is the vector dimensionality.
	Dimensions int
}

// IndexStore persists a built index. Save replaces any prior index at
// the same location atomically; readers never observe a partial index.
type IndexStore interface {
	// Save durably writes the entries and their meta, replacing any
	// previously persisted index wholesale.
	Save(ctx context.Context, meta IndexMeta, entries []IndexEntry) error

	// Load reads back the persisted entries in insertion order.
	// Returns domain.ErrNotFound if nothing was ever persisted, and
	// domain.ErrIncompatibleIndex if the persisted meta does not match
	// want.
	Load(ctx context.Context, want IndexMeta) ([]IndexEntry, error)
}
