// Package flat provides an exact, in-memory vector index using
// brute-force cosine similarity over all entries.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an immutable vector index. Build is the only way to create
// one; Search never mutates it, so concurrent reads need no locking.
type Index struct {
	dims    int
	entries []driven.IndexEntry
	norms   []float64
}

// Build constructs an index from entries. All vectors must share one
// dimensionality; a mismatch fails the whole build, never yielding a
// partially built index. An empty entry set yields a valid empty index.
func Build(entries []driven.IndexEntry) (driven.VectorIndex, error) {
	ix := &Index{
		entries: make([]driven.IndexEntry, len(entries)),
		norms:   make([]float64, len(entries)),
	}
	copy(ix.entries, entries)

	for i, entry := range ix.entries {
		if len(entry.Vector) == 0 {
			return nil, fmt.Errorf("entry %d: empty vector", i)
		}
		if ix.dims == 0 {
			ix.dims = len(entry.Vector)
		}
		if len(entry.Vector) != ix.dims {
			return nil, fmt.Errorf("entry %d: vector has %d dimensions, index has %d",
				i, len(entry.Vector), ix.dims)
		}
		ix.norms[i] = norm(entry.Vector)
	}

	return ix, nil
}

// Search returns the k most similar entries to the query vector,
// ordered by descending cosine similarity with ties broken by insertion
// order. An empty index returns an empty result.
func (ix *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(ix.entries) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != ix.dims {
		return nil, fmt.Errorf("query vector has %d dimensions, index has %d", len(query), ix.dims)
	}

	queryNorm := norm(query)

	scored := make([]driven.VectorHit, len(ix.entries))
	order := make([]int, len(ix.entries))
	for i, entry := range ix.entries {
		scored[i] = driven.VectorHit{
			Chunk: entry.Chunk,
			Score: cosine(query, entry.Vector, queryNorm, ix.norms[i]),
		}
		order[i] = i
	}

	// Stable sort keeps insertion order for equal scores, which makes
	// results a total order for identical inputs.
	sort.SliceStable(order, func(a, b int) bool {
		return scored[order[a]].Score > scored[order[b]].Score
	})

	if k > len(order) {
		k = len(order)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = scored[order[i]]
	}
	return hits, nil
}

// Len returns the number of entries in the index.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Dimensions returns the vector dimensionality of the index.
func (ix *Index) Dimensions() int {
	return ix.dims
}

// Entries returns a copy of the entries in insertion order.
func (ix *Index) Entries() []driven.IndexEntry {
	out := make([]driven.IndexEntry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// cosine computes cosine similarity given precomputed norms.
// Zero-norm vectors score 0 rather than dividing by zero.
func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

// norm computes the L2 norm of a vector.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
