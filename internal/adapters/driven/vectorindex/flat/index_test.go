package flat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

func entry(title string, vector []float32) driven.IndexEntry {
	return driven.IndexEntry{
		Vector: vector,
		Chunk: domain.Chunk{
			ID:        "chunk-" + title,
			SourceURL: "https://example.com/" + title,
			Text:      title,
			Info: domain.CourseInfo{
				Title: title,
				URL:   "https://example.com/" + title,
			},
		},
	}
}

func TestBuild_Empty(t *testing.T) {
	ix, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())

	hits, err := ix.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBuild_DimensionMismatch(t *testing.T) {
	_, err := Build([]driven.IndexEntry{
		entry("a", []float32{1, 0, 0}),
		entry("b", []float32{1, 0}),
	})
	require.Error(t, err)
}

func TestBuild_EmptyVector(t *testing.T) {
	_, err := Build([]driven.IndexEntry{entry("a", nil)})
	require.Error(t, err)
}

func TestSearch_ExactDuplicateFirst(t *testing.T) {
	// Five entries, one being an exact duplicate of the query vector.
	query := []float32{0.2, 0.9, 0.1}
	ix, err := Build([]driven.IndexEntry{
		entry("a", []float32{1, 0, 0}),
		entry("b", []float32{0, 1, 0}),
		entry("exact", query),
		entry("c", []float32{0, 0, 1}),
		entry("d", []float32{0.5, 0.5, 0.5}),
	})
	require.NoError(t, err)

	hits, err := ix.Search(context.Background(), query, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "exact", hits[0].Chunk.Info.Title)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	for _, hit := range hits[1:] {
		assert.Less(t, hit.Score, hits[0].Score)
	}
}

func TestSearch_TiesBrokenByInsertionOrder(t *testing.T) {
	// Two identical vectors: the earlier insertion must rank first.
	ix, err := Build([]driven.IndexEntry{
		entry("first", []float32{1, 1}),
		entry("second", []float32{1, 1}),
		entry("other", []float32{1, 0}),
	})
	require.NoError(t, err)

	hits, err := ix.Search(context.Background(), []float32{1, 1}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "first", hits[0].Chunk.Info.Title)
	assert.Equal(t, "second", hits[1].Chunk.Info.Title)
	assert.Equal(t, "other", hits[2].Chunk.Info.Title)
}

func TestSearch_KLargerThanIndex(t *testing.T) {
	ix, err := Build([]driven.IndexEntry{
		entry("only", []float32{1, 0}),
	})
	require.NoError(t, err)

	hits, err := ix.Search(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	ix, err := Build([]driven.IndexEntry{
		entry("a", []float32{1, 0, 0}),
	})
	require.NoError(t, err)

	_, err = ix.Search(context.Background(), []float32{1, 0}, 1)
	require.Error(t, err)
}

func TestSearch_DescendingScores(t *testing.T) {
	ix, err := Build([]driven.IndexEntry{
		entry("far", []float32{0, 1}),
		entry("near", []float32{0.9, 0.1}),
		entry("mid", []float32{0.5, 0.5}),
	})
	require.NoError(t, err)

	hits, err := ix.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "near", hits[0].Chunk.Info.Title)
	assert.Equal(t, "mid", hits[1].Chunk.Info.Title)
	assert.Equal(t, "far", hits[2].Chunk.Info.Title)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	assert.GreaterOrEqual(t, hits[1].Score, hits[2].Score)
}

func TestEntries_ReturnsInsertionOrderCopy(t *testing.T) {
	in := []driven.IndexEntry{
		entry("a", []float32{1, 0}),
		entry("b", []float32{0, 1}),
	}
	ix, err := Build(in)
	require.NoError(t, err)

	out := ix.Entries()
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Chunk.Info.Title)
	assert.Equal(t, "b", out[1].Chunk.Info.Title)

	// Mutating the copy must not affect the index.
	out[0].Chunk.Info.Title = "mutated"
	assert.Equal(t, "a", ix.Entries()[0].Chunk.Info.Title)
}
