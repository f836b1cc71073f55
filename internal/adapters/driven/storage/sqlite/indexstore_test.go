package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

// --- Test helpers ---

func testEntries() []driven.IndexEntry {
	return []driven.IndexEntry{
		{
			Vector: []float32{1, 0, 0},
			Chunk: domain.Chunk{
				ID:        "chunk-1",
				SourceURL: "https://example.com/go",
				Text:      "Title: Go Basics",
				Position:  0,
				Info: domain.CourseInfo{
					Title:      "Go Basics",
					URL:        "https://example.com/go",
					Price:      "$10",
					Instructor: "Alice",
				},
			},
		},
		{
			Vector: []float32{0, 1, 0},
			Chunk: domain.Chunk{
				ID:        "chunk-2",
				SourceURL: "https://example.com/go",
				Text:      "advanced channels",
				Position:  1,
				Info: domain.CourseInfo{
					Title:      "Go Basics",
					URL:        "https://example.com/go",
					Price:      "$10",
					Instructor: "Alice",
				},
			},
		},
	}
}

func newTestStore(t *testing.T) *IndexStore {
	t.Helper()
	store, err := NewIndexStore(t.TempDir())
	require.NoError(t, err)
	return store
}

// --- Tests ---

func TestIndexStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	meta := driven.IndexMeta{Model: "test-model", Dimensions: 3}
	entries := testEntries()

	require.NoError(t, store.Save(ctx, meta, entries))

	loaded, err := store.Load(ctx, meta)
	require.NoError(t, err)
	require.Equal(t, entries, loaded, "loaded entries must match saved entries exactly, in order")
}

func TestIndexStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), driven.IndexMeta{Model: "test-model", Dimensions: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIndexStore_ModelMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, driven.IndexMeta{Model: "model-a", Dimensions: 3}, testEntries()))

	_, err := store.Load(ctx, driven.IndexMeta{Model: "model-b", Dimensions: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncompatibleIndex))
}

func TestIndexStore_DimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, driven.IndexMeta{Model: "test-model", Dimensions: 3}, testEntries()))

	_, err := store.Load(ctx, driven.IndexMeta{Model: "test-model", Dimensions: 8})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncompatibleIndex))
}

func TestIndexStore_SaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	meta := driven.IndexMeta{Model: "test-model", Dimensions: 3}

	require.NoError(t, store.Save(ctx, meta, testEntries()))

	replacement := testEntries()[:1]
	require.NoError(t, store.Save(ctx, meta, replacement))

	loaded, err := store.Load(ctx, meta)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "chunk-1", loaded[0].Chunk.ID)
}

func TestIndexStore_EmptyIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	meta := driven.IndexMeta{Model: "test-model", Dimensions: 3}

	require.NoError(t, store.Save(ctx, meta, nil))

	loaded, err := store.Load(ctx, meta)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	vector := []float32{0.5, -1.25, 3.75, 0}
	assert.Equal(t, vector, bytesToFloat32Slice(float32SliceToBytes(vector)))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
