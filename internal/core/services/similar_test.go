package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

func TestFindSimilar(t *testing.T) {
	index := &mockIndex{entries: []driven.IndexEntry{
		courseChunk("c1", "https://example.com/python", "Python for Data Science", "part 1"),
		courseChunk("c2", "https://example.com/python", "Python for Data Science", "part 2"),
		courseChunk("c3", "https://example.com/ml", "Machine Learning 101", "part 1"),
		courseChunk("c4", "https://example.com/sql", "SQL Fundamentals", "part 1"),
	}}
	svc := newTestQueryService(index, newMockEmbedder(3), &mockLLM{})

	matches, err := svc.FindSimilar(context.Background(), "Python for Data Science", 2)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "Python for Data Science", matches[0].Title)
	assert.Equal(t, "Machine Learning 101", matches[1].Title,
		"repeat chunks of the best course must not crowd out the second course")
}

func TestFindSimilar_SingleBestMatch(t *testing.T) {
	index := &mockIndex{entries: []driven.IndexEntry{
		courseChunk("c1", "https://example.com/python", "Python for Data Science", "Title: Python for Data Science"),
		courseChunk("c2", "https://example.com/ml", "Machine Learning 101", "Title: Machine Learning 101"),
	}}
	svc := newTestQueryService(index, newMockEmbedder(3), &mockLLM{})

	matches, err := svc.FindSimilar(context.Background(), "Python for Data Science", 1)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "Python for Data Science", matches[0].Title)
}

func TestFindSimilar_DefaultCount(t *testing.T) {
	index := &mockIndex{entries: []driven.IndexEntry{
		courseChunk("c1", "https://example.com/a", "A", "a"),
		courseChunk("c2", "https://example.com/b", "B", "b"),
		courseChunk("c3", "https://example.com/c", "C", "c"),
		courseChunk("c4", "https://example.com/d", "D", "d"),
	}}
	svc := newTestQueryService(index, newMockEmbedder(3), &mockLLM{})

	matches, err := svc.FindSimilar(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Len(t, matches, DefaultSimilarCourses)
}

func TestFindSimilar_NotInitialized(t *testing.T) {
	svc := newTestQueryService(nil, newMockEmbedder(3), &mockLLM{})

	_, err := svc.FindSimilar(context.Background(), "Python", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotInitialized))
}

func TestFindSimilar_PropagatesEmbeddingError(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.err = errors.New("provider down")
	svc := newTestQueryService(&mockIndex{}, embedder, &mockLLM{})

	_, err := svc.FindSimilar(context.Background(), "Python", 3)
	require.Error(t, err, "unlike Search, similar lookups surface provider faults")
	assert.True(t, errors.Is(err, domain.ErrEmbedding))
}
