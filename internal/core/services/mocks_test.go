package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

// --- Port mocks shared across service tests ---

// mockEmbedder returns canned vectors keyed by text, or a fixed error.
// batchPad appends that many extra vectors to every batch, simulating a
// provider that breaks the one-vector-per-text contract.
type mockEmbedder struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	fallback   []float32
	err        error
	dimensions int
	calls      int
	batchPad   int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{
		vectors:    make(map[string][]float32),
		fallback:   make([]float32, dims),
		dimensions: dims,
	}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	for i := 0; i < m.batchPad; i++ {
		out = append(out, m.fallback)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int                { return m.dimensions }
func (m *mockEmbedder) ModelName() string              { return "mock-embedder" }
func (m *mockEmbedder) Ping(ctx context.Context) error { return nil }
func (m *mockEmbedder) Close() error                   { return nil }

func (m *mockEmbedder) embedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLM returns a canned answer and records the last prompt.
type mockLLM struct {
	answer     string
	err        error
	lastPrompt string
	calls      int
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string              { return "mock-llm" }
func (m *mockLLM) Ping(ctx context.Context) error { return nil }
func (m *mockLLM) Close() error                   { return nil }

// mockIndex is a trivial cosine-free index: it returns its entries in
// stored order with descending synthetic scores, or a fixed error.
type mockIndex struct {
	entries []driven.IndexEntry
	err     error
}

func (m *mockIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if m.err != nil {
		return nil, m.err
	}
	if k > len(m.entries) {
		k = len(m.entries)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = driven.VectorHit{Chunk: m.entries[i].Chunk, Score: 1 - float64(i)*0.1}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

func (m *mockIndex) Len() int                     { return len(m.entries) }
func (m *mockIndex) Dimensions() int              { return 3 }
func (m *mockIndex) Entries() []driven.IndexEntry { return m.entries }

// mockSource serves fixed records.
type mockSource struct {
	records []domain.CourseRecord
	err     error
}

func (m *mockSource) Name() string { return "mock" }
func (m *mockSource) Fetch(ctx context.Context) ([]domain.CourseRecord, error) {
	return m.records, m.err
}
func (m *mockSource) Close() error { return nil }

// mockStore records what was saved.
type mockStore struct {
	mu      sync.Mutex
	meta    driven.IndexMeta
	entries []driven.IndexEntry
	saveErr error
	saves   int
}

func (m *mockStore) Save(ctx context.Context, meta driven.IndexMeta, entries []driven.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.meta = meta
	m.entries = entries
	m.saves++
	return nil
}

func (m *mockStore) Load(ctx context.Context, want driven.IndexMeta) ([]driven.IndexEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saves == 0 {
		return nil, fmt.Errorf("%w: nothing saved", domain.ErrNotFound)
	}
	return m.entries, nil
}

// courseChunk builds an index entry for a course with the given text.
func courseChunk(id, url, title, text string) driven.IndexEntry {
	return driven.IndexEntry{
		Vector: []float32{1, 0, 0},
		Chunk: domain.Chunk{
			ID:        id,
			SourceURL: url,
			Text:      text,
			Info:      domain.CourseInfo{Title: title, URL: url, Price: "Free"},
		},
	}
}
