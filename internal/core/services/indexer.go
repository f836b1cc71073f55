package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driving"
	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexerService = (*Indexer)(nil)

// Default batching for embedding calls.
const (
	// DefaultEmbedBatchSize is the number of chunk texts per embedding
	// request.
	DefaultEmbedBatchSize = 32

	// DefaultEmbedWorkers bounds how many embedding batches run
	// concurrently.
	DefaultEmbedWorkers = 4
)

// Indexer runs the offline build pipeline: fetch course records,
// deduplicate, normalise, chunk, embed, build the index and persist it.
// Builds always replace the prior index wholesale; there is no
// incremental merge.
type Indexer struct {
	source     driven.CourseSource
	normalizer *Normalizer
	chunker    driven.Chunker
	embedder   driven.EmbeddingService
	store      driven.IndexStore
	build      driven.IndexBuilder

	batchSize int
	workers   int

	// onBuilt, when set, receives the freshly built index after a
	// successful persist. Used to atomically swap the serving index.
	onBuilt func(driven.VectorIndex)
}

// IndexerOption configures the indexer.
type IndexerOption func(*Indexer)

// WithEmbedBatchSize sets the number of texts per embedding request.
func WithEmbedBatchSize(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// WithEmbedWorkers bounds concurrent embedding batches.
func WithEmbedWorkers(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// WithOnBuilt registers a callback invoked with each successfully
// built and persisted index.
func WithOnBuilt(fn func(driven.VectorIndex)) IndexerOption {
	return func(ix *Indexer) {
		ix.onBuilt = fn
	}
}

// NewIndexer creates an indexer over the given source and pipeline
// stages.
func NewIndexer(
	source driven.CourseSource,
	normalizer *Normalizer,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.IndexStore,
	build driven.IndexBuilder,
	opts ...IndexerOption,
) *Indexer {
	ix := &Indexer{
		source:     source,
		normalizer: normalizer,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		build:      build,
		batchSize:  DefaultEmbedBatchSize,
		workers:    DefaultEmbedWorkers,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build runs the full pipeline. Any failure - an invalid record, an
// embedding fault, a persistence error - is fatal to the build and
// surfaces to the operator; no record is silently skipped. Returns the
// number of indexed chunks.
func (ix *Indexer) Build(ctx context.Context) (int, error) {
	logger.Section("Index Build")

	records, err := ix.source.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch courses from %s: %w", ix.source.Name(), err)
	}
	logger.Info("Fetched %d course records from %s", len(records), ix.source.Name())

	deduped := domain.DedupeByURL(records)
	if dropped := len(records) - len(deduped); dropped > 0 {
		logger.Info("Deduplicated %d records by URL (keep-last)", dropped)
	}

	var chunks []domain.Chunk
	for _, record := range deduped {
		doc, err := ix.normalizer.Normalize(record)
		if err != nil {
			return 0, fmt.Errorf("normalize course %q: %w", record.URL, err)
		}
		chunks = append(chunks, ix.chunker.Process(doc)...)
	}
	logger.Info("Split %d courses into %d chunks", len(deduped), len(chunks))

	entries, err := ix.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	index, err := ix.build(entries)
	if err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}

	meta := driven.IndexMeta{
		Model:      ix.embedder.ModelName(),
		Dimensions: ix.embedder.Dimensions(),
	}
	if err := ix.store.Save(ctx, meta, entries); err != nil {
		return 0, fmt.Errorf("persist index: %w", err)
	}
	logger.Info("Persisted index: %d entries, model=%s, dims=%d",
		len(entries), meta.Model, meta.Dimensions)

	if ix.onBuilt != nil {
		ix.onBuilt(index)
	}

	return len(entries), nil
}

// embedChunks embeds all chunk texts in bounded concurrent batches.
// Batches are independent, so ordering across them is irrelevant as
// long as each vector lands next to its own chunk; results are written
// by offset to keep that association intact.
func (ix *Indexer) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]driven.IndexEntry, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(chunks))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	sem := make(chan struct{}, ix.workers)

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(start, end int) {
			defer wg.Done()
			defer func() { <-sem }()

			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = chunks[i].Text
			}

			batch, err := ix.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: embed chunks %d-%d: %v", domain.ErrEmbedding, start, end-1, err)
				}
				mu.Unlock()
				return
			}
			if len(batch) != len(texts) {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: embed chunks %d-%d: got %d vectors for %d texts",
						domain.ErrEmbedding, start, end-1, len(batch), len(texts))
				}
				mu.Unlock()
				return
			}

			for i, vector := range batch {
				vectors[start+i] = vector
			}
		}(start, end)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	entries := make([]driven.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = driven.IndexEntry{Vector: vectors[i], Chunk: chunk}
	}
	return entries, nil
}
