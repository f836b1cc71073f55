package cli

import (
	"context"

	"github.com/custodia-labs/coursefind-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/coursefind-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/coursefind-cli/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/coursefind-cli/internal/connectors/jsonfile"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursefind-cli/internal/core/services"
	"github.com/custodia-labs/coursefind-cli/internal/postprocessors/chunker"
)

// loadConfig resolves the config path and loads it.
func loadConfig() (configfile.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return configfile.Config{}, err
		}
	}
	return configfile.Load(path)
}

// buildIndexer wires the full build pipeline for the configured
// course source.
func buildIndexer(
	cfg configfile.Config,
	embedder driven.EmbeddingService,
	opts ...services.IndexerOption,
) (*services.Indexer, driven.CourseSource, error) {
	source := jsonfile.NewSource(cfg.Data.CoursesPath)

	proc, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewIndexStore(cfg.Data.IndexDir)
	if err != nil {
		return nil, nil, err
	}

	indexer := services.NewIndexer(
		source,
		services.NewNormalizer(),
		proc,
		embedder,
		store,
		flat.Build,
		opts...,
	)
	return indexer, source, nil
}

// loadIndex loads the persisted index, failing if it was built for a
// different embedding space.
func loadIndex(ctx context.Context, cfg configfile.Config, embedder driven.EmbeddingService) (driven.VectorIndex, error) {
	store, err := sqlite.NewIndexStore(cfg.Data.IndexDir)
	if err != nil {
		return nil, err
	}

	entries, err := store.Load(ctx, driven.IndexMeta{
		Model:      embedder.ModelName(),
		Dimensions: embedder.Dimensions(),
	})
	if err != nil {
		return nil, err
	}
	return flat.Build(entries)
}

// withIndexSwap publishes each successful build to the query service.
func withIndexSwap(svc *services.QueryService) services.IndexerOption {
	return services.WithOnBuilt(svc.SetIndex)
}

// buildQueryServiceWithoutIndex wires the query stack with no index
// attached. Searches fail with domain.ErrNotInitialized until SetIndex
// is called after a build.
func buildQueryServiceWithoutIndex(
	ctx context.Context, cfg configfile.Config,
) (*services.QueryService, driven.EmbeddingService, driven.LLMService, error) {
	embedder, err := ai.CreateEmbeddingService(ctx, cfg.Embedding)
	if err != nil {
		return nil, nil, nil, err
	}

	llm, err := ai.CreateLLMService(ctx, cfg.LLM)
	if err != nil {
		embedder.Close()
		return nil, nil, nil, err
	}

	svc := services.NewQueryService(services.NewClassifier(), embedder, llm, nil, cfg.Search.TopK)
	return svc, embedder, llm, nil
}

// buildQueryService wires the query stack against a loaded index.
func buildQueryService(
	ctx context.Context, cfg configfile.Config,
) (*services.QueryService, driven.EmbeddingService, driven.LLMService, error) {
	embedder, err := ai.CreateEmbeddingService(ctx, cfg.Embedding)
	if err != nil {
		return nil, nil, nil, err
	}

	llm, err := ai.CreateLLMService(ctx, cfg.LLM)
	if err != nil {
		embedder.Close()
		return nil, nil, nil, err
	}

	index, err := loadIndex(ctx, cfg, embedder)
	if err != nil {
		embedder.Close()
		llm.Close()
		return nil, nil, nil, err
	}

	svc := services.NewQueryService(services.NewClassifier(), embedder, llm, index, cfg.Search.TopK)
	return svc, embedder, llm, nil
}
