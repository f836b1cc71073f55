// Package ai provides factory functions for creating AI service
// adapters from configuration.
package ai

import (
	"context"
	"fmt"
	"time"

	configfile "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/config/file"
	geminiembed "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/embedding/openai"
	geminillm "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/coursefind-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity
// validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the configured embedding backend.
func CreateEmbeddingService(ctx context.Context, cfg configfile.ProviderConfig) (driven.EmbeddingService, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case configfile.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case configfile.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	case configfile.ProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey: key,
			Model:  cfg.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", domain.ErrConfig, cfg.Provider)
	}
}

// CreateLLMService creates the configured generation backend.
func CreateLLMService(ctx context.Context, cfg configfile.ProviderConfig) (driven.LLMService, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case configfile.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case configfile.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	case configfile.ProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey: key,
			Model:  cfg.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported llm provider %q", domain.ErrConfig, cfg.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity, so a bad key or unreachable backend fails at
// setup rather than mid-build.
func CreateAndValidateEmbeddingService(ctx context.Context, cfg configfile.ProviderConfig) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: embedding backend unreachable: %v", domain.ErrEmbedding, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity.
func CreateAndValidateLLMService(ctx context.Context, cfg configfile.ProviderConfig) (driven.LLMService, error) {
	svc, err := CreateLLMService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: generation backend unreachable: %v", domain.ErrGeneration, err)
	}
	return svc, nil
}
