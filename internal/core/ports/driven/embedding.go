package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Identical text yields an identical vector for a fixed model version;
// the rest of the system depends only on this contract, not on any
// specific embedding algorithm.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (all-minilm, nomic-embed-text)
//   - Gemini (text-embedding-004)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result is order-preserving and has the same length as texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is fixed for the lifetime of an index.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at setup so missing credentials fail fast.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
