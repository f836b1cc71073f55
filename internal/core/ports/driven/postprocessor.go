package driven

import "github.com/custodia-labs/coursefind-cli/internal/core/domain"

// Chunker splits a normalised document into overlapping chunks for
// embedding. Chunk order within a document is stable.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Process splits the document text into chunks. A non-empty
	// document yields at least one chunk.
	Process(doc domain.NormalizedDocument) []domain.Chunk
}
