package driven

import (
	"context"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// CourseSource fetches raw course records from a data source.
// The JSON-file loader and the two scrapers (headless browser and
// static HTML) are interchangeable implementations producing the same
// record schema.
type CourseSource interface {
	// Name returns the source type identifier for logging.
	Name() string

	// Fetch retrieves all course records from the source.
	// Records may contain duplicates by URL; the indexer deduplicates.
	Fetch(ctx context.Context) ([]domain.CourseRecord, error)

	// Close releases resources (browser contexts, HTTP clients).
	Close() error
}
