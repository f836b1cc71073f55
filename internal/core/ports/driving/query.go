package driving

import (
	"context"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// QueryService answers natural-language queries against the built
// course index. This is the single query interface the presentation
// layer consumes.
type QueryService interface {
	// Search classifies, retrieves and answers a query. Downstream
	// provider failures are degraded to a well-formed QueryResult with
	// a fixed error message; they are never returned as errors. The
	// only error returned is domain.ErrNotInitialized, a contract
	// violation raised when Search is called before setup.
	Search(ctx context.Context, query string) (domain.QueryResult, error)

	// FindSimilar returns up to n courses whose indexed text is most
	// similar to the given text, most similar first. A pure retrieval
	// utility: no domain gate and no generation step.
	FindSimilar(ctx context.Context, text string, n int) ([]domain.CourseInfo, error)
}

// IndexerService builds the course index from a source.
type IndexerService interface {
	// Build runs the full offline pipeline: fetch, dedupe, normalise,
	// chunk, embed, index, persist. Any error is fatal to the build;
	// no record is silently skipped. Returns the number of indexed
	// chunks.
	Build(ctx context.Context) (int, error)
}
