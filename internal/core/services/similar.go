package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// DefaultSimilarCourses is the default number of similar courses returned.
const DefaultSimilarCourses = 3

// similarOversample retrieves extra chunks per requested course so that
// several chunks matching the same course still leave n distinct ones.
const similarOversample = 4

// FindSimilar returns up to n courses whose indexed text is most
// similar to the given text, most similar first. Unlike Search there is
// no domain gate and no generation step; provider failures propagate to
// the caller.
func (s *QueryService) FindSimilar(ctx context.Context, text string, n int) ([]domain.CourseInfo, error) {
	if n <= 0 {
		n = DefaultSimilarCourses
	}

	index := s.currentIndex()
	if index == nil || s.embedder == nil {
		return nil, fmt.Errorf("%w: similar-course lookup requires an index and embedder", domain.ErrNotInitialized)
	}

	logger.Debug("Finding %d courses similar to %q", n, text)

	hits, err := s.retrieve(ctx, index, text, n*similarOversample)
	if err != nil {
		return nil, err
	}

	return collapseHits(hits, n), nil
}
