package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driving"
	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultTopK is the default number of chunks retrieved per query.
const DefaultTopK = 3

// Fixed user-facing messages. The public query interface never exposes
// a raw fault.
const (
	// RejectionMessage is returned for out-of-domain queries.
	RejectionMessage = "Please enter a query related to courses."

	// FailureMessage is returned when retrieval or generation fails.
	FailureMessage = "An error occurred while processing your query."
)

// answerPrompt stuffs all retrieved chunk texts into a single
// generation call and constrains the answer to that text.
const answerPrompt = `You are a course catalogue assistant. Answer the question using ONLY the course excerpts below. If the excerpts do not contain the answer, say that you could not find a matching course.

Course excerpts:
%s

Question: %s

Answer:`

// QueryService answers natural-language queries against the course
// index: classify, retrieve, synthesise. It also serves standalone
// similar-course lookups. Safe for concurrent use; the index is
// read-only and swapped atomically on rebuild.
type QueryService struct {
	classifier *Classifier
	embedder   driven.EmbeddingService
	llm        driven.LLMService
	topK       int

	mu    sync.RWMutex
	index driven.VectorIndex
}

// NewQueryService creates a query service. The embedder and llm are
// required for Search; the index may be attached later via SetIndex
// (e.g. after the first build), but Search before that fails with
// domain.ErrNotInitialized.
func NewQueryService(
	classifier *Classifier,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	index driven.VectorIndex,
	topK int,
) *QueryService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &QueryService{
		classifier: classifier,
		embedder:   embedder,
		llm:        llm,
		index:      index,
		topK:       topK,
	}
}

// SetIndex atomically replaces the index served to readers. Called
// after a rebuild so in-flight searches finish against the old index.
func (s *QueryService) SetIndex(index driven.VectorIndex) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
}

// currentIndex returns the index to serve this query from.
func (s *QueryService) currentIndex() driven.VectorIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Search answers a query. Out-of-domain queries are rejected with a
// fixed message before any retrieval work. Downstream failures degrade
// to a fixed error message and are logged; the only error Search itself
// returns is domain.ErrNotInitialized.
func (s *QueryService) Search(ctx context.Context, query string) (domain.QueryResult, error) {
	logger.Section("Query Execution")
	logger.Debug("Query: %q", query)

	index := s.currentIndex()
	if index == nil || s.embedder == nil || s.llm == nil {
		return domain.QueryResult{}, fmt.Errorf("%w: query service requires an index, embedder and generation backend", domain.ErrNotInitialized)
	}

	// Reject: the gate runs before any embedding or generation cost.
	if !s.classifier.IsInDomain(query) {
		logger.Info("Query rejected as out-of-domain")
		return domain.QueryResult{
			Answer:  RejectionMessage,
			Matches: []domain.CourseInfo{},
		}, nil
	}

	// Retrieve.
	hits, err := s.retrieve(ctx, index, query, s.topK)
	if err != nil {
		logger.Error("retrieval failed: %v", err)
		return failureResult(), nil
	}
	logger.Debug("Retrieved %d chunks", len(hits))

	// Synthesize: stuff all retrieved chunk texts into one generation.
	answer, err := s.synthesize(ctx, query, hits)
	if err != nil {
		logger.Error("generation failed: %v", err)
		return failureResult(), nil
	}

	return domain.QueryResult{
		Answer:  answer,
		Matches: collapseHits(hits, s.topK),
	}, nil
}

// retrieve embeds the query and searches the index.
func (s *QueryService) retrieve(
	ctx context.Context, index driven.VectorIndex, query string, k int,
) ([]driven.VectorHit, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrEmbedding, err)
	}

	hits, err := index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return hits, nil
}

// synthesize generates a grounded answer over the retrieved chunks.
func (s *QueryService) synthesize(ctx context.Context, query string, hits []driven.VectorHit) (string, error) {
	if len(hits) == 0 {
		return "No matching courses were found for your query.", nil
	}

	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Chunk.Text
	}
	prompt := fmt.Sprintf(answerPrompt, strings.Join(texts, "\n---\n"), query)

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return strings.TrimSpace(answer), nil
}

// failureResult is the fixed degraded result for downstream faults.
func failureResult() domain.QueryResult {
	return domain.QueryResult{
		Answer:  FailureMessage,
		Matches: []domain.CourseInfo{},
	}
}

// collapseHits maps hits to course metadata, dropping repeat courses
// (several chunks of one course can match) while preserving the search
// order. Returns at most n entries and never nil.
func collapseHits(hits []driven.VectorHit, n int) []domain.CourseInfo {
	matches := make([]domain.CourseInfo, 0, n)
	seen := make(map[string]bool, len(hits))

	for _, hit := range hits {
		if seen[hit.Chunk.Info.URL] {
			continue
		}
		seen[hit.Chunk.Info.URL] = true
		matches = append(matches, hit.Chunk.Info)
		if len(matches) == n {
			break
		}
	}
	return matches
}
