// Package chunker splits normalised course documents into overlapping
// text chunks suitable for embedding.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of characters adjacent
// chunks share, so context is not lost at chunk boundaries.
const DefaultChunkOverlap = 50

// Processor splits document text into chunks of at most chunkSize
// characters. Splitting prefers paragraph boundaries, then sentence
// boundaries, then whitespace, and only then arbitrary offsets, so
// chunks avoid mid-word cuts where the text allows it.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// The overlap must be smaller than the chunk size; otherwise chunking
// could never advance, and New fails with domain.ErrConfig.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrConfig, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document text into chunks. Every chunk is a
// contiguous substring of doc.Text of at most chunkSize characters, and
// each chunk after the first begins with exactly the last overlap
// characters of its predecessor. Any non-empty document produces at
// least one chunk; an empty document produces none.
func (p *Processor) Process(doc domain.NormalizedDocument) []domain.Chunk {
	text := doc.Text
	if text == "" {
		return nil
	}

	// Each step forward covers at most chunkSize-overlap new characters;
	// the chunk is that segment prefixed with the previous chunk's tail,
	// keeping total length within chunkSize.
	step := p.chunkSize - p.overlap

	var chunks []domain.Chunk
	position := 0
	cut := 0

	for cut < len(text) {
		next := p.nextCut(text, cut, step)

		// The next chunk reaches overlap characters back from the cut,
		// so the first cut must land at least overlap in for the pair
		// to share the full overlap. Boundary preference yields here.
		if cut == 0 && next < len(text) && next < p.overlap {
			next = p.overlap
		}

		start := cut - p.overlap
		if start < 0 {
			start = 0
		}

		chunks = append(chunks, domain.Chunk{
			ID:        uuid.New().String(),
			SourceURL: doc.Info.URL,
			Text:      text[start:next],
			Position:  position,
			Info:      doc.Info,
		})

		position++
		cut = next
	}

	return chunks
}

// nextCut finds where the segment starting at pos should end. It scans
// at most limit characters ahead and prefers, in order: the last
// paragraph break, the last sentence end, the last whitespace. When the
// window contains none of these it cuts at the hard limit.
func (p *Processor) nextCut(text string, pos, limit int) int {
	end := pos + limit
	if end >= len(text) {
		return len(text)
	}

	window := text[pos:end]

	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return pos + i + 2
	}
	if i := lastSentenceEnd(window); i > 0 {
		return pos + i
	}
	if i := strings.LastIndexAny(window, " \t"); i > 0 {
		return pos + i + 1
	}
	return end
}

// lastSentenceEnd returns the offset just past the last sentence
// terminator in s, or 0 if there is none.
func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		switch s[i] {
		case '.', '!', '?', '\n':
			return i + 1
		}
	}
	return 0
}
