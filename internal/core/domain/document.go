package domain

// NormalizedDocument is the canonical text form of a course record.
// Text is a deterministic serialisation of the record: normalising the
// same record twice yields byte-identical text, which keeps index
// builds reproducible.
type NormalizedDocument struct {
	// Text is the full labelled serialisation of the course record.
	Text string

	// Info is the compact metadata inherited by every chunk.
	Info CourseInfo
}

// Chunk is a bounded substring of a normalised document and the unit
// stored in the vector index.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceURL identifies the course document this chunk came from.
	SourceURL string

	// Text is the chunk content, always a contiguous substring of the
	// source document's Text.
	Text string

	// Position is the ordinal position within the document. Chunk order
	// within a document is stable.
	Position int

	// Info is the course metadata inherited from the source document.
	Info CourseInfo
}

// QueryResult is the answer produced for a single query. The JSON field
// names are the public contract consumed by the presentation layer.
type QueryResult struct {
	// Answer is the synthesised answer text, or a fixed guidance/error
	// message. May be empty, never reports a raw fault.
	Answer string `json:"Search Result"`

	// Matches are the courses backing the answer, most similar first.
	// Always non-nil, at most top-k entries.
	Matches []CourseInfo `json:"Similar Courses"`
}
