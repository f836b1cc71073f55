package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrValidation indicates a malformed input course record.
	// Records failing validation must be rejected, never partially indexed.
	ErrValidation = errors.New("invalid course record")

	// ErrConfig indicates bad or missing configuration.
	// Raised at setup time, before any query is served.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmbedding indicates the embedding provider failed.
	ErrEmbedding = errors.New("embedding provider failure")

	// ErrGeneration indicates the generation backend failed.
	ErrGeneration = errors.New("generation backend failure")

	// ErrNotFound indicates a requested entity does not exist,
	// e.g. loading an index location that was never persisted.
	ErrNotFound = errors.New("not found")

	// ErrIncompatibleIndex indicates a persisted index cannot be used,
	// e.g. its dimensionality or embedding model does not match the
	// configured provider. Loading must fail rather than silently
	// return wrong results.
	ErrIncompatibleIndex = errors.New("incompatible index")

	// ErrNotInitialized indicates a query was issued before setup
	// completed. This is a programming-contract violation and is
	// surfaced loudly, never swallowed.
	ErrNotInitialized = errors.New("not initialized")
)
