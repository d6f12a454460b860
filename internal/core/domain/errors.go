package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoTestCases indicates the candidate set is empty. This is an
	// expected operational state (nothing loaded yet), surfaced as an
	// explicit result rather than a crash.
	ErrNoTestCases = errors.New("no test cases loaded")

	// ErrShardUnknown indicates a shard name outside the configured
	// area table.
	ErrShardUnknown = errors.New("unknown corpus shard")

	// ErrMalformedReview indicates the LLM reviewer's output could not
	// be parsed as the expected JSON payload. Callers recover with the
	// unclassified raw data.
	ErrMalformedReview = errors.New("malformed reviewer response")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Review and duplicate classification degrade to raw scores.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Similarity ranking is impossible without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
