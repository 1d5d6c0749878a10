package rag

import "errors"

// Error kinds surfaced by the engine. Callers match with errors.Is; the
// concrete cause is always wrapped underneath.
var (
	// ErrStoreUnavailable means a document store read or write failed.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrEmbeddingFailure means the embedding provider call failed.
	ErrEmbeddingFailure = errors.New("embedding generation failed")

	// ErrGenerationFailure means the generation model call failed during
	// synthesis. Rerank failures never surface as this; they degrade to the
	// original order instead.
	ErrGenerationFailure = errors.New("answer generation failed")

	// ErrNotFound means an operation referenced an unknown document id.
	ErrNotFound = errors.New("document not found")

	// ErrMalformedModelOutput means the model response could not be parsed
	// as expected. For rerank this degrades to original order; for synthesis
	// it surfaces wrapped in ErrGenerationFailure.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrEmptyQuery means retrieval was invoked without query text.
	ErrEmptyQuery = errors.New("query must not be empty")
)
