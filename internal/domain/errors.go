package domain

import "errors"

var (
	// ErrInvalidEmail signals a malformed email record (missing id or body).
	ErrInvalidEmail = errors.New("invalid email record")
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStore signals a vector store persistence failure.
	ErrVectorStore = errors.New("vector store error")
	// ErrGenerationFailed signals an LLM completion failure after successful retrieval.
	ErrGenerationFailed = errors.New("answer generation failed")
	// ErrModelMismatch signals an attempt to mix embedding models in one index.
	ErrModelMismatch = errors.New("embedding model mismatch")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// KeyPrefix namespaces every key the service writes to the store.
const KeyPrefix = "mailrag:"
