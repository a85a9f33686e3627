package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type with no registered extractor.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Uploads and queries both require embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrNoExtractableText indicates a document produced no text content.
	ErrNoExtractableText = errors.New("no extractable text")
)
