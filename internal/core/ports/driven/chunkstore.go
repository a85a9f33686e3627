package driven

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// ChunkStore holds the embedded chunks for all uploaded documents.
// It is an owned, injectable object rather than ambient global state, so
// tests can construct isolated stores per case. Implementations must allow
// concurrent reads; writes (Add/RemoveDocument/Clear) require exclusive
// access to the backing collection.
type ChunkStore interface {
	// All returns every embedded chunk in the store, in upload order.
	// The returned slice is a snapshot; a search running concurrently
	// with an upload never observes a partially appended batch.
	All(ctx context.Context) ([]domain.EmbeddedChunk, error)

	// ByDocument returns the chunks of a single document in index order.
	ByDocument(ctx context.Context, name string) ([]domain.EmbeddedChunk, error)

	// Documents returns a summary of every stored document.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)

	// Add appends a batch of embedded chunks. A document's chunks are
	// always added as one batch.
	Add(ctx context.Context, chunks []domain.EmbeddedChunk) error

	// RemoveDocument removes all chunks of the named document.
	// Returns domain.ErrNotFound if the document has no chunks.
	RemoveDocument(ctx context.Context, name string) error

	// Clear removes everything.
	Clear(ctx context.Context) error
}
