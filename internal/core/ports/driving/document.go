package driving

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// DocumentService manages the uploaded document set.
type DocumentService interface {
	// Upload extracts, chunks and embeds a document, then stores the
	// result. Returns the number of chunks produced.
	Upload(ctx context.Context, filename string, data []byte) (int, error)

	// UploadFile reads and uploads a file from the local filesystem.
	UploadFile(ctx context.Context, path string) (int, error)

	// List returns a summary of every uploaded document.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// Remove deletes a document and its chunks.
	Remove(ctx context.Context, name string) error

	// Clear deletes all documents.
	Clear(ctx context.Context) error
}
