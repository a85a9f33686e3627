package driven

import "github.com/custodia-labs/askdoc/internal/core/domain"

// Chunker splits extracted document text into fixed-size overlapping
// windows ready for embedding.
type Chunker interface {
	// Split produces the ordered chunks of a document's extracted text.
	Split(content, sourceFile string, fileSize int) []domain.Chunk
}
