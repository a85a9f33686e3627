package domain

// Chunk represents a fixed-size window of text extracted from a source
// document. Chunks are immutable once created: they are produced at upload
// time and removed only when their source document is removed.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the raw (unnormalised) text of the window.
	Text string

	// SourceFile is the filename of the document this chunk came from.
	SourceFile string

	// Index is the 0-based position of this chunk within its document.
	// It is the sole ordering key for "early in document" reasoning.
	Index int

	// StartIndex is the character offset of the window start in the
	// document's extracted text.
	StartIndex int

	// EndIndex is the character offset one past the window end.
	EndIndex int

	// FileSize is the size in bytes of the original uploaded file.
	FileSize int
}

// EmbeddedChunk pairs a chunk with its embedding vector.
// Every chunk in the store has exactly one embedding; the pair is added
// and removed as a unit and the vector is never mutated.
type EmbeddedChunk struct {
	Chunk     Chunk
	Embedding []float32
}

// DocumentInfo summarises an uploaded document.
type DocumentInfo struct {
	// Name is the document's filename.
	Name string

	// Chunks is the number of chunks the document was split into.
	Chunks int

	// FileSize is the size in bytes of the original file.
	FileSize int
}
