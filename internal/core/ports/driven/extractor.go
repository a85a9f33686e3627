package driven

import "context"

// Extractor converts an uploaded file's raw bytes into plain text.
// Each extractor handles specific file extensions (e.g., .pdf, .docx).
type Extractor interface {
	// SupportedExtensions returns lower-case extensions including the
	// leading dot, e.g. [".txt", ".md"].
	SupportedExtensions() []string

	// Extract returns the plain text content of the file.
	// Returns domain.ErrNoExtractableText when the file contains no text.
	Extract(ctx context.Context, name string, data []byte) (string, error)
}
