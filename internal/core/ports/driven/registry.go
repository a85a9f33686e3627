package driven

// ExtractorRegistry selects the extractor for an uploaded file.
type ExtractorRegistry interface {
	// ForFile returns the extractor for the file's extension.
	// Returns domain.ErrUnsupportedType when no extractor is registered.
	ForFile(name string) (Extractor, error)
}
