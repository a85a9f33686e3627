package extractors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/extractors/docx"
	"github.com/custodia-labs/askdoc/internal/extractors/pdf"
	"github.com/custodia-labs/askdoc/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExtension: make(map[string]driven.Extractor)}
}

// Register adds an extractor for all of its supported extensions.
// Later registrations win on conflict.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// ForFile returns the extractor for the file's extension.
func (r *Registry) ForFile(name string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(name))
	e, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
	return e, nil
}

// Defaults returns a registry with all built-in extractors registered.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	return r
}
