// Package plaintext extracts text from plain text and Markdown files.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads .txt and .md files as UTF-8 text.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".md"}
}

// Extract returns the file content as a string. Invalid UTF-8 sequences
// are replaced so downstream processing always sees valid text.
func (e *Extractor) Extract(_ context.Context, name string, data []byte) (string, error) {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", name, domain.ErrNoExtractableText)
	}
	return text, nil
}
