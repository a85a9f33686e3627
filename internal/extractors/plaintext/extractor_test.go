package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestSupportedExtensions(t *testing.T) {
	extractor := New()
	exts := extractor.SupportedExtensions()

	require.NotEmpty(t, exts)
	assert.Contains(t, exts, ".txt")
	assert.Contains(t, exts, ".md")
}

func TestExtract_Success(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	text, err := extractor.Extract(ctx, "notes.txt", []byte("Hello World"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
}

func TestExtract_Markdown(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	content := "# Heading\n\nBody text with **bold** words."
	text, err := extractor.Extract(ctx, "readme.md", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	text, err := extractor.Extract(ctx, "broken.txt", []byte{'o', 'k', 0xff, 0xfe, '!'})
	require.NoError(t, err)
	assert.Contains(t, text, "ok")
	assert.Contains(t, text, "�")
}

func TestExtract_Empty(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	text, err := extractor.Extract(ctx, "empty.txt", []byte("   \n\t "))
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Empty(t, text)
}
