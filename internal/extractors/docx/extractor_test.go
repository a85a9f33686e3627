package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestSupportedExtensions(t *testing.T) {
	extractor := New()
	exts := extractor.SupportedExtensions()

	require.NotEmpty(t, exts)
	assert.Contains(t, exts, ".docx")
	assert.Len(t, exts, 1)
}

func TestExtract_Success(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := extractor.Extract(ctx, "document.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
}

func TestExtract_InvalidZip(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	text, err := extractor.Extract(ctx, "invalid.docx", []byte("not a zip file"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, text)
}

func TestExtract_MultipleParagraphs(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Third paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := extractor.Extract(ctx, "doc.docx", content)
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph")
	assert.Contains(t, text, "Second paragraph")
	assert.Contains(t, text, "Third paragraph")
	// Paragraphs should be separated by newlines
	assert.Contains(t, text, "\n")
}

func TestExtract_MultipleRuns(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	// Multiple runs in a single paragraph (e.g., different formatting)
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p>
<w:r><w:t>Hello </w:t></w:r>
<w:r><w:t>World</w:t></w:r>
</w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := extractor.Extract(ctx, "doc.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
}

func TestExtract_EmptyDocument(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := extractor.Extract(ctx, "empty.docx", content)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Empty(t, text)
}

func BenchmarkExtract(b *testing.B) {
	extractor := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = extractor.Extract(ctx, "document.docx", content)
	}
}
