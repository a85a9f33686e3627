package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService handles the ingest side: extract text, split into
// chunks, embed, store. Uploading a document that already exists replaces
// it.
type DocumentService struct {
	store    driven.ChunkStore
	embedder driven.EmbeddingService
	registry driven.ExtractorRegistry
	chunker  driven.Chunker
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	store driven.ChunkStore,
	embedder driven.EmbeddingService,
	registry driven.ExtractorRegistry,
	chunker driven.Chunker,
) *DocumentService {
	return &DocumentService{
		store:    store,
		embedder: embedder,
		registry: registry,
		chunker:  chunker,
	}
}

// Upload extracts, chunks and embeds a document, then stores the result.
// Returns the number of chunks produced.
func (s *DocumentService) Upload(ctx context.Context, filename string, data []byte) (int, error) {
	logger.Section("Document Upload")
	name := filepath.Base(filename)
	logger.Debug("Uploading %s (%d bytes)", name, len(data))

	extractor, err := s.registry.ForFile(name)
	if err != nil {
		return 0, fmt.Errorf("select extractor for %s: %w", name, err)
	}

	text, err := extractor.Extract(ctx, name, data)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", name, err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("extract %s: %w", name, domain.ErrNoExtractableText)
	}
	logger.Debug("Extracted %d characters", len(text))

	chunks := s.chunker.Split(text, name, len(data))
	if len(chunks) == 0 {
		return 0, fmt.Errorf("chunk %s: %w", name, domain.ErrNoExtractableText)
	}
	logger.Debug("Split into %d chunks", len(chunks))

	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", name, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embed %s: got %d embeddings for %d chunks", name, len(embeddings), len(chunks))
	}

	embedded := make([]domain.EmbeddedChunk, len(chunks))
	for i := range chunks {
		embedded[i] = domain.EmbeddedChunk{Chunk: chunks[i], Embedding: embeddings[i]}
	}

	// Replace semantics: a re-upload of the same filename supersedes the
	// previous content.
	if err := s.store.RemoveDocument(ctx, name); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("replace %s: %w", name, err)
	}
	if err := s.store.Add(ctx, embedded); err != nil {
		return 0, fmt.Errorf("store %s: %w", name, err)
	}

	logger.Info("Stored %s: %d chunks", name, len(chunks))
	return len(chunks), nil
}

// UploadFile reads and uploads a file from the local filesystem.
func (s *DocumentService) UploadFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Upload(ctx, path, data)
}

// List returns a summary of every uploaded document.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	return s.store.Documents(ctx)
}

// Remove deletes a document and its chunks.
func (s *DocumentService) Remove(ctx context.Context, name string) error {
	return s.store.RemoveDocument(ctx, filepath.Base(name))
}

// Clear deletes all documents.
func (s *DocumentService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
