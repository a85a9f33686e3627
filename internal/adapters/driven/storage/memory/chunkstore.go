// Package memory provides in-memory implementations of the driven storage
// ports. Nothing is persisted: the store lives and dies with the process.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is a mutex-guarded in-memory implementation of
// driven.ChunkStore. Reads return snapshots, so a search running
// concurrently with an upload never observes a partially appended batch.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks []domain.EmbeddedChunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

// All returns every embedded chunk in upload order.
func (s *ChunkStore) All(_ context.Context) ([]domain.EmbeddedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]domain.EmbeddedChunk, len(s.chunks))
	copy(snapshot, s.chunks)
	return snapshot, nil
}

// ByDocument returns the chunks of a single document in index order.
func (s *ChunkStore) ByDocument(_ context.Context, name string) ([]domain.EmbeddedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.EmbeddedChunk
	for _, ec := range s.chunks {
		if ec.Chunk.SourceFile == name {
			result = append(result, ec)
		}
	}
	return result, nil
}

// Documents returns a summary of every stored document, in first-upload
// order.
func (s *ChunkStore) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	var infos []domain.DocumentInfo
	for _, ec := range s.chunks {
		i, seen := index[ec.Chunk.SourceFile]
		if !seen {
			i = len(infos)
			index[ec.Chunk.SourceFile] = i
			infos = append(infos, domain.DocumentInfo{
				Name:     ec.Chunk.SourceFile,
				FileSize: ec.Chunk.FileSize,
			})
		}
		infos[i].Chunks++
	}
	return infos, nil
}

// Add appends a batch of embedded chunks under the write lock, so readers
// see either none or all of the batch.
func (s *ChunkStore) Add(_ context.Context, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// RemoveDocument removes all chunks of the named document.
func (s *ChunkStore) RemoveDocument(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chunks[:0:0]
	removed := false
	for _, ec := range s.chunks {
		if ec.Chunk.SourceFile == name {
			removed = true
			continue
		}
		kept = append(kept, ec)
	}
	if !removed {
		return domain.ErrNotFound
	}
	s.chunks = kept
	return nil
}

// Clear removes everything.
func (s *ChunkStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}
