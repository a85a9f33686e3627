package services

import (
	"math"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// filterByEntity restricts the candidate chunk set to documents relevant to
// the extracted entity. A document is relevant if its filename contains the
// entity, its first chunk mentions the entity, or any chunk in the first 15%
// of the document (minimum one chunk) mentions it. When no document is
// relevant the full set is returned unfiltered: an entity miss must not
// produce an empty result on its own.
func filterByEntity(chunks []domain.EmbeddedChunk, entity string) []domain.EmbeddedChunk {
	if entity == "" {
		return chunks
	}

	counts := documentChunkCounts(chunks)
	relevant := make(map[string]bool)

	for _, ec := range chunks {
		doc := ec.Chunk.SourceFile
		if relevant[doc] {
			continue
		}
		if containsFold(doc, entity) {
			relevant[doc] = true
			continue
		}
		earlyWindow := int(math.Ceil(0.15 * float64(counts[doc])))
		if earlyWindow < 1 {
			earlyWindow = 1
		}
		if ec.Chunk.Index < earlyWindow && containsFold(ec.Chunk.Text, entity) {
			relevant[doc] = true
		}
	}

	if len(relevant) == 0 {
		logger.Debug("Document filter: no document matches entity %q, searching all", entity)
		return chunks
	}

	filtered := make([]domain.EmbeddedChunk, 0, len(chunks))
	for _, ec := range chunks {
		if relevant[ec.Chunk.SourceFile] {
			filtered = append(filtered, ec)
		}
	}
	logger.Debug("Document filter: %d of %d documents relevant to %q (%d chunks)",
		len(relevant), len(counts), entity, len(filtered))
	return filtered
}

// comparisonEligible applies the hard exclusion pass for comparison queries:
// a document survives only if any of its chunks mentions the entity. There
// is no fallback to the full set here; an empty result means zero candidates
// survive this pass.
func comparisonEligible(chunks []domain.EmbeddedChunk, entity string) []domain.EmbeddedChunk {
	if entity == "" {
		return chunks
	}

	eligible := make(map[string]bool)
	for _, ec := range chunks {
		if eligible[ec.Chunk.SourceFile] {
			continue
		}
		if containsFold(ec.Chunk.Text, entity) {
			eligible[ec.Chunk.SourceFile] = true
		}
	}

	filtered := make([]domain.EmbeddedChunk, 0, len(chunks))
	for _, ec := range chunks {
		if eligible[ec.Chunk.SourceFile] {
			filtered = append(filtered, ec)
		}
	}
	logger.Debug("Comparison exclusion: %d documents mention %q (%d chunks remain)",
		len(eligible), entity, len(filtered))
	return filtered
}

// documentChunkCounts returns the number of chunks per source document.
func documentChunkCounts(chunks []domain.EmbeddedChunk) map[string]int {
	counts := make(map[string]int)
	for _, ec := range chunks {
		counts[ec.Chunk.SourceFile]++
	}
	return counts
}
