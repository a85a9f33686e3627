package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// Fixed early-exit answers. Each maps to one branch of the error taxonomy;
// all of them are recoverable at the request level.
const (
	msgNoDocuments  = "No documents have been uploaded yet. Upload a document before asking questions."
	msgNoRelevant   = "No relevant information was found for your query."
	msgNoDefinition = "No clear definition was found in the uploaded documents."
	msgNoComparison = "No clear comparison was found in the uploaded documents."
)

// AskService runs the query-time ranking pipeline: intent classification,
// entity extraction, document-level filtering, multi-factor scoring, tiered
// definition/comparison resolution, the topic coverage gate and snippet
// extraction. Each request computes purely derived, request-local state and
// only reads the shared chunk store, so concurrent requests do not
// interfere.
type AskService struct {
	store    driven.ChunkStore
	embedder driven.EmbeddingService
	weights  Weights
}

// NewAskService creates a new ask service with default scoring weights.
func NewAskService(store driven.ChunkStore, embedder driven.EmbeddingService) *AskService {
	return &AskService{
		store:    store,
		embedder: embedder,
		weights:  DefaultWeights(),
	}
}

// SetWeights overrides the scoring constants. Intended for per-corpus
// tuning and for tests.
func (s *AskService) SetWeights(w Weights) {
	s.weights = w
}

// Ask answers a free-text query from the uploaded documents.
func (s *AskService) Ask(ctx context.Context, query string) (domain.Answer, error) {
	logger.Section("Query Pipeline")
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, domain.ErrInvalidInput
	}
	logger.Debug("Query: %q", query)

	all, err := s.store.All(ctx)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("read chunk store: %w", err)
	}
	if len(all) == 0 {
		logger.Debug("Store is empty")
		return domain.Answer{Text: msgNoDocuments, Source: "", Confidence: 0}, nil
	}

	intent := ClassifyIntent(query)
	queryWords := domain.NormalizeWords(query)

	if s.embedder == nil {
		return domain.Answer{}, domain.ErrEmbeddingUnavailable
	}
	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		// Never masked with a default vector: an embedding failure is
		// fatal for the request.
		return domain.Answer{}, fmt.Errorf("embed query: %w", err)
	}

	docCounts := documentChunkCounts(all)

	pool := filterByEntity(all, intent.PrimaryEntity)

	var comparison map[string]comparisonAdjust
	if intent.Kind == domain.IntentComparison {
		pool = comparisonEligible(pool, intent.PrimaryEntity)
		pool, comparison = s.resolveComparison(pool, intent.PrimaryEntity, intent.ComparisonTerms, docCounts)
		if len(pool) == 0 {
			logger.Info("Comparison: no usable chunks survived resolution")
			return domain.Answer{Text: msgNoComparison, Source: "", Confidence: 0}, nil
		}
	}

	candidates := s.scoreCandidates(pool, queryEmbedding, queryWords, intent, docCounts, comparison)
	rank(candidates)

	if intent.Kind == domain.IntentDefinition && intent.DefinitionSubject != "" {
		return s.answerDefinition(ctx, query, queryWords, intent, candidates, all, docCounts)
	}

	if len(candidates) == 0 {
		if intent.Kind == domain.IntentComparison {
			return domain.Answer{Text: msgNoComparison, Source: "", Confidence: 0}, nil
		}
		return domain.Answer{Text: msgNoRelevant, Source: "", Confidence: 0}, nil
	}

	switch intent.Kind {
	case domain.IntentDataUsage:
		candidates = applyUsageFilter(candidates, dataUsagePhrases, nil)
	case domain.IntentAIUsage:
		candidates = applyUsageFilter(candidates, aiUsagePhrases, aiUsagePrefixes)
	}

	winner := candidates[0]
	logger.Info("Winner: %s[%d] score=%.3f (sim=%.3f cov=%.2f)",
		winner.Chunk.SourceFile, winner.Chunk.Index, winner.FinalScore,
		winner.SemanticSimilarity, winner.KeywordCoverage)

	if len(queryWords) >= 2 {
		if rejected := s.gateWinner(ctx, winner, queryWords, intent.PrimaryEntity); rejected != nil {
			return *rejected, nil
		}
	}

	return s.composeAnswer(winner, query), nil
}

// answerDefinition runs the tiered definition resolver. Definition queries
// never fall back to generic ranking; when every tier fails the fixed "no
// clear definition" answer is returned. The topic coverage gate still runs
// first so "What is X's pricing?" over a document that never mentions
// pricing reports the missing topic rather than a non-answer.
func (s *AskService) answerDefinition(
	ctx context.Context,
	query string,
	queryWords []string,
	intent domain.QueryIntent,
	candidates []scoredCandidate,
	all []domain.EmbeddedChunk,
	docCounts map[string]int,
) (domain.Answer, error) {
	if len(candidates) > 0 && len(queryWords) >= 2 {
		if rejected := s.gateWinner(ctx, candidates[0], queryWords, intent.PrimaryEntity); rejected != nil {
			return *rejected, nil
		}
	}

	res := s.resolveDefinition(intent.DefinitionSubject, candidates, all, docCounts)
	if res.answer != nil {
		return *res.answer, nil
	}

	// Ranking is restricted to exactly the tier survivors; they are
	// already in rank order because tier selection preserved it.
	winner := candidates[res.tierSet[0]]
	for _, i := range res.tierSet[1:] {
		if candidates[i].FinalScore > winner.FinalScore {
			winner = candidates[i]
		}
	}

	logger.Info("Definition winner: %s[%d] score=%.3f",
		winner.Chunk.SourceFile, winner.Chunk.Index, winner.FinalScore)

	return s.composeAnswer(winner, query), nil
}

// gateWinner applies the topic coverage gate to the top-ranked chunk.
// Returns the rejection answer, or nil when the winner passes.
func (s *AskService) gateWinner(
	ctx context.Context,
	winner scoredCandidate,
	queryWords []string,
	entity string,
) *domain.Answer {
	docChunks, err := s.store.ByDocument(ctx, winner.Chunk.SourceFile)
	if err != nil {
		logger.Warn("Topic gate: reading %s failed: %v", winner.Chunk.SourceFile, err)
		return nil
	}
	return s.applyTopicGate(winner, queryWords, entity, docChunks)
}

// composeAnswer extracts the display snippet from the winning chunk and
// clamps the final score into a confidence.
func (s *AskService) composeAnswer(winner scoredCandidate, query string) domain.Answer {
	snippet := extractSnippet(winner.Chunk.Text, query)
	return domain.Answer{
		Text:       snippet,
		Source:     winner.Chunk.SourceFile,
		Confidence: clamp01(winner.FinalScore),
	}
}
