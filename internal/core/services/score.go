package services

import (
	"regexp"
	"sort"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// introIndicators flag chunks that read like a document intro or overview.
// Used to dampen position bonuses on definition queries and to exclude
// intro chunks from the usage filters.
var introIndicators = []*regexp.Regexp{
	regexp.MustCompile(`this (document|guide) (provides|covers|explains|describes)`),
	regexp.MustCompile(`detailed understanding`),
	regexp.MustCompile(`purpose of this (document|guide)`),
	regexp.MustCompile(`the following sections`),
	regexp.MustCompile(`overview of the`),
	regexp.MustCompile(`table of contents`),
}

// scoredCandidate couples a candidate with per-request derived text forms so
// later stages do not re-normalise the same chunk repeatedly.
type scoredCandidate struct {
	domain.Candidate
	normText string
	words    map[string]bool
	stems    map[string]bool
}

// comparisonAdjust carries the comparison resolver's per-chunk score
// adjustments into the scorer, keyed by chunk ID.
type comparisonAdjust struct {
	bonus        float64
	introPenalty float64
}

// scoreCandidates computes the multi-term heuristic score for every chunk
// that passes the admission rule. The admission rule is a cheap pre-filter:
// a chunk with no query keyword overlap is scored only when its semantic
// similarity reaches the admission threshold.
func (s *AskService) scoreCandidates(
	pool []domain.EmbeddedChunk,
	queryEmbedding []float32,
	queryWords []string,
	intent domain.QueryIntent,
	docCounts map[string]int,
	comparison map[string]comparisonAdjust,
) []scoredCandidate {
	candidates := make([]scoredCandidate, 0, len(pool))

	for _, ec := range pool {
		normText := domain.Normalize(ec.Chunk.Text)
		words := wordSet(normText)
		stems := stemSet(words)

		coverage := keywordCoverage(queryWords, words, stems)
		similarity := domain.CosineSimilarity(queryEmbedding, ec.Embedding)

		if coverage == 0 && similarity < s.weights.AdmissionSimilarity {
			continue
		}

		cand := scoredCandidate{
			Candidate: domain.Candidate{
				Chunk:              ec.Chunk,
				SemanticSimilarity: similarity,
				KeywordCoverage:    coverage,
			},
			normText: normText,
			words:    words,
			stems:    stems,
		}

		cand.PositionBonus = s.positionBonus(ec.Chunk, docCounts[ec.Chunk.SourceFile], intent.Kind, normText)
		cand.ExplicitTermBonus = s.explicitTermBonus(normText, intent.IntentKeywords)

		if adj, ok := comparison[ec.Chunk.ID]; ok {
			cand.ComparisonBonus = adj.bonus
			cand.ComparisonIntroPenalty = adj.introPenalty
		}

		cand.FinalScore = cand.SemanticSimilarity +
			s.weights.KeywordWeight*cand.KeywordCoverage +
			cand.PositionBonus +
			cand.ExplicitTermBonus +
			cand.DefinitionBonus +
			cand.DefinitionPenalty +
			cand.ComparisonBonus +
			cand.ComparisonIntroPenalty

		candidates = append(candidates, cand)
	}

	logger.Debug("Scored %d of %d chunks past admission", len(candidates), len(pool))
	return candidates
}

// rank sorts candidates by final score, descending. The sort is stable so
// ties keep their discovery order (document, then chunk index).
func rank(candidates []scoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})
}

// keywordCoverage returns the fraction of query words present in the chunk,
// by exact word-boundary match first and crude stem match second.
func keywordCoverage(queryWords []string, chunkWords, chunkStems map[string]bool) float64 {
	if len(queryWords) == 0 {
		return 0
	}
	matched := 0
	for _, qw := range queryWords {
		if wordMatches(chunkWords, chunkStems, qw) {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}

// positionBonus rewards chunks early in their document. For definition
// queries the bonus is reduced when the chunk reads like an intro/overview,
// since intro chunks are usually not the actual definition.
func (s *AskService) positionBonus(chunk domain.Chunk, docCount int, kind domain.IntentKind, normText string) float64 {
	intro := kind == domain.IntentDefinition && matchesIntro(normText)

	if chunk.Index == 0 {
		if intro {
			return s.weights.FirstChunkIntroBonus
		}
		return s.weights.FirstChunkBonus
	}

	if docCount > 0 && float64(chunk.Index)/float64(docCount) < s.weights.EarlyDocRatio {
		if intro {
			return s.weights.EarlyChunkIntroBonus
		}
		return s.weights.EarlyChunkBonus
	}

	return 0
}

// explicitTermBonus rewards chunks that contain one of the query's detected
// intent keyword forms, as a phrase or word-boundary match.
func (s *AskService) explicitTermBonus(normText string, keywords []string) float64 {
	for _, kw := range keywords {
		if containsPhrase(normText, kw) {
			return s.weights.ExplicitTermBonus
		}
	}
	return 0
}

func matchesIntro(normText string) bool {
	for _, re := range introIndicators {
		if re.MatchString(normText) {
			return true
		}
	}
	return false
}
