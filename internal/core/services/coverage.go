package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// topicStopwords is the large stopword list used to isolate the query's
// topic words: the content words that are neither function words nor the
// primary entity. Broader than the entity extractor's list on purpose.
var topicStopwords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "because": true, "been": true, "before": true,
	"being": true, "between": true, "both": true, "but": true, "by": true,
	"can": true, "could": true, "describe": true, "did": true, "do": true,
	"does": true, "down": true, "during": true, "each": true,
	"explain": true, "few": true, "for": true, "from": true,
	"further": true, "get": true, "give": true, "had": true, "has": true,
	"have": true, "having": true, "he": true, "her": true, "here": true,
	"hers": true, "him": true, "his": true, "how": true, "i": true,
	"if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "just": true, "like": true, "make": true, "may": true,
	"me": true, "might": true, "more": true, "most": true, "must": true,
	"my": true, "no": true, "not": true, "now": true, "of": true,
	"off": true, "on": true, "once": true, "only": true, "or": true,
	"other": true, "our": true, "out": true, "over": true, "own": true,
	"please": true, "same": true, "she": true, "should": true,
	"show": true, "so": true, "some": true, "such": true, "tell": true,
	"than": true, "that": true, "the": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "to": true, "too": true,
	"under": true, "until": true, "up": true, "us": true, "use": true,
	"used": true, "uses": true, "using": true, "very": true, "was": true,
	"we": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "who": true, "whom": true, "why": true,
	"will": true, "with": true, "would": true, "you": true, "your": true,
}

// applyTopicGate is the final sanity check on the top-ranked chunk: if none
// of the query's non-entity content words appear anywhere in the winning
// chunk's source document, the match is almost certainly an entity-only
// match and is rejected. The gate stands down when the winner's keyword
// coverage or semantic similarity is already strong. Returns nil when the
// winner passes.
func (s *AskService) applyTopicGate(
	winner scoredCandidate,
	queryWords []string,
	entity string,
	docChunks []domain.EmbeddedChunk,
) *domain.Answer {
	topicWords := topicWordsOf(queryWords, entity)
	if len(topicWords) == 0 {
		return nil
	}

	if winner.KeywordCoverage >= s.weights.CoverageKeywordCeiling ||
		winner.SemanticSimilarity >= s.weights.CoverageSimilarityCeiling {
		return nil
	}

	var sb strings.Builder
	for _, ec := range docChunks {
		sb.WriteString(domain.Normalize(ec.Chunk.Text))
		sb.WriteByte(' ')
	}
	docWords := wordSet(sb.String())
	docStems := stemSet(docWords)

	for _, tw := range topicWords {
		if wordMatches(docWords, docStems, tw) {
			return nil
		}
	}

	logger.Info("Topic gate: %v absent from %s, rejecting match", topicWords, winner.Chunk.SourceFile)

	subject := "the document"
	if entity != "" {
		subject = fmt.Sprintf("the %s document", entity)
	}
	return &domain.Answer{
		Text: fmt.Sprintf("No information about %s was found in %s.",
			strings.Join(topicWords, ", "), subject),
		Source:      winner.Chunk.SourceFile,
		Confidence:  0,
		Explanation: fmt.Sprintf("missing topic words: %s", strings.Join(topicWords, ", ")),
	}
}

// topicWordsOf returns the query words minus stopwords and the primary
// entity token.
func topicWordsOf(queryWords []string, entity string) []string {
	entityLower := strings.ToLower(entity)
	var topic []string
	for _, w := range queryWords {
		// Single-letter fragments are possessive leftovers ("acme s
		// pricing"), not topics.
		if len(w) <= 1 || w == entityLower || topicStopwords[w] {
			continue
		}
		topic = append(topic, w)
	}
	return topic
}
