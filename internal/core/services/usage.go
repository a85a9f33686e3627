package services

import (
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Fixed vocabularies for the data-usage and AI-usage intent filters.
// Phrases match with word boundaries; prefixes match the start of any word
// so "predicts", "predictive" and "predictions" all count.
var (
	dataUsagePhrases = []string{
		"event log", "event logs", "event data",
		"case identifier", "case identifiers", "case id", "case ids",
		"activity", "activities", "timestamp", "timestamps",
		"enterprise data", "operational data", "transaction data",
		"process data", "data extract", "data extracts",
		"data connector", "data connectors",
	}

	aiUsagePhrases = []string{
		"ai", "artificial intelligence", "machine learning", "ml",
		"root cause", "automation",
	}

	aiUsagePrefixes = []string{
		"predict", "pattern", "anomal", "algorithm", "model", "insight",
	}
)

// applyUsageFilter restricts ranked candidates to chunks matching the
// intent's fixed vocabulary, excluding intro/overview chunks. Applied after
// general ranking but before final selection. When the filtered set is
// empty the unfiltered ranking is kept unchanged - graceful degradation,
// not a hard failure.
func applyUsageFilter(candidates []scoredCandidate, phrases []string, prefixes []string) []scoredCandidate {
	filtered := make([]scoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if matchesIntro(cand.normText) {
			continue
		}
		if matchesUsageVocabulary(cand, phrases, prefixes) {
			filtered = append(filtered, cand)
		}
	}

	if len(filtered) == 0 {
		logger.Debug("Usage filter: no chunk matched the vocabulary, keeping unfiltered ranking")
		return candidates
	}

	logger.Debug("Usage filter: restricted ranking to %d of %d candidates", len(filtered), len(candidates))
	return filtered
}

func matchesUsageVocabulary(cand scoredCandidate, phrases []string, prefixes []string) bool {
	for _, p := range phrases {
		if containsPhrase(cand.normText, p) {
			return true
		}
	}
	for _, p := range prefixes {
		if hasWordPrefix(cand.words, p) {
			return true
		}
	}
	return false
}
