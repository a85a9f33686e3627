package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Query classification patterns. Definition strictly dominates; comparison,
// data-usage and AI-usage are checked in that priority order.
var (
	definitionStartRe = regexp.MustCompile(`(?i)^\s*(what\s+is\b|define\b)`)
	whatIsSubjectRe   = regexp.MustCompile(`(?i)^\s*what\s+is\s+([^?]+)`)
	defineSubjectRe   = regexp.MustCompile(`(?i)^\s*define\s*:?\s*([^?:]+)`)
	leadingArticleRe  = regexp.MustCompile(`(?i)^(a|an|the)\s+`)

	comparisonRe = regexp.MustCompile(`(?i)\b(difference|differences|vs\.?|versus|compare|comparison)\b`)

	dataUsagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwhat\s+data\b`),
		regexp.MustCompile(`(?i)\bdata\s+does\b`),
		regexp.MustCompile(`(?i)\buses?\s+data\b`),
		regexp.MustCompile(`(?i)\busing\s+data\b`),
		regexp.MustCompile(`(?i)\btypes?\s+of\s+data\b`),
		regexp.MustCompile(`(?i)\bkinds?\s+of\s+data\b`),
		regexp.MustCompile(`(?i)\bdata\s+sources?\b`),
	}

	aiUsagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\buses?\s+ai\b`),
		regexp.MustCompile(`(?i)\bai\s+usage\b`),
		regexp.MustCompile(`(?i)\bartificial\s+intelligence\b`),
		regexp.MustCompile(`(?i)\bmachine\s+learning\b`),
		regexp.MustCompile(`(?i)\bai\s+capabilit\w*`),
		regexp.MustCompile(`(?i)\bhow\b.*\bai\b`),
		regexp.MustCompile(`(?i)\bwhat\s+ai\b`),
	}

	// Intent keyword detectors for the explicit term bonus. These are
	// independent of the data-usage/AI-usage intent flags: a generic
	// query mentioning data still earns the bonus on chunks that talk
	// about data explicitly.
	dataKeywordRe = regexp.MustCompile(`(?i)\bdata\b`)
	aiKeywordRe   = regexp.MustCompile(`(?i)\b(ai|artificial\s+intelligence|machine\s+learning|ml)\b`)
)

// entityStopwords are tokens that can never be the query's primary entity,
// even when capitalised at the start of a sentence. Covers interrogatives,
// articles and domain-generic terms.
var entityStopwords = map[string]bool{
	"what": true, "is": true, "are": true, "was": true, "were": true,
	"how": true, "why": true, "when": true, "where": true, "which": true,
	"who": true, "does": true, "do": true, "did": true, "can": true,
	"could": true, "would": true, "should": true, "the": true, "a": true,
	"an": true, "of": true, "for": true, "and": true, "or": true,
	"in": true, "on": true, "to": true, "with": true, "about": true,
	"tell": true, "show": true, "explain": true, "describe": true,
	"define": true, "give": true, "please": true,
	"data": true, "ai": true, "artificial": true, "intelligence": true,
	"machine": true, "learning": true, "platform": true, "system": true,
	"tool": true, "software": true, "use": true, "uses": true, "used": true,
	"using": true,
}

// comparisonVocabulary extends the stopword list for the comparison-path
// entity extractor, so "Difference" or "Versus" at the start of a query is
// never mistaken for a proper noun.
var comparisonVocabulary = map[string]bool{
	"difference": true, "differences": true, "between": true, "vs": true,
	"versus": true, "compare": true, "comparison": true, "compared": true,
	"contrast": true, "contrasted": true,
}

var tokenNonWordRe = regexp.MustCompile(`\W`)

// ClassifyIntent inspects the raw query and decides which specialised
// handling path applies. A query is at most one of definition, comparison,
// data-usage or AI-usage; definition strictly dominates the others.
func ClassifyIntent(query string) domain.QueryIntent {
	normalized := domain.Normalize(query)

	intent := domain.QueryIntent{Kind: domain.IntentGeneric}

	isDefinition := definitionStartRe.MatchString(query) || definitionStartRe.MatchString(normalized)

	switch {
	case isDefinition:
		intent.Kind = domain.IntentDefinition
	case comparisonRe.MatchString(query):
		intent.Kind = domain.IntentComparison
	case matchesAny(dataUsagePatterns, query):
		intent.Kind = domain.IntentDataUsage
	case matchesAny(aiUsagePatterns, query):
		intent.Kind = domain.IntentAIUsage
	}

	// The comparison-path extractor additionally ignores comparison
	// vocabulary so the first capitalised token of "Difference between X
	// and Y" resolves to X.
	if intent.Kind == domain.IntentComparison {
		intent.PrimaryEntity = extractEntityWith(query, comparisonVocabulary)
	} else {
		intent.PrimaryEntity = ExtractEntity(query)
	}

	if intent.Kind == domain.IntentDefinition {
		intent.DefinitionSubject = extractDefinitionSubject(query, intent.PrimaryEntity, normalized)
	}

	if intent.Kind == domain.IntentComparison {
		intent.ComparisonTerms = comparisonTerms(normalized, intent.PrimaryEntity)
	}

	intent.IntentKeywords = detectIntentKeywords(query)

	logger.Debug("Intent: kind=%s entity=%q subject=%q terms=%v keywords=%v",
		intent.Kind, intent.PrimaryEntity, intent.DefinitionSubject,
		intent.ComparisonTerms, intent.IntentKeywords)

	return intent
}

// ExtractEntity heuristically extracts the single capitalised "proper noun"
// token from the query. This is not a true NER system: multi-word entities
// are not supported, only the first capitalised token of length >2 outside
// the stopword list is captured. Returns "" if no such token exists.
func ExtractEntity(query string) string {
	return extractEntityWith(query, nil)
}

func extractEntityWith(query string, extra map[string]bool) string {
	for _, token := range strings.Fields(query) {
		// Possessives refer to the entity itself ("Acme's pricing").
		token = strings.TrimSuffix(strings.TrimSuffix(token, "'s"), "’s")
		stripped := tokenNonWordRe.ReplaceAllString(token, "")
		if len(stripped) <= 2 {
			continue
		}
		first := rune(stripped[0])
		if first < 'A' || first > 'Z' {
			continue
		}
		lower := strings.ToLower(stripped)
		if entityStopwords[lower] || (extra != nil && extra[lower]) {
			continue
		}
		return stripped
	}
	return ""
}

// extractDefinitionSubject captures the term being defined. Falls back to
// the extracted entity, then to the query's remaining non-stopword tokens.
func extractDefinitionSubject(query, entity, normalized string) string {
	var subject string
	if m := whatIsSubjectRe.FindStringSubmatch(query); m != nil {
		subject = m[1]
	} else if m := defineSubjectRe.FindStringSubmatch(query); m != nil {
		subject = m[1]
	}

	subject = strings.TrimSpace(leadingArticleRe.ReplaceAllString(strings.TrimSpace(subject), ""))
	if subject != "" {
		return subject
	}

	if entity != "" {
		return entity
	}

	var rest []string
	for _, w := range strings.Split(normalized, " ") {
		if w == "" || entityStopwords[w] {
			continue
		}
		rest = append(rest, w)
	}
	return strings.Join(rest, " ")
}

// comparisonTerms returns the normalised query terms describing the other
// side of the comparison: everything that is not a stopword, comparison
// vocabulary or the primary entity itself.
func comparisonTerms(normalized, entity string) []string {
	entityLower := strings.ToLower(entity)
	var terms []string
	for _, w := range strings.Split(normalized, " ") {
		if w == "" || w == entityLower || entityStopwords[w] || comparisonVocabulary[w] {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// detectIntentKeywords returns chunk-side keyword forms to reward when the
// query carries data or AI/ML phrasing.
func detectIntentKeywords(query string) []string {
	var keywords []string
	if dataKeywordRe.MatchString(query) {
		keywords = append(keywords, "data")
	}
	if aiKeywordRe.MatchString(query) {
		keywords = append(keywords, "ai", "artificial intelligence", "machine learning")
	}
	return keywords
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
