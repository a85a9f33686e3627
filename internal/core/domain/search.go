package domain

// IntentKind classifies a query into a specialised handling path.
// Definition strictly dominates; comparison, data-usage and AI-usage are
// mutually exclusive and checked in that priority order.
type IntentKind int

const (
	// IntentGeneric is the default path with no specialised handling.
	IntentGeneric IntentKind = iota

	// IntentDefinition is a "what is X" / "define X" query.
	IntentDefinition

	// IntentComparison is a "difference between" / "X vs Y" query.
	IntentComparison

	// IntentDataUsage is a query about what data the subject uses.
	IntentDataUsage

	// IntentAIUsage is a query about AI/ML capabilities of the subject.
	IntentAIUsage
)

// String returns the string representation of the intent kind.
func (k IntentKind) String() string {
	switch k {
	case IntentDefinition:
		return "definition"
	case IntentComparison:
		return "comparison"
	case IntentDataUsage:
		return "data-usage"
	case IntentAIUsage:
		return "ai-usage"
	default:
		return "generic"
	}
}

// QueryIntent is the per-request classification of a raw query.
// It is derived fresh for every request and never stored.
type QueryIntent struct {
	// Kind is the classified handling path.
	Kind IntentKind

	// DefinitionSubject is the term being defined, set only for
	// definition queries.
	DefinitionSubject string

	// PrimaryEntity is the first capitalised proper-noun token of the
	// query, or empty when none was found.
	PrimaryEntity string

	// ComparisonTerms are the non-stopword query terms other than the
	// primary entity, set only for comparison queries. They describe the
	// other side of the comparison.
	ComparisonTerms []string

	// IntentKeywords are data/AI related keyword forms detected in the
	// query, used for the explicit term bonus. Independent of Kind.
	IntentKeywords []string
}

// Candidate is a transient per-query scoring record for a single chunk.
// It exists only for the duration of one request.
type Candidate struct {
	// Chunk is the chunk being scored.
	Chunk Chunk

	// SemanticSimilarity is the cosine similarity between the query
	// embedding and the chunk embedding, range [-1, 1].
	SemanticSimilarity float64

	// KeywordCoverage is the fraction of query words found in the
	// chunk, range [0, 1].
	KeywordCoverage float64

	// PositionBonus rewards chunks early in their document.
	PositionBonus float64

	// ExplicitTermBonus rewards chunks containing the query's detected
	// intent keywords verbatim.
	ExplicitTermBonus float64

	// DefinitionBonus and DefinitionPenalty are additive terms of the
	// final score formula. The tiered definition resolver restricts the
	// candidate set instead of weighting it, so both remain zero.
	DefinitionBonus   float64
	DefinitionPenalty float64

	// ComparisonBonus and ComparisonIntroPenalty are set by the
	// comparison resolver; zero for non-comparison queries.
	ComparisonBonus        float64
	ComparisonIntroPenalty float64

	// FinalScore is the additive combination of all terms above.
	FinalScore float64
}

// Answer is the response to a query.
type Answer struct {
	// Text is the answer snippet or a fixed fallback message.
	Text string `json:"text"`

	// Source is the filename of the document the answer came from.
	// Empty when no document could be selected.
	Source string `json:"source,omitempty"`

	// Confidence is the answer confidence, range [0, 1].
	Confidence float64 `json:"confidence"`

	// Explanation carries diagnostic detail for early-exit answers
	// (unresolved definition, missing topic words). Empty otherwise.
	Explanation string `json:"explanation,omitempty"`
}
