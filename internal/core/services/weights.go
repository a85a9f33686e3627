package services

// Weights holds the additive scoring constants of the ranking pipeline.
// These are hand-tuned per corpus, not normative values: several bonus and
// penalty ranges overlap, so a heavily penalised chunk can score below a
// weak chunk with no bonuses at all. Treat them as configuration.
type Weights struct {
	// AdmissionSimilarity is the minimum semantic similarity for a chunk
	// with zero keyword overlap to survive candidate admission.
	AdmissionSimilarity float64

	// KeywordWeight multiplies keyword coverage in the final score.
	KeywordWeight float64

	// FirstChunkBonus applies to a document's chunk 0.
	FirstChunkBonus float64

	// EarlyChunkBonus applies to chunks in the first EarlyDocRatio of a
	// document.
	EarlyChunkBonus float64

	// FirstChunkIntroBonus and EarlyChunkIntroBonus replace the position
	// bonuses for definition queries when the chunk reads like an
	// intro/overview, since intro chunks are usually not the definition.
	FirstChunkIntroBonus float64
	EarlyChunkIntroBonus float64

	// EarlyDocRatio is the index/count ratio under which a chunk counts
	// as "early in document".
	EarlyDocRatio float64

	// ExplicitTermBonus applies when the chunk contains one of the
	// query's detected intent keywords verbatim.
	ExplicitTermBonus float64

	// Comparison resolver adjustments.
	DualEntityContrastBonus   float64
	ContrastWithEntitiesBonus float64
	ContrastOnlyBonus         float64
	NoContrastPenalty         float64
	LateHeaderModeratePenalty float64
	LateHeaderSeverePenalty   float64
	ComparisonIntroPenalty    float64

	// Topic coverage gate ceilings: the gate only rejects a winner whose
	// keyword coverage and semantic similarity both fall below these.
	CoverageKeywordCeiling    float64
	CoverageSimilarityCeiling float64
}

// DefaultWeights returns the stock tuning.
func DefaultWeights() Weights {
	return Weights{
		AdmissionSimilarity:       0.80,
		KeywordWeight:             0.3,
		FirstChunkBonus:           0.5,
		EarlyChunkBonus:           0.2,
		FirstChunkIntroBonus:      0.1,
		EarlyChunkIntroBonus:      0.05,
		EarlyDocRatio:             0.15,
		ExplicitTermBonus:         0.3,
		DualEntityContrastBonus:   1.2,
		ContrastWithEntitiesBonus: 0.6,
		ContrastOnlyBonus:         0.3,
		NoContrastPenalty:         -0.5,
		LateHeaderModeratePenalty: -0.8,
		LateHeaderSeverePenalty:   -1.5,
		ComparisonIntroPenalty:    -0.6,
		CoverageKeywordCeiling:    0.66,
		CoverageSimilarityCeiling: 0.85,
	}
}
