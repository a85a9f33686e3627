package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// makeCandidate derives the scored-candidate text forms for resolver tests.
func makeCandidate(ec domain.EmbeddedChunk, score float64) scoredCandidate {
	normText := domain.Normalize(ec.Chunk.Text)
	words := wordSet(normText)
	return scoredCandidate{
		Candidate: domain.Candidate{Chunk: ec.Chunk, FinalScore: score},
		normText:  normText,
		words:     words,
		stems:     stemSet(words),
	}
}

func TestHardExcluded(t *testing.T) {
	tests := []struct {
		normText string
		want     bool
	}{
		{"acme is a platform that integrates with sap systems", true},
		{"the system architecture consists of three layers", true},
		{"acme capabilities include conformance checking", true},
		{"the difference between the two approaches matters", true},
		{"acme is a platform for process analysis", false},
		{"workflows run end to end", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hardExcluded(tt.normText), tt.normText)
	}
}

func TestResolveDefinition_StrictTier(t *testing.T) {
	svc := NewAskService(nil, nil)
	vec := []float32{1, 0}
	docCounts := map[string]int{"acme.txt": 4}

	candidates := []scoredCandidate{
		// Strict pattern, early in document.
		makeCandidate(makeChunk("acme.txt", 0,
			"Acme is a platform for process analysis.", vec), 1.0),
		// Strict pattern but hard-excluded.
		makeCandidate(makeChunk("acme.txt", 1,
			"Acme is a platform that integrates with SAP.", vec), 2.0),
		// Strict pattern but too deep in the document.
		makeCandidate(makeChunk("acme.txt", 3,
			"Acme is a tool worth revisiting here.", vec), 3.0),
	}

	res := svc.resolveDefinition("Acme", candidates, nil, docCounts)
	require.Nil(t, res.answer)
	assert.Equal(t, []int{0}, res.tierSet)
}

func TestResolveDefinition_SoftTier(t *testing.T) {
	svc := NewAskService(nil, nil)
	vec := []float32{1, 0}
	docCounts := map[string]int{"acme.txt": 8}

	lateMatch := strings.Repeat("filler words about unrelated workflow topics here. ", 12) +
		"Overview of Acme at the very end."

	candidates := []scoredCandidate{
		// Template match at the start of an early chunk.
		makeCandidate(makeChunk("acme.txt", 0,
			"Overview of Acme\nThe sections below describe the product.", vec), 1.0),
		// Template match too late within the chunk's own text.
		makeCandidate(makeChunk("acme.txt", 1, lateMatch, vec), 2.0),
		// Early chunk without any template.
		makeCandidate(makeChunk("acme.txt", 1,
			"Administrators configure retention separately.", vec), 0.5),
	}

	res := svc.resolveDefinition("Acme", candidates, nil, docCounts)
	require.Nil(t, res.answer)
	assert.Equal(t, []int{0}, res.tierSet)
}

func TestSynthesizeDefinition(t *testing.T) {
	svc := NewAskService(nil, nil)
	vec := []float32{1, 0}

	t.Run("purpose phrase", func(t *testing.T) {
		all := []domain.EmbeddedChunk{
			makeChunk("acme.txt", 0,
				"The Acme platform helps organizations to reduce cycle times by finding bottlenecks.", vec),
		}
		answer := svc.synthesizeDefinition("Acme", "acme", all, map[string]int{"acme.txt": 1})
		require.NotNil(t, answer)
		assert.Equal(t, "Acme is a platform that reduce cycle times by finding bottlenecks.", answer.Text)
		assert.Equal(t, "acme.txt", answer.Source)
		assert.InDelta(t, synthesisConfidence, answer.Confidence, 1e-9)
	})

	t.Run("domain keyword fallback purpose", func(t *testing.T) {
		all := []domain.EmbeddedChunk{
			makeChunk("acme.txt", 0,
				"Acme combines process mining with automation across departments.", vec),
		}
		answer := svc.synthesizeDefinition("Acme", "acme", all, map[string]int{"acme.txt": 1})
		require.NotNil(t, answer)
		assert.Equal(t,
			"Acme is a process mining platform that helps organizations work with process mining, automation.",
			answer.Text)
	})

	t.Run("subject absent", func(t *testing.T) {
		all := []domain.EmbeddedChunk{
			makeChunk("other.txt", 0, "Nothing relevant lives here.", vec),
		}
		assert.Nil(t, svc.synthesizeDefinition("Acme", "acme", all, map[string]int{"other.txt": 1}))
	})

	t.Run("architecture-heavy later chunk is skipped", func(t *testing.T) {
		archText := "Acme connects to source systems, integrates with the warehouse, " +
			"and sits on top of the data layer."
		all := []domain.EmbeddedChunk{
			makeChunk("acme.txt", 1, archText, vec),
		}
		assert.Nil(t, svc.synthesizeDefinition("Acme", "acme", all, map[string]int{"acme.txt": 10}))
	})

	t.Run("first chunk accepted regardless of indicators", func(t *testing.T) {
		archText := "Acme connects to source systems, integrates with the warehouse, " +
			"and sits on top of the data layer."
		all := []domain.EmbeddedChunk{
			makeChunk("acme.txt", 0, archText, vec),
		}
		answer := svc.synthesizeDefinition("Acme", "acme", all, map[string]int{"acme.txt": 10})
		require.NotNil(t, answer)
		assert.Equal(t, "acme.txt", answer.Source)
	})
}

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"acme is used for process intelligence work", "process intelligence platform"},
		{"process mining is the core discipline", "process mining platform"},
		{"an execution management layer on top", "execution management system"},
		{"acme is business software for analysts", "software"},
		{"no recognisable terms at all", fallbackCategory},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractCategory(tt.text), tt.text)
	}
}

func TestExtractPurpose(t *testing.T) {
	t.Run("captured phrase", func(t *testing.T) {
		text := "acme is designed to surface hidden inefficiencies in operations."
		assert.Equal(t, "surface hidden inefficiencies in operations",
			extractPurpose(text, domain.Normalize(text)))
	})

	t.Run("keyword fallback", func(t *testing.T) {
		text := "acme touches erp records and crm records during analysis."
		assert.Equal(t, "helps organizations work with erp, crm",
			extractPurpose(text, domain.Normalize(text)))
	})

	t.Run("fixed fallback", func(t *testing.T) {
		text := "nothing recognisable in this text at all."
		assert.Equal(t, fallbackPurpose, extractPurpose(text, domain.Normalize(text)))
	})
}

func TestNoDefinitionAnswer(t *testing.T) {
	svc := NewAskService(nil, nil)

	t.Run("names the top candidate's document", func(t *testing.T) {
		candidates := []scoredCandidate{
			makeCandidate(makeChunk("acme.txt", 0, "text", []float32{1, 0}), 1.0),
		}
		answer := svc.noDefinitionAnswer("Acme", candidates)
		assert.Equal(t, msgNoDefinition, answer.Text)
		assert.Equal(t, "acme.txt", answer.Source)
		assert.Zero(t, answer.Confidence)
		assert.Contains(t, answer.Explanation, `"Acme"`)
	})

	t.Run("no candidates", func(t *testing.T) {
		answer := svc.noDefinitionAnswer("Acme", nil)
		assert.Empty(t, answer.Source)
	})
}

func TestWithinDocRatio(t *testing.T) {
	counts := map[string]int{"doc.txt": 10}
	assert.True(t, withinDocRatio(domain.Chunk{SourceFile: "doc.txt", Index: 3}, counts, 0.40))
	assert.False(t, withinDocRatio(domain.Chunk{SourceFile: "doc.txt", Index: 4}, counts, 0.40))
	// Unknown document never qualifies.
	assert.False(t, withinDocRatio(domain.Chunk{SourceFile: "other.txt", Index: 0}, counts, 0.40))
}
