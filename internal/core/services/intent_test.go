package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestClassifyIntent_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		query string
		kind  domain.IntentKind
	}{
		{"what is", "What is Celonis?", domain.IntentDefinition},
		{"define", "Define process mining", domain.IntentDefinition},
		{"definition dominates comparison", "What is the difference between Acme and SAP?", domain.IntentDefinition},
		{"difference", "How do Acme and SAP differences show up in reporting?", domain.IntentComparison},
		{"versus", "Acme versus traditional BI tools", domain.IntentComparison},
		{"vs", "Acme vs SAP", domain.IntentComparison},
		{"compare", "Compare Acme to legacy systems", domain.IntentComparison},
		{"what data", "What data does Acme use?", domain.IntentDataUsage},
		{"data sources", "Which data sources does the platform read?", domain.IntentDataUsage},
		{"uses ai", "Does Acme use AI for predictions?", domain.IntentAIUsage},
		{"machine learning", "How does machine learning factor in?", domain.IntentAIUsage},
		{"generic", "Tell me about the onboarding process", domain.IntentGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := ClassifyIntent(tt.query)
			assert.Equal(t, tt.kind, intent.Kind, "query: %s", tt.query)
		})
	}
}

func TestClassifyIntent_DefinitionSubject(t *testing.T) {
	tests := []struct {
		query   string
		subject string
	}{
		{"What is Celonis?", "Celonis"},
		{"What is a process mining platform?", "process mining platform"},
		{"Define: Task Mining", "Task Mining"},
		{"what is the Execution Management System?", "Execution Management System"},
	}

	for _, tt := range tests {
		intent := ClassifyIntent(tt.query)
		assert.Equal(t, domain.IntentDefinition, intent.Kind, tt.query)
		assert.Equal(t, tt.subject, intent.DefinitionSubject, tt.query)
	}
}

func TestClassifyIntent_ComparisonEntityAndTerms(t *testing.T) {
	intent := ClassifyIntent("Difference between Celonis and traditional BI tools")

	assert.Equal(t, domain.IntentComparison, intent.Kind)
	// "Difference" is comparison vocabulary, not a proper noun.
	assert.Equal(t, "Celonis", intent.PrimaryEntity)
	assert.Equal(t, []string{"traditional", "bi", "tools"}, intent.ComparisonTerms)
}

func TestClassifyIntent_IntentKeywords(t *testing.T) {
	t.Run("data keyword", func(t *testing.T) {
		intent := ClassifyIntent("What data does Acme need?")
		assert.Contains(t, intent.IntentKeywords, "data")
	})

	t.Run("ai keywords", func(t *testing.T) {
		intent := ClassifyIntent("Does Acme use machine learning?")
		assert.Contains(t, intent.IntentKeywords, "ai")
		assert.Contains(t, intent.IntentKeywords, "machine learning")
	})

	t.Run("independent of kind", func(t *testing.T) {
		// A definition query mentioning data still gets the keyword.
		intent := ClassifyIntent("What is the data model of Acme?")
		assert.Equal(t, domain.IntentDefinition, intent.Kind)
		assert.Contains(t, intent.IntentKeywords, "data")
	})

	t.Run("none", func(t *testing.T) {
		intent := ClassifyIntent("What is Acme?")
		assert.Empty(t, intent.IntentKeywords)
	})
}

func TestExtractEntity(t *testing.T) {
	tests := []struct {
		query  string
		entity string
	}{
		{"What is Celonis?", "Celonis"},
		{"How does Acme handle invoices?", "Acme"},
		{"what is process mining?", ""},
		{"Tell me about the system", ""},
		{"Explain SAP integration", "SAP"},
		// Possessive strips to the bare entity.
		{"What is Acme's pricing?", "Acme"},
		// Sentence-initial stopword capitalisation is not an entity.
		{"What data does it use?", ""},
		// Too short after stripping punctuation.
		{"Is AI used?", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.entity, ExtractEntity(tt.query), "query: %s", tt.query)
	}
}
