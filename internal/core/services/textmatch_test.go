package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStem(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"capabilities", "capability"},
		{"processes", "process"},
		{"tools", "tool"},
		{"is", "is"},
		{"as", "as"},
		{"platform", "platform"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stem(tt.word), tt.word)
	}
}

func TestContainsWord(t *testing.T) {
	norm := "acme is a process mining platform"

	assert.True(t, containsWord(norm, "process"))
	assert.True(t, containsWord(norm, "acme"))
	assert.False(t, containsWord(norm, "mine"))
	assert.False(t, containsWord(norm, "min"))
	assert.False(t, containsWord(norm, ""))
}

func TestContainsPhrase(t *testing.T) {
	norm := "acme is a process mining platform"

	assert.True(t, containsPhrase(norm, "process mining"))
	assert.False(t, containsPhrase(norm, "mining process"))
	assert.False(t, containsPhrase(norm, "cess min"))
}

func TestWordMatches(t *testing.T) {
	words := wordSet("acme is a business tool with broad capability")
	stems := stemSet(words)

	assert.True(t, wordMatches(words, stems, "acme"))
	// Stem matches: plural query words against singular chunk words
	assert.True(t, wordMatches(words, stems, "tools"))
	assert.True(t, wordMatches(words, stems, "capabilities"))
	// Short stems never match
	assert.False(t, wordMatches(words, stems, "as"))
	assert.False(t, wordMatches(words, stems, "pricing"))
}

func TestHasWordPrefix(t *testing.T) {
	words := wordSet("the model predicts anomalies in event data")

	assert.True(t, hasWordPrefix(words, "predict"))
	assert.True(t, hasWordPrefix(words, "anomal"))
	assert.False(t, hasWordPrefix(words, "insight"))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.4))
	assert.Equal(t, 0.42, clamp01(0.42))
	assert.Equal(t, 1.0, clamp01(1.8))
}
