package domain

import (
	"regexp"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalises text for keyword matching: lower-cases, replaces
// every character that is neither a word character nor whitespace with a
// space, collapses whitespace runs (including newlines) to a single space,
// and trims. Idempotent and side-effect free. PDF extraction tends to
// produce stray punctuation and broken line wraps; matching against the
// normalised form makes keyword checks robust to those artifacts.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeWords normalises text and splits it into words.
// Returns nil for text that normalises to empty.
func NormalizeWords(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
