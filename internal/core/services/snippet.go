package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Snippet extraction operates on the original, unnormalised chunk text so
// the returned passage quotes the document exactly.

const (
	snippetWindow     = 200
	snippetLookback   = 100
	snippetLookahead  = 600
	clusterMaxGap     = 100
	occurrenceContext = 150
	sentenceBonus     = 200.0
	cueWordBonus      = 300.0
	capsHeaderPenalty = -100.0
)

// Cue words that mark a passage as substantive rather than boilerplate.
var snippetCueWords = []string{"challenge", "prize", "award", "won", "winner", "achievement"}

var (
	numberedListRe = regexp.MustCompile(`\n\s*\d+\.\s`)
	bulletLineRe   = regexp.MustCompile(`\n\s*([-*•]\s|\d+\.\s)`)
	roleTitleRe    = regexp.MustCompile(`^[A-Z][A-Za-z/&' -]{1,50}:\s*$`)
	leadingRoleRe  = regexp.MustCompile(`^[A-Z][A-Za-z/&' -]{1,50}:\s+`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]\s`)
	tocDotsRe      = regexp.MustCompile(`\.{4,}\s*\d+`)
	tocGapRe       = regexp.MustCompile(`\s{4,}\d+\s*$`)
)

// extractSnippet locates the most representative passage for the query in
// the winning chunk's original text and expands it to natural boundaries.
func extractSnippet(text, query string) string {
	words := domain.NormalizeWords(query)
	if len(words) == 0 {
		return boundedWindow(text, 0, 0)
	}
	if len(words) == 1 {
		return singleWordSnippet(text, words[0])
	}
	return multiWordSnippet(text, words)
}

// singleWordSnippet finds the best-scoring occurrence of the query word and
// returns a window around it trimmed to nearby boundaries.
func singleWordSnippet(text, word string) string {
	lower := strings.ToLower(text)

	positions := wordOccurrences(lower, word)
	if len(positions) == 0 {
		positions = stemOccurrences(lower, word)
	}
	if len(positions) == 0 {
		return boundedWindow(text, 0, 0)
	}

	best := positions[0]
	bestScore := occurrenceScore(text, lower, positions[0])
	for _, pos := range positions[1:] {
		if score := occurrenceScore(text, lower, pos); score > bestScore {
			best, bestScore = pos, score
		}
	}

	if looksLikeTOC(text, best) {
		logger.Debug("Snippet: best occurrence of %q looks like a table-of-contents entry", word)
	}

	return boundedWindow(text, best, len(word))
}

// occurrenceScore ranks one occurrence of the query word: more surrounding
// context is better, nearby sentence punctuation and domain cue words are
// rewarded, and an all-caps short header line is penalised.
func occurrenceScore(text, lower string, pos int) float64 {
	start := pos - occurrenceContext
	if start < 0 {
		start = 0
	}
	end := pos + occurrenceContext
	if end > len(text) {
		end = len(text)
	}
	context := lower[start:end]

	score := float64(end - start)
	if sentenceEndRe.MatchString(context) {
		score += sentenceBonus
	}
	for _, cue := range snippetCueWords {
		if strings.Contains(context, cue) {
			score += cueWordBonus
			break
		}
	}
	if isAllCapsHeaderLine(lineAround(text, pos)) {
		score += capsHeaderPenalty
	}
	return score
}

// multiWordSnippet searches for the literal joined phrase (and hyphen and
// underscore variants). When found, the snippet expands outward to natural
// section boundaries; otherwise the tightest cluster of all query words is
// used.
func multiWordSnippet(text string, words []string) string {
	lower := strings.ToLower(text)

	idx, phraseLen := -1, 0
	for _, sep := range []string{" ", "-", "_"} {
		phrase := strings.Join(words, sep)
		if i := strings.Index(lower, phrase); i >= 0 {
			idx, phraseLen = i, len(phrase)
			break
		}
	}

	if idx >= 0 {
		if looksLikeTOC(text, idx) {
			logger.Debug("Snippet: phrase match looks like a table-of-contents entry")
		}
		start := expandBackward(text, idx)
		end := expandForward(text, idx+phraseLen)
		snippet := strings.TrimSpace(text[start:end])
		snippet = leadingRoleRe.ReplaceAllString(snippet, "")
		return withEllipses(snippet, start > 0, end < len(text))
	}

	if center, ok := tightestCluster(lower, words); ok {
		return boundedWindow(text, center, 0)
	}

	// Last resort: window around the first word that occurs at all.
	for _, w := range words {
		if positions := wordOccurrences(lower, w); len(positions) > 0 {
			return boundedWindow(text, positions[0], len(w))
		}
	}
	return boundedWindow(text, 0, 0)
}

// expandBackward finds the snippet start: the nearest preceding
// numbered-list or role-title header, else the nearest double newline, else
// the nearest single newline or sentence end, else a fixed lookback.
func expandBackward(text string, idx int) int {
	before := text[:idx]

	if loc := lastMatch(numberedListRe, before); loc >= 0 && idx-loc <= snippetLookahead {
		return loc + 1 // keep the header line, drop its leading newline
	}
	if loc := lastRoleTitleLine(before); loc >= 0 && idx-loc <= snippetLookahead {
		return loc
	}
	if i := strings.LastIndex(before, "\n\n"); i >= 0 && idx-i <= snippetLookahead {
		return i + 2
	}
	if i := strings.LastIndexByte(before, '\n'); i >= 0 && idx-i <= snippetWindow {
		return i + 1
	}
	if i := strings.LastIndex(before, ". "); i >= 0 && idx-i <= snippetWindow {
		return i + 2
	}
	start := idx - snippetLookback
	if start < 0 {
		start = 0
	}
	return start
}

// expandForward finds the snippet end: the next role-title header or double
// newline, else the next bullet/numbered/heading-like line, else the end of
// the current sentence, else a fixed lookahead.
func expandForward(text string, from int) int {
	rest := text[from:]
	limit := snippetLookahead
	if limit > len(rest) {
		limit = len(rest)
	}
	window := rest[:limit]

	if i := nextRoleTitleLine(window); i >= 0 {
		return from + i
	}
	if i := strings.Index(window, "\n\n"); i >= 0 {
		return from + i
	}
	if loc := bulletLineRe.FindStringIndex(window); loc != nil {
		return from + loc[0]
	}
	if loc := sentenceEndRe.FindStringIndex(window); loc != nil {
		return from + loc[0] + 1
	}
	return from + limit
}

// boundedWindow returns a window of about snippetWindow characters either
// side of pos, trimmed to sentence or word boundaries, with ellipses when
// the window does not reach the chunk's true edges.
func boundedWindow(text string, pos, matchLen int) string {
	start := pos - snippetWindow
	if start < 0 {
		start = 0
	}
	end := pos + matchLen + snippetWindow
	if end > len(text) {
		end = len(text)
	}

	// Prefer starting just after a sentence end inside the window.
	if i := strings.LastIndex(text[start:pos], ". "); i >= 0 {
		start += i + 2
	} else if start > 0 {
		if i := strings.IndexByte(text[start:pos], ' '); i >= 0 {
			start += i + 1
		}
	}

	// Prefer ending at a sentence end inside the window.
	if loc := sentenceEndRe.FindStringIndex(text[pos:end]); loc != nil {
		end = pos + loc[0] + 1
	} else if end < len(text) {
		if i := strings.LastIndexByte(text[pos:end], ' '); i >= 0 {
			end = pos + i
		}
	}

	snippet := strings.TrimSpace(text[start:end])
	return withEllipses(snippet, start > 0, end < len(text))
}

// tightestCluster finds the smallest span containing an occurrence of every
// query word, requiring consecutive words to sit within clusterMaxGap
// characters of each other. Returns the cluster's center position.
func tightestCluster(lower string, words []string) (int, bool) {
	occurrences := make([][]int, len(words))
	for i, w := range words {
		occurrences[i] = wordOccurrences(lower, w)
		if len(occurrences[i]) == 0 {
			occurrences[i] = stemOccurrences(lower, w)
		}
		if len(occurrences[i]) == 0 {
			return 0, false
		}
	}

	bestSpan := -1
	bestCenter := 0
	// Anchor on each occurrence of the first word and greedily pick the
	// closest occurrence of every other word.
	for _, anchor := range occurrences[0] {
		lo, hi := anchor, anchor
		ok := true
		for _, positions := range occurrences[1:] {
			nearest, dist := -1, -1
			for _, p := range positions {
				d := absInt(p - anchor)
				if nearest < 0 || d < dist {
					nearest, dist = p, d
				}
			}
			if dist > clusterMaxGap {
				ok = false
				break
			}
			if nearest < lo {
				lo = nearest
			}
			if nearest > hi {
				hi = nearest
			}
		}
		if !ok {
			continue
		}
		span := hi - lo
		if bestSpan < 0 || span < bestSpan {
			bestSpan = span
			bestCenter = (lo + hi) / 2
		}
	}

	return bestCenter, bestSpan >= 0
}

// looksLikeTOC flags likely table-of-contents matches: long dot leaders or
// a wide space gap before a trailing page number, either right around the
// match or on the same line. Diagnostic only - scoring elsewhere usually
// prefers non-ToC content, so nothing is discarded here.
func looksLikeTOC(text string, pos int) bool {
	end := pos + 80
	if end > len(text) {
		end = len(text)
	}
	if tocDotsRe.MatchString(text[pos:end]) {
		return true
	}
	return tocGapRe.MatchString(lineAround(text, pos))
}

// wordOccurrences returns the index of every word-boundary occurrence of
// word in the lower-cased text.
func wordOccurrences(lower, word string) []int {
	var positions []int
	for offset := 0; ; {
		i := strings.Index(lower[offset:], word)
		if i < 0 {
			break
		}
		abs := offset + i
		if isWordBoundary(lower, abs, len(word)) {
			positions = append(positions, abs)
		}
		offset = abs + len(word)
	}
	return positions
}

// stemOccurrences returns positions of words sharing the query word's stem.
func stemOccurrences(lower, word string) []int {
	target := stem(word)
	if len(target) <= 3 {
		return nil
	}
	var positions []int
	offset := 0
	for _, w := range strings.Fields(lower) {
		i := strings.Index(lower[offset:], w)
		if i < 0 {
			continue
		}
		abs := offset + i
		offset = abs + len(w)
		if stem(strings.Trim(w, ".,;:!?()[]\"'")) == target {
			positions = append(positions, abs)
		}
	}
	return positions
}

func isWordBoundary(lower string, pos, length int) bool {
	if pos > 0 && isWordChar(lower[pos-1]) {
		return false
	}
	if end := pos + length; end < len(lower) && isWordChar(lower[end]) {
		return false
	}
	return true
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// lineAround returns the full line containing pos.
func lineAround(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += pos
	}
	return text[start:end]
}

// isAllCapsHeaderLine reports whether a line is a short all-caps header.
func isAllCapsHeaderLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 60 {
		return false
	}
	hasLetter := false
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// lastMatch returns the start of the last match of re in s, or -1.
func lastMatch(re *regexp.Regexp, s string) int {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return -1
	}
	return locs[len(locs)-1][0]
}

// lastRoleTitleLine returns the start offset of the last role-title style
// line ("Product Manager:") in s, or -1.
func lastRoleTitleLine(s string) int {
	offset := 0
	found := -1
	for _, line := range strings.Split(s, "\n") {
		if roleTitleRe.MatchString(strings.TrimSpace(line)) {
			found = offset
		}
		offset += len(line) + 1
	}
	return found
}

// nextRoleTitleLine returns the offset of the first role-title style line
// in s after the first newline, or -1.
func nextRoleTitleLine(s string) int {
	offset := 0
	for i, line := range strings.Split(s, "\n") {
		if i > 0 && roleTitleRe.MatchString(strings.TrimSpace(line)) {
			return offset - 1 // cut before the line's leading newline
		}
		offset += len(line) + 1
	}
	return -1
}

func withEllipses(snippet string, before, after bool) string {
	if before && !strings.HasPrefix(snippet, "...") {
		snippet = "..." + snippet
	}
	if after && !strings.HasSuffix(snippet, "...") {
		snippet += "..."
	}
	return snippet
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
