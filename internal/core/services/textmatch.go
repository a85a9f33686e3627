package services

import "strings"

// Text matching helpers shared by the pipeline stages. All of them expect
// normalised text (see domain.Normalize) unless noted otherwise.

// containsFold reports whether s contains substr, case-insensitively.
// Works on raw text.
func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// containsWord reports whether the normalised text contains the word with
// exact word boundaries.
func containsWord(normalized, word string) bool {
	if word == "" {
		return false
	}
	return strings.Contains(" "+normalized+" ", " "+word+" ")
}

// containsPhrase reports whether the normalised text contains the phrase
// with word boundaries on both ends. Single words degrade to containsWord.
func containsPhrase(normalized, phrase string) bool {
	return containsWord(normalized, phrase)
}

// stem applies crude suffix stripping: trailing "ies" becomes "y", then
// trailing "es" and "s" are dropped. Matching on stems is only meaningful
// when the stem is longer than 3 characters.
func stem(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "es") && len(word) > 3:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && len(word) > 2:
		return word[:len(word)-1]
	default:
		return word
	}
}

// wordMatches reports whether the query word appears in the chunk's word
// list, first by exact match, then by stem match (stems of length >3).
func wordMatches(chunkWords map[string]bool, chunkStems map[string]bool, queryWord string) bool {
	if chunkWords[queryWord] {
		return true
	}
	s := stem(queryWord)
	if len(s) <= 3 {
		return false
	}
	return chunkStems[s]
}

// wordSet splits normalised text into a word lookup set.
func wordSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Split(normalized, " ") {
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// stemSet returns the set of stems of the given word set.
func stemSet(words map[string]bool) map[string]bool {
	set := make(map[string]bool, len(words))
	for w := range words {
		set[stem(w)] = true
	}
	return set
}

// hasWordPrefix reports whether any word in the set starts with the prefix.
func hasWordPrefix(words map[string]bool, prefix string) bool {
	for w := range words {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
