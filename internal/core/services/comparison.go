package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Comparison resolution reasons, kept for diagnostics.
const (
	reasonFirstChunk    = "first chunk"
	reasonOverview      = "overview/scope summary"
	reasonMissingEntity = "entity not mentioned"
)

var (
	numberedHeaderRe    = regexp.MustCompile(`^\d+(\.\d+)*\s+.+$`)
	comparisonKeywordRe = regexp.MustCompile(`(?i)\b(difference|differences|compare|comparison|vs\.?|versus)\b`)

	// Contrastive conjunctions for the dual-entity pattern. Matched on
	// lower-cased raw text so sentence structure is preserved.
	contrastConjunctions = []string{
		"while", "whereas", "in contrast", "unlike", "compared to",
	}

	// General contrastive language, a superset of the conjunctions.
	contrastLanguage = []string{
		"while", "whereas", "in contrast", "compared to", "unlike",
		"rather than", "on the other hand", "however", "but", "instead of",
	}

	overviewSummaryRe = regexp.MustCompile(`(?i)(this document provides|purpose of this document|overview of|scope of this|executive summary)`)

	contrastLanguageRes = compileContrastLanguage()
)

func compileContrastLanguage() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(contrastLanguage))
	for i, phrase := range contrastLanguage {
		res[i] = regexp.MustCompile(`\b` + strings.ReplaceAll(regexp.QuoteMeta(phrase), ` `, `\s+`) + `\b`)
	}
	return res
}

// resolveComparison narrows the candidate pool to the chunks that frame the
// comparison and produces per-chunk score adjustments. Two cooperating
// passes: a section scan that looks for an explicit comparison section, and
// a chunk-level contrast pass when no section exists. Returns the surviving
// pool and the adjustments keyed by chunk ID; an empty pool means no usable
// comparison content exists.
func (s *AskService) resolveComparison(
	pool []domain.EmbeddedChunk,
	entity string,
	terms []string,
	docCounts map[string]int,
) ([]domain.EmbeddedChunk, map[string]comparisonAdjust) {
	adjust := make(map[string]comparisonAdjust)

	sectioned := findComparisonSections(pool, entity)
	if len(sectioned) > 0 {
		logger.Debug("Comparison: section scan matched %d chunks", len(sectioned))
		// Section membership takes priority inclusion: no exclusions
		// apply inside the matched section, but a late header in a
		// chunk still signals leftover content from the previous
		// section and is penalised.
		kept := make([]domain.EmbeddedChunk, 0, len(sectioned))
		for _, ec := range sectioned {
			adj := comparisonAdjust{bonus: s.weights.DualEntityContrastBonus}
			adj.bonus += s.lateHeaderPenalty(ec.Chunk.Text, entity)
			adjust[ec.Chunk.ID] = adj
			kept = append(kept, ec)
		}
		return kept, adjust
	}

	logger.Debug("Comparison: no section header matched, running contrast pass on %d chunks", len(pool))

	dualRes := dualContrastPatterns(entity, terms)

	kept := make([]domain.EmbeddedChunk, 0, len(pool))
	for _, ec := range pool {
		lowerText := strings.ToLower(ec.Chunk.Text)
		normText := domain.Normalize(ec.Chunk.Text)

		hasEntity := entity != "" && strings.Contains(lowerText, strings.ToLower(entity))
		hasOtherTerm := anyTermPresent(normText, terms)
		hasContrast := anyContrastLanguage(lowerText)
		hasComparisonTerm := comparisonKeywordRe.MatchString(lowerText) || hasContrast

		// Hard exclusions, with a distinguishable reason each.
		if reason := excludeReason(ec.Chunk, lowerText, entity, hasEntity, hasContrast); reason != "" {
			logger.Debug("Comparison: excluding %s[%d]: %s", ec.Chunk.SourceFile, ec.Chunk.Index, reason)
			continue
		}

		var adj comparisonAdjust
		switch {
		case hasEntity && hasOtherTerm && matchesAnyRe(dualRes, lowerText):
			adj.bonus = s.weights.DualEntityContrastBonus
		case hasContrast && hasEntity && hasOtherTerm:
			adj.bonus = s.weights.ContrastWithEntitiesBonus
		case hasContrast:
			adj.bonus = s.weights.ContrastOnlyBonus
		default:
			// Chunks with no contrast language at all must never
			// outrank any chunk that has it.
			adj.bonus = s.weights.NoContrastPenalty
		}

		adj.bonus += s.lateHeaderPenalty(ec.Chunk.Text, entity)

		// Early chunks with no comparison terminology are almost always
		// generic intros.
		count := docCounts[ec.Chunk.SourceFile]
		if count > 0 && float64(ec.Chunk.Index)/float64(count) < s.weights.EarlyDocRatio && !hasComparisonTerm {
			adj.introPenalty = s.weights.ComparisonIntroPenalty
		}

		adjust[ec.Chunk.ID] = adj
		kept = append(kept, ec)
	}

	return kept, adjust
}

// excludeReason decides whether a chunk is removed from the comparison pool
// entirely. Returns "" when the chunk survives. The missing-entity exclusion
// only applies when an entity was actually extracted: an entity-less query
// ("compare cloud and on-premise deployments") is ranked by the contrast
// pass alone.
func excludeReason(chunk domain.Chunk, lowerText, entity string, hasEntity, hasContrast bool) string {
	if chunk.Index == 0 {
		return reasonFirstChunk
	}
	if overviewSummaryRe.MatchString(lowerText) && !hasContrast {
		return reasonOverview
	}
	if entity != "" && !hasEntity {
		return reasonMissingEntity
	}
	return ""
}

// findComparisonSections scans each document's chunks in index order for
// section headers and returns the chunks belonging to a comparison section:
// a header mentioning the entity together with a comparison keyword, up to
// the next header of any kind.
func findComparisonSections(pool []domain.EmbeddedChunk, entity string) []domain.EmbeddedChunk {
	byDoc := make(map[string][]domain.EmbeddedChunk)
	var docs []string
	for _, ec := range pool {
		if _, seen := byDoc[ec.Chunk.SourceFile]; !seen {
			docs = append(docs, ec.Chunk.SourceFile)
		}
		byDoc[ec.Chunk.SourceFile] = append(byDoc[ec.Chunk.SourceFile], ec)
	}
	sort.Strings(docs)

	var matched []domain.EmbeddedChunk
	for _, doc := range docs {
		chunks := byDoc[doc]
		sort.SliceStable(chunks, func(i, j int) bool {
			return chunks[i].Chunk.Index < chunks[j].Chunk.Index
		})

		inSection := false
		for _, ec := range chunks {
			member := inSection
			for _, line := range strings.Split(ec.Chunk.Text, "\n") {
				line = strings.TrimSpace(line)
				if line == "" || !isSectionHeader(line) {
					continue
				}
				inSection = isComparisonHeader(line, entity)
				if inSection {
					member = true
				}
			}
			if member {
				matched = append(matched, ec)
			}
		}
	}
	return matched
}

// isSectionHeader reports whether a trimmed line looks like a section
// header: numbered ("3.2 Fancy Topic") or a short Title-Case line.
func isSectionHeader(line string) bool {
	if len(line) > 120 {
		return false
	}
	if numberedHeaderRe.MatchString(line) {
		return true
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 15 {
		return false
	}
	capitalized := 0
	for _, w := range words {
		r := rune(w[0])
		if r >= 'A' && r <= 'Z' {
			capitalized++
		}
	}
	return float64(capitalized)/float64(len(words)) >= 0.5
}

// isComparisonHeader reports whether a header line frames the comparison:
// it must mention the entity and a comparison keyword.
func isComparisonHeader(line, entity string) bool {
	return entity != "" && containsFold(line, entity) && comparisonKeywordRe.MatchString(line)
}

// lateHeaderPenalty penalises chunks whose comparison header appears past
// the chunk's midpoint: most of such a chunk is leftover content from the
// previous section, not the comparison section itself. The penalty
// escalates from moderate (past 30%) to severe (past 50%).
func (s *AskService) lateHeaderPenalty(text, entity string) float64 {
	if entity == "" {
		return 0
	}
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && isSectionHeader(trimmed) && isComparisonHeader(trimmed, entity) {
			position := float64(offset) / float64(len(text))
			switch {
			case position > 0.5:
				return s.weights.LateHeaderSeverePenalty
			case position > 0.3:
				return s.weights.LateHeaderModeratePenalty
			}
		}
		offset += len(line) + 1
	}
	return 0
}

// dualContrastPatterns compiles, once per query, the dual-entity contrast
// patterns: the entity and a comparison term around a contrastive
// conjunction within one sentence, in either order. Word boundaries keep a
// short term like "bi" from matching inside unrelated words.
func dualContrastPatterns(entity string, terms []string) []*regexp.Regexp {
	if entity == "" {
		return nil
	}
	entityPat := `\b` + regexp.QuoteMeta(strings.ToLower(entity)) + `\b`
	res := make([]*regexp.Regexp, 0, 2*len(contrastConjunctions)*len(terms))
	for _, conj := range contrastConjunctions {
		conjPat := `\b` + strings.ReplaceAll(regexp.QuoteMeta(conj), ` `, `\s+`) + `\b`
		for _, term := range terms {
			termPat := `\b` + regexp.QuoteMeta(term) + `\b`
			res = append(res,
				regexp.MustCompile(entityPat+`[^.!?]{0,200}`+conjPat+`[^.!?]{0,200}`+termPat),
				regexp.MustCompile(termPat+`[^.!?]{0,200}`+conjPat+`[^.!?]{0,200}`+entityPat))
		}
	}
	return res
}

func anyContrastLanguage(lowerText string) bool {
	return matchesAnyRe(contrastLanguageRes, lowerText)
}

func matchesAnyRe(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func anyTermPresent(normText string, terms []string) bool {
	for _, term := range terms {
		if containsWord(normText, term) {
			return true
		}
	}
	return false
}
