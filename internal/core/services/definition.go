package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Hard-exclusion indicator families for definition resolution. A chunk
// matching either family is excluded from every definition tier regardless
// of how well it scores: architecture/positioning chunks and
// comparison/explanation chunks never contain the actual definition.
var (
	architectureIndicators = []*regexp.Regexp{
		regexp.MustCompile(`not embedded`),
		regexp.MustCompile(`sits on top`),
		regexp.MustCompile(`connects to`),
		regexp.MustCompile(`integrates with`),
		regexp.MustCompile(`architecture of`),
		regexp.MustCompile(`how (\w+ ){0,3}works`),
		regexp.MustCompile(`deployed (on|in)`),
		regexp.MustCompile(`deployment model`),
		regexp.MustCompile(`runs on top`),
		regexp.MustCompile(`system architecture`),
		regexp.MustCompile(`data flows`),
	}

	explanationIndicators = []*regexp.Regexp{
		regexp.MustCompile(`difference between`),
		regexp.MustCompile(`\bvs\b`),
		regexp.MustCompile(`\bversus\b`),
		regexp.MustCompile(`in simple terms`),
		regexp.MustCompile(`\bcapabilities\b`),
		regexp.MustCompile(`use cases`),
		regexp.MustCompile(`features of`),
		regexp.MustCompile(`benefits of`),
		regexp.MustCompile(`pros and cons`),
		regexp.MustCompile(`examples? of`),
	}
)

// Category extraction table for the synthesis fallback. Ordered: the first
// matching pattern wins. Declarative so the heuristics stay auditable and
// testable in isolation.
var categoryPatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`process intelligence`), "process intelligence platform"},
	{regexp.MustCompile(`process mining`), "process mining platform"},
	{regexp.MustCompile(`execution management`), "execution management system"},
	{regexp.MustCompile(`\b(platform|software|solution|tool|system)\b`), ""},
}

// Purpose extraction table, also ordered. Each pattern captures the phrase
// describing what the subject does.
var purposePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:helps?|enables?|allows?|empowers?)\s+(?:organizations|organisations|companies|businesses|teams|users)?\s*(?:to\s+)?([^.]{10,150})`),
	regexp.MustCompile(`designed\s+to\s+([^.]{10,150})`),
	regexp.MustCompile(`used\s+to\s+([^.]{10,150})`),
	regexp.MustCompile(`provides\s+([^.]{10,150})`),
	regexp.MustCompile(`analyzes\s+([^.]{10,150})`),
	regexp.MustCompile(`analyses\s+([^.]{10,150})`),
}

// Domain keywords used as a fallback purpose constructor when no purpose
// phrase matches.
var synthesisDomainKeywords = []string{
	"process mining", "business processes", "erp", "crm", "automation",
	"analytics", "artificial intelligence", "machine learning",
}

const (
	synthesisConfidence    = 0.70
	fallbackCategory       = "platform"
	fallbackPurpose        = "helps organizations improve their business processes"
	tier1DocRatio          = 0.40
	tier2DocRatio          = 0.25
	tier2ChunkRatio        = 0.30
	synthesisDocRatio      = 0.30
	synthesisMaxArch       = 2
	softTemplateCategories = "platform|solution|tool|system|software"
)

// definitionResolution is the outcome of the tiered definition resolver:
// either a final answer (synthesis or failure) or the subset of candidate
// indexes ranking is restricted to.
type definitionResolution struct {
	answer  *domain.Answer
	tierSet []int
}

// resolveDefinition applies the strict tier, the soft tier, then the
// rule-based synthesis fallback. Definition queries never fall back to
// generic ranking: when all three fail, a fixed "no clear definition"
// answer is returned. This is deliberate policy - a definition query must
// not return an unrelated high-similarity chunk.
func (s *AskService) resolveDefinition(
	subject string,
	candidates []scoredCandidate,
	all []domain.EmbeddedChunk,
	docCounts map[string]int,
) definitionResolution {
	normSubject := domain.Normalize(subject)
	if normSubject == "" {
		return definitionResolution{answer: s.noDefinitionAnswer(subject, candidates)}
	}

	if tier1 := s.strictTier(normSubject, candidates, docCounts); len(tier1) > 0 {
		logger.Debug("Definition: %d strict-tier candidates for %q", len(tier1), subject)
		return definitionResolution{tierSet: tier1}
	}

	if tier2 := s.softTier(normSubject, candidates, docCounts); len(tier2) > 0 {
		logger.Debug("Definition: %d soft-tier candidates for %q", len(tier2), subject)
		return definitionResolution{tierSet: tier2}
	}

	if answer := s.synthesizeDefinition(subject, normSubject, all, docCounts); answer != nil {
		logger.Info("Definition: synthesized answer for %q from %s", subject, answer.Source)
		return definitionResolution{answer: answer}
	}

	return definitionResolution{answer: s.noDefinitionAnswer(subject, candidates)}
}

// strictTier selects candidates in the first 40% of their document that
// contain the literal "<subject> is a|an|the" pattern and are not
// hard-excluded.
func (s *AskService) strictTier(normSubject string, candidates []scoredCandidate, docCounts map[string]int) []int {
	strictRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(normSubject) + `\s+is\s+(a|an|the)\s`)

	var set []int
	for i, cand := range candidates {
		if !withinDocRatio(cand.Chunk, docCounts, tier1DocRatio) {
			continue
		}
		if hardExcluded(cand.normText) {
			continue
		}
		if strictRe.MatchString(cand.normText) {
			set = append(set, i)
		}
	}
	return set
}

// softTier selects candidates in the first 25% of their document matching
// one of the soft definition templates, where the template match starts
// within the first 30% of the chunk's own length. A late coincidental match
// does not qualify.
func (s *AskService) softTier(normSubject string, candidates []scoredCandidate, docCounts map[string]int) []int {
	templates := softTemplates(normSubject)

	var set []int
	for i, cand := range candidates {
		if !withinDocRatio(cand.Chunk, docCounts, tier2DocRatio) {
			continue
		}
		if hardExcluded(cand.normText) {
			continue
		}
		pos, ok := earliestTemplateMatch(templates, cand.normText)
		if !ok {
			continue
		}
		if float64(pos) <= tier2ChunkRatio*float64(len(cand.normText)) {
			set = append(set, i)
		}
	}
	return set
}

// softTemplates builds the soft definition templates for a subject.
func softTemplates(normSubject string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(normSubject)
	return []*regexp.Regexp{
		regexp.MustCompile(quoted + `\s+is\s+a\s+(` + softTemplateCategories + `)\s+that`),
		regexp.MustCompile(`overview\s+of\s+` + quoted),
		regexp.MustCompile(`introduction\s+to\s+` + quoted),
		regexp.MustCompile(`introducing\s+` + quoted),
		regexp.MustCompile(`this\s+(document|guide)\s+(provides|covers|explains)[^.]{0,100}` + quoted),
		regexp.MustCompile(`about\s+` + quoted),
		regexp.MustCompile(`what\s+is\s+` + quoted + `[\s\S]{0,500}` + quoted + `\s+is`),
	}
}

func earliestTemplateMatch(templates []*regexp.Regexp, normText string) (int, bool) {
	best := -1
	for _, re := range templates {
		if loc := re.FindStringIndex(normText); loc != nil {
			if best < 0 || loc[0] < best {
				best = loc[0]
			}
		}
	}
	return best, best >= 0
}

// synthesizeDefinition composes "<subject> is a <category> that <purpose>."
// from the first suitable chunk across the whole corpus, sorted by document
// name then chunk index. Chunk 0 of a document is always acceptable; later
// chunks qualify only with at most 2 architecture indicators.
func (s *AskService) synthesizeDefinition(
	subject, normSubject string,
	all []domain.EmbeddedChunk,
	docCounts map[string]int,
) *domain.Answer {
	sorted := make([]domain.EmbeddedChunk, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Chunk.SourceFile != sorted[j].Chunk.SourceFile {
			return sorted[i].Chunk.SourceFile < sorted[j].Chunk.SourceFile
		}
		return sorted[i].Chunk.Index < sorted[j].Chunk.Index
	})

	for _, ec := range sorted {
		if !withinDocRatio(ec.Chunk, docCounts, synthesisDocRatio) {
			continue
		}
		normText := domain.Normalize(ec.Chunk.Text)
		if !containsPhrase(normText, normSubject) {
			continue
		}
		if ec.Chunk.Index != 0 && countIndicators(architectureIndicators, normText) > synthesisMaxArch {
			continue
		}

		// Category and purpose are extracted from the raw text lower-cased
		// so sentence boundaries survive; normalisation strips periods.
		lowerText := strings.ToLower(ec.Chunk.Text)
		category := extractCategory(lowerText)
		purpose := extractPurpose(lowerText, normText)

		text := fmt.Sprintf("%s is a %s that %s.", subject, category, purpose)
		return &domain.Answer{
			Text:       text,
			Source:     ec.Chunk.SourceFile,
			Confidence: synthesisConfidence,
		}
	}

	return nil
}

// noDefinitionAnswer is the fixed failure response for definition queries.
// Source names the first candidate's document when any candidates existed.
func (s *AskService) noDefinitionAnswer(subject string, candidates []scoredCandidate) *domain.Answer {
	source := ""
	if len(candidates) > 0 {
		source = candidates[0].Chunk.SourceFile
	}
	return &domain.Answer{
		Text:        msgNoDefinition,
		Source:      source,
		Confidence:  0,
		Explanation: fmt.Sprintf("no definition-style sentence for %q was found in any document", subject),
	}
}

// hardExcluded reports whether the chunk matches either hard-exclusion
// indicator family.
func hardExcluded(normText string) bool {
	return countIndicators(architectureIndicators, normText) > 0 ||
		countIndicators(explanationIndicators, normText) > 0
}

func countIndicators(indicators []*regexp.Regexp, normText string) int {
	count := 0
	for _, re := range indicators {
		if re.MatchString(normText) {
			count++
		}
	}
	return count
}

func withinDocRatio(chunk domain.Chunk, docCounts map[string]int, ratio float64) bool {
	count := docCounts[chunk.SourceFile]
	if count == 0 {
		return false
	}
	return float64(chunk.Index)/float64(count) < ratio
}

func extractCategory(lowerText string) string {
	for _, cp := range categoryPatterns {
		if m := cp.re.FindStringSubmatch(lowerText); m != nil {
			if cp.label != "" {
				return cp.label
			}
			return m[1]
		}
	}
	return fallbackCategory
}

func extractPurpose(lowerText, normText string) string {
	for _, re := range purposePatterns {
		if m := re.FindStringSubmatch(lowerText); m != nil {
			return strings.TrimSpace(strings.Trim(m[1], " ,;"))
		}
	}

	var found []string
	for _, kw := range synthesisDomainKeywords {
		if containsPhrase(normText, kw) {
			found = append(found, kw)
			if len(found) == 3 {
				break
			}
		}
	}
	if len(found) > 0 {
		return "helps organizations work with " + strings.Join(found, ", ")
	}

	return fallbackPurpose
}
