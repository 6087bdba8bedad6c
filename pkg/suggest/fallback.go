package suggest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/minhlq/curmap/pkg/dataset"
)

var wordRE = regexp.MustCompile(`[a-z0-9]+`)

// FallbackSuggest generates candidate detail texts locally: one line per
// picked verb, templated over the course name and outcome. Deterministic
// for identical inputs, so repeated calls agree with the cache.
func FallbackSuggest(tax *Taxonomy, outcome, courseName string, level dataset.Level, count int) []string {
	if courseName == "" {
		courseName = "the course"
	}
	verbs := tax.PickVerbs(level, count)
	items := make([]string, len(verbs))
	for i, v := range verbs {
		items[i] = fmt.Sprintf("CLO%d: %s %s in support of %s (%s).", i+1, v.Verb, courseName, outcome, v.Level)
	}
	return items
}

// Evaluation is the outcome of scoring a detail text against its outcome.
type Evaluation struct {
	Score   int    `json:"score"` // 0 to 100
	Verdict string `json:"verdict"`
	Text    string `json:"text"`
}

// FallbackEvaluate scores a detail text by keyword overlap with the outcome
// text. Words are diacritic-folded and lower-cased before comparison, so
// accented source material still matches.
func FallbackEvaluate(outcomeText, detailText string) Evaluation {
	outcomeWords := keywords(outcomeText)
	base := len(outcomeWords)
	if base < 4 {
		base = 4
	}

	overlap := 0
	for w := range keywords(detailText) {
		if _, ok := outcomeWords[w]; ok {
			overlap++
		}
	}

	score := int(float64(overlap)/float64(base)*100 + 0.5)
	if score > 100 {
		score = 100
	}

	verdict := "weak match"
	switch {
	case score >= 70:
		verdict = "strong match"
	case score >= 40:
		verdict = "partial match"
	}

	return Evaluation{
		Score:   score,
		Verdict: verdict,
		Text: fmt.Sprintf("Keyword similarity (heuristic): %d/100, %s. "+
			"Consider echoing the outcome's key terms and using a measurable Bloom verb.", score, verdict),
	}
}

// keywords extracts the set of comparison tokens from free text.
func keywords(s string) map[string]struct{} {
	folded, _, err := transform.String(transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), s)
	if err != nil {
		folded = s
	}
	out := make(map[string]struct{})
	for _, w := range wordRE.FindAllString(strings.ToLower(folded), -1) {
		out[w] = struct{}{}
	}
	return out
}
