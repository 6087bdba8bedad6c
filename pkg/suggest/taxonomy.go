// Package suggest produces candidate learning-outcome texts and quality
// assessments, preferring a remote service and falling back to a
// deterministic local generator whenever the remote side fails.
package suggest

import (
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/minhlq/curmap/pkg/dataset"
)

// Verb is one Bloom taxonomy entry.
type Verb struct {
	Verb  string `json:"verb"`
	Level string `json:"level"` // Bloom level, e.g. "Apply"; "*" for generic
}

// levelBloom maps a proficiency level to the Bloom levels whose verbs suit
// it.
var levelBloom = map[dataset.Level][]string{
	dataset.LevelIntroduce: {"Remember", "Understand"},
	dataset.LevelReinforce: {"Apply", "Analyze"},
	dataset.LevelMaster:    {"Analyze", "Evaluate"},
	dataset.LevelAssess:    {"Evaluate", "Create"},
}

// genericVerbs backs PickVerbs when no taxonomy was loaded for the level.
var genericVerbs = []string{"Describe", "Explain", "Apply", "Analyze", "Evaluate", "Create"}

// Taxonomy is a loaded verb list grouped by Bloom level.
type Taxonomy struct {
	verbs   []Verb
	byLevel map[string][]string
}

// NewTaxonomy builds a taxonomy from a verb list. Entries with an empty verb
// are dropped; Bloom levels are title-cased for lookup.
func NewTaxonomy(verbs []Verb) *Taxonomy {
	t := &Taxonomy{byLevel: make(map[string][]string)}
	for _, v := range verbs {
		v.Verb = strings.TrimSpace(v.Verb)
		v.Level = canonLevel(v.Level)
		if v.Verb == "" {
			continue
		}
		t.verbs = append(t.verbs, v)
		t.byLevel[v.Level] = append(t.byLevel[v.Level], v.Verb)
	}
	return t
}

// LoadTaxonomy reads a verb,level CSV.
func LoadTaxonomy(r io.Reader) (*Taxonomy, error) {
	rows, err := dataset.ReadRows(r)
	if err != nil {
		return nil, err
	}
	verbs := make([]Verb, 0, len(rows))
	for _, row := range rows {
		verbs = append(verbs, Verb{Verb: row.Get("verb"), Level: row.Get("level")})
	}
	return NewTaxonomy(verbs), nil
}

// LoadTaxonomyFile reads a verb,level CSV from disk.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTaxonomy(f)
}

// Verbs returns the loaded entries, in load order.
func (t *Taxonomy) Verbs() []Verb {
	if t == nil {
		return nil
	}
	out := make([]Verb, len(t.verbs))
	copy(out, t.verbs)
	return out
}

// PickVerbs selects up to n distinct verbs suited to the proficiency level.
// Selection is deterministic: the pool is walked in taxonomy order,
// deduplicating case-insensitively. Without matching taxonomy entries the
// generic Bloom verbs fill in with level "*".
func (t *Taxonomy) PickVerbs(level dataset.Level, n int) []Verb {
	var pool []Verb
	if t != nil {
		for _, bloom := range levelBloom[level] {
			for _, verb := range t.byLevel[bloom] {
				pool = append(pool, Verb{Verb: verb, Level: bloom})
			}
		}
	}
	if len(pool) == 0 {
		for _, verb := range genericVerbs {
			pool = append(pool, Verb{Verb: verb, Level: "*"})
		}
	}

	seen := make(map[string]struct{}, n)
	var out []Verb
	for _, v := range pool {
		if len(out) == n {
			break
		}
		key := strings.ToLower(v.Verb)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func canonLevel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "*"
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
