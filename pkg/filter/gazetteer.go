package filter

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultLocations is the built-in California and Bay Area gazetteer
var DefaultLocations = []string{
	"california", "ca", "cali", "norcal", "socal",
	"bay area", "silicon valley", "east bay", "south bay", "peninsula",
	"san francisco", "sf", "oakland", "berkeley", "san jose",
	"los angeles", "san diego", "sacramento", "palo alto", "mountain view",
	"fremont", "santa clara", "cupertino", "menlo park", "redwood city",
	"sunnyvale", "santa monica", "venice beach", "pasadena",
}

// Match records which gazetteer term matched and where
type Match struct {
	Term   string
	Source string
}

// Gazetteer finds location terms in free text
type Gazetteer struct {
	terms    []string
	patterns []*regexp.Regexp
}

// NewGazetteer builds a gazetteer from terms. Terms are lower-cased and
// deduplicated, then ordered longest first so "san jose" wins over "sf" or
// "ca" when both occur. With wordBoundary set a term only matches as a whole
// word, so "ca" no longer hits inside "vacation".
func NewGazetteer(terms []string, wordBoundary bool) *Gazetteer {
	seen := make(map[string]struct{}, len(terms))
	g := &Gazetteer{}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		g.terms = append(g.terms, t)
	}

	sort.SliceStable(g.terms, func(i, j int) bool {
		return len(g.terms[i]) > len(g.terms[j])
	})

	if wordBoundary {
		g.patterns = make([]*regexp.Regexp, len(g.terms))
		for i, t := range g.terms {
			g.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
		}
	}
	return g
}

// Terms returns the terms in scan order
func (g *Gazetteer) Terms() []string {
	out := make([]string, len(g.terms))
	copy(out, g.terms)
	return out
}

// Find returns the first term, in scan order, contained in text
func (g *Gazetteer) Find(text string) (string, bool) {
	return g.FindAny([]string{text})
}

// FindAny returns the first term, in scan order, contained in any one of
// texts. Each text is matched separately.
func (g *Gazetteer) FindAny(texts []string) (string, bool) {
	lowered := make([]string, 0, len(texts))
	for _, text := range texts {
		if text != "" {
			lowered = append(lowered, strings.ToLower(text))
		}
	}
	if len(lowered) == 0 {
		return "", false
	}
	for i, t := range g.terms {
		for _, text := range lowered {
			if g.matches(i, text) {
				return t, true
			}
		}
	}
	return "", false
}

func (g *Gazetteer) matches(i int, text string) bool {
	if g.patterns != nil {
		return g.patterns[i].MatchString(text)
	}
	return strings.Contains(text, g.terms[i])
}
