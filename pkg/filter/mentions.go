package filter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PostField is one named chunk of post content, possibly HTML
type PostField struct {
	Name string
	HTML string
}

// FindInPost scans post fields in order and reports the first gazetteer hit.
// The source is "post_" plus the field name.
func (g *Gazetteer) FindInPost(fields ...PostField) (Match, bool) {
	for _, f := range fields {
		text := htmlText(f.HTML)
		if term, ok := g.Find(text); ok {
			return Match{Term: term, Source: "post_" + f.Name}, true
		}
	}
	return Match{}, false
}

// htmlText reduces an HTML fragment to its visible text
func htmlText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	if !strings.Contains(fragment, "<") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	// keep words in adjacent blocks apart
	doc.Find("p, br, div, li, h1, h2, h3, h4, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}
