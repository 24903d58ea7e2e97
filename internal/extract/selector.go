package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order when looking for the main content
// block of a page.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".content",
	"#content",
	".post-content",
	".article-content",
}

// minContentLength is the shortest text a selector match must carry to be
// considered the page's main content.
const minContentLength = 100

// SelectorStrategy extracts the main content block via common content
// CSS selectors, falling back to body text when none matches.
type SelectorStrategy struct{}

// Name returns the strategy identifier.
func (SelectorStrategy) Name() string { return "selector" }

// Extract implements Strategy.
func (SelectorStrategy) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		if len(text) > minContentLength {
			return text, nil
		}
	}

	// Fallback: whole body with non-content elements removed
	body := doc.Find("body").Clone()
	body.Find("header, footer, nav, aside, iframe, script, style").Remove()
	return strings.TrimSpace(body.Text()), nil
}

// PageTitle returns the <title> text of the document, best-effort.
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
