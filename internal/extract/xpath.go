package extract

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// XPathStrategy extracts the text of every node matching an XPath
// expression, joined by newlines.
type XPathStrategy struct {
	// Expr is the XPath expression to evaluate against the document.
	Expr string
}

// Name returns the strategy identifier.
func (s XPathStrategy) Name() string { return "xpath" }

// Extract implements Strategy.
func (s XPathStrategy) Extract(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	nodes, err := htmlquery.QueryAll(doc, s.Expr)
	if err != nil {
		return "", fmt.Errorf("invalid xpath %q: %w", s.Expr, err)
	}

	var parts []string
	for _, node := range nodes {
		if text := strings.TrimSpace(htmlquery.InnerText(node)); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}
