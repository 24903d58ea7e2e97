package extract

import (
	"regexp"
	"strings"
)

// tagPattern matches any <...> token regardless of tag name or attributes.
// It is deliberately not HTML-aware: comments, malformed markup and
// script/style content get no special handling, and entities are left
// encoded. This mirrors the lossy behavior of a plain regex substitution.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// wsPattern matches runs of whitespace, for optional normalization.
var wsPattern = regexp.MustCompile(`\s+`)

// StripTags removes every substring matching the generic tag pattern.
// Input without <...> substrings passes through unchanged. Whitespace is
// preserved exactly as left after tag removal.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and
// trims the result.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(wsPattern.ReplaceAllString(s, " "))
}

// StripStrategy is the default extraction strategy: literal tag removal
// over the whole document.
type StripStrategy struct{}

// Name returns the strategy identifier.
func (StripStrategy) Name() string { return "strip" }

// Extract implements Strategy.
func (StripStrategy) Extract(html string) (string, error) {
	return StripTags(html), nil
}
