package directives

import (
	"regexp"
	"strings"
)

// Alternate authoring syntaxes for listing directives, oldest first. Each is
// rewritten into the canonical comment form before structural parsing so new
// syntaxes can be added here without touching the descriptor grammar. The
// double-bracket form must run before the single-bracket form.
var bracketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\[\[\s*(product[\s_-]*listing\b[^\]]*?)\s*\]\]`),
	regexp.MustCompile(`(?is)\{\{\s*(product[\s_-]*listing\b[^{}]*?)\s*\}\}`),
	regexp.MustCompile(`(?is)%%\s*(product[\s_-]*listing\b[^%]*?)\s*%%`),
	regexp.MustCompile(`(?is)\[\s*(product[\s_-]*listing\b[^\[\]]*?)\s*\]`),
}

// NormalizeSyntax rewrites every alternate listing directive syntax into the
// canonical `<!-- product listing ... -->` form, preserving the inner
// descriptor text. Content without any candidate delimiter passes through
// untouched.
func NormalizeSyntax(content string) string {
	if !strings.ContainsAny(content, "[{%") {
		return content
	}
	for _, pattern := range bracketPatterns {
		content = pattern.ReplaceAllString(content, "<!-- $1 -->")
	}
	return content
}
