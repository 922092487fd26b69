package listings

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var summaryEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderSummaryHTML converts an item's markdown short summary into HTML.
// Render failures fall back to the raw text so a bad summary never breaks
// the listing.
func renderSummaryHTML(summary string) string {
	trimmed := strings.TrimSpace(summary)
	if trimmed == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := summaryEngine.Convert([]byte(trimmed), &buf); err != nil {
		return trimmed
	}
	return strings.TrimSpace(buf.String())
}
