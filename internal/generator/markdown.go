package generator

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var descriptionEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

func renderDescriptionHTML(description string) string {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := descriptionEngine.Convert([]byte(trimmed), &buf); err != nil {
		return trimmed
	}
	return strings.TrimSpace(buf.String())
}
