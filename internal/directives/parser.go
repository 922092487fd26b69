package directives

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/variants"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// canonicalPattern scans the canonical directive form. Non-greedy and
// multi-line tolerant so a descriptor may wrap across lines.
var canonicalPattern = regexp.MustCompile(`(?is)<!--\s*product[\s_-]*listing\b(.*?)-->`)

// manualKeywords classify a directive as an explicit, author-curated list.
var manualKeywords = map[string]struct{}{
	"manual":   {},
	"static":   {},
	"explicit": {},
	"custom":   {},
}

var (
	modeAttributes   = []string{"type", "source", "mode"}
	targetAttributes = []string{"category", "slug", "collection"}
	itemsAttributes  = []string{"items", "products"}
)

// MarkerFor returns the placeholder written in place of the directive at the
// given document-order index.
func MarkerFor(index int) string {
	return fmt.Sprintf("<!-- listing-slot:%d -->", index)
}

// Parser extracts listing directives from article content.
type Parser struct {
	logger interfaces.Logger
}

// ParserOption customises the parser.
type ParserOption func(*Parser)

// WithLogger wires the parser's module logger.
func WithLogger(logger interfaces.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser constructs a directive parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract normalizes alternate directive syntaxes, replaces each directive
// span with a unique marker, and returns the rewritten content plus the
// directives in document order. Surrounding text is preserved byte-for-byte.
// Malformed descriptors are not extracted; their original text passes through
// verbatim.
func (p *Parser) Extract(content string) ExtractResult {
	normalized := NormalizeSyntax(content)

	var out strings.Builder
	directives := []Directive{}
	position := 0

	for position < len(normalized) {
		loc := canonicalPattern.FindStringSubmatchIndex(normalized[position:])
		if loc == nil {
			out.WriteString(normalized[position:])
			break
		}

		start := position + loc[0]
		end := position + loc[1]
		descriptor := normalized[position+loc[2] : position+loc[3]]

		out.WriteString(normalized[position:start])

		directive, err := p.parseDescriptor(descriptor)
		if err != nil {
			p.logger.Warn("listing directive descriptor rejected",
				"descriptor", strings.TrimSpace(descriptor),
				"error", err,
			)
			out.WriteString(normalized[start:end])
		} else {
			directive.Marker = MarkerFor(len(directives))
			out.WriteString(directive.Marker)
			directives = append(directives, directive)
		}

		position = end
	}

	return ExtractResult{Content: out.String(), Directives: directives}
}

// parseDescriptor applies the descriptor grammar. It only errors when the
// span is malformed beyond recovery; ambiguous descriptors degrade to a
// collection-bound directive with no slug so the caller can supply a
// contextual default.
func (p *Parser) parseDescriptor(raw string) (Directive, error) {
	collapsed := strings.Join(strings.Fields(raw), " ")
	folded := strings.ToLower(collapsed)

	tokens, err := splitDescriptor(collapsed)
	if err != nil {
		return Directive{}, err
	}

	attrs := map[string]string{}
	free := []string{}
	for _, token := range tokens {
		key, value, isAttr := splitAttribute(token)
		if !isAttr {
			free = append(free, token)
			continue
		}
		if key == "" || value == "" {
			return Directive{}, fmt.Errorf("attribute %q missing key or value", token)
		}
		attrs[strings.ToLower(key)] = value
	}

	if err := validateAttributes(attrs); err != nil {
		return Directive{}, err
	}

	directive := Directive{Kind: KindCollectionBound}
	if label, ok := attrs["label"]; ok {
		directive.CollectionLabel = label
	}

	if isManualDescriptor(folded, free, attrs) {
		directive.Kind = KindExplicitList
		directive.ExplicitSlugs = explicitSlugsFrom(attrs)
		return directive, nil
	}

	for _, key := range targetAttributes {
		if value, ok := attrs[key]; ok {
			directive.CollectionSlug = variants.Slugify(value)
			if directive.CollectionLabel == "" {
				directive.CollectionLabel = value
			}
			return directive, nil
		}
	}

	if len(free) > 0 && !hasUnrecognizedAttributes(attrs) {
		phrase := strings.Join(free, " ")
		if slug := variants.Slugify(phrase); slug != "" {
			directive.CollectionSlug = slug
			if directive.CollectionLabel == "" {
				directive.CollectionLabel = phrase
			}
			return directive, nil
		}
	}

	// Ambiguous free text is never guessed as a slug; the directive falls
	// back to the caller's contextual default.
	if len(attrs) > 0 || len(free) > 0 {
		p.logger.Debug("listing directive descriptor ambiguous",
			"descriptor", collapsed,
		)
	}
	return directive, nil
}

func isManualDescriptor(folded string, free []string, attrs map[string]string) bool {
	if _, ok := manualKeywords[folded]; ok {
		return true
	}
	for _, token := range free {
		if _, ok := manualKeywords[strings.ToLower(token)]; ok {
			return true
		}
	}
	for _, key := range modeAttributes {
		if value, ok := attrs[key]; ok {
			if _, manual := manualKeywords[strings.ToLower(value)]; manual {
				return true
			}
		}
	}
	return false
}

func explicitSlugsFrom(attrs map[string]string) []string {
	for _, key := range itemsAttributes {
		value, ok := attrs[key]
		if !ok {
			continue
		}
		parts := strings.Split(value, ",")
		slugs := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				slugs = append(slugs, trimmed)
			}
		}
		if len(slugs) > 0 {
			return slugs
		}
	}
	return nil
}

func hasUnrecognizedAttributes(attrs map[string]string) bool {
	for key := range attrs {
		if !isRecognizedAttribute(key) {
			return true
		}
	}
	return false
}

func isRecognizedAttribute(key string) bool {
	for _, known := range modeAttributes {
		if key == known {
			return true
		}
	}
	for _, known := range targetAttributes {
		if key == known {
			return true
		}
	}
	for _, known := range itemsAttributes {
		if key == known {
			return true
		}
	}
	return key == "label" || key == "limit"
}

// splitDescriptor tokenizes on whitespace while keeping double-quoted spans
// intact. An unbalanced quote makes the descriptor malformed.
func splitDescriptor(value string) ([]string, error) {
	tokens := []string{}
	var current strings.Builder
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range value {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unbalanced quote in descriptor %q", value)
	}
	flush()
	return tokens, nil
}

func splitAttribute(token string) (key, value string, isAttr bool) {
	idx := strings.Index(token, "=")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(token[:idx])
	value = strings.Trim(strings.TrimSpace(token[idx+1:]), `"`)
	return key, value, true
}
