package variants

import (
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Build produces every candidate string form used to fuzzy-match a collection
// against legacy membership text: the raw slug and display name, the slugified
// name, and hyphen/space/underscore permutations of both. The result is
// case-folded, deduplicated, and sorted; callers can rely on set equality
// regardless of input casing. Empty strings are never emitted.
func Build(collectionSlug, name string) []string {
	set := map[string]struct{}{}
	add := func(value string) {
		folded := strings.ToLower(strings.TrimSpace(value))
		if folded != "" {
			set[folded] = struct{}{}
		}
	}

	rawSlug := strings.TrimSpace(collectionSlug)
	rawName := collapseWhitespace(name)

	add(rawSlug)
	add(rawName)

	slugLike := Slugify(rawName)
	add(slugLike)
	if slugLike != "" {
		add(strings.ReplaceAll(slugLike, "-", " "))
		add(strings.ReplaceAll(slugLike, "-", "_"))
	}

	if rawSlug != "" {
		add(strings.ReplaceAll(rawSlug, "-", " "))
		add(strings.ReplaceAll(rawSlug, "-", "_"))
	}

	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// deaccenter decomposes accented characters and drops the combining marks so
// "Máquinas" slugifies to "maquinas" rather than losing the letter entirely.
var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes free text into slug form: diacritics stripped,
// non-alphanumeric runs collapsed to single hyphens, lowercased, trimmed.
func Slugify(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if folded, _, err := transform.String(deaccenter, trimmed); err == nil {
		trimmed = folded
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil {
		return ""
	}
	return normalized
}

func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
