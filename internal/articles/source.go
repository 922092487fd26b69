package articles

import (
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-catalog/internal/variants"
)

// SourceMeta is the frontmatter block of an article source document. The
// collection and products fields seed listing composition when the body
// carries no directive of its own.
type SourceMeta struct {
	Title      string   `yaml:"title" json:"title"`
	Slug       string   `yaml:"slug" json:"slug"`
	Collection string   `yaml:"collection" json:"collection"`
	Products   []string `yaml:"products" json:"products"`
	Draft      bool     `yaml:"draft" json:"draft"`
}

// Source is a parsed article document: its frontmatter plus the raw body.
type Source struct {
	Meta SourceMeta
	Body string
}

// ParseSource splits an article document into frontmatter and body. Documents
// without a frontmatter block parse to empty metadata and the full body.
func ParseSource(r io.Reader) (Source, error) {
	var meta SourceMeta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return Source{}, goerrors.Wrap(err, goerrors.CategoryValidation, "article frontmatter rejected").
			WithTextCode("ARTICLE_FRONTMATTER_INVALID")
	}
	return Source{Meta: meta, Body: string(body)}, nil
}

// ParseSourceString is ParseSource over an in-memory document.
func ParseSourceString(content string) (Source, error) {
	return ParseSource(strings.NewReader(content))
}

// DefaultCollectionSlug returns the slugified form of the frontmatter
// collection, or empty when none was declared.
func (m SourceMeta) DefaultCollectionSlug() string {
	trimmed := strings.TrimSpace(m.Collection)
	if trimmed == "" {
		return ""
	}
	return variants.Slugify(trimmed)
}

// ExplicitItemSlugs returns the trimmed, non-empty product slugs from the
// frontmatter, preserving author order.
func (m SourceMeta) ExplicitItemSlugs() []string {
	if len(m.Products) == 0 {
		return nil
	}
	slugs := make([]string, 0, len(m.Products))
	for _, product := range m.Products {
		if trimmed := strings.TrimSpace(product); trimmed != "" {
			slugs = append(slugs, trimmed)
		}
	}
	return slugs
}
