package listings

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-catalog/internal/collections"
	"github.com/goliatone/go-catalog/internal/directives"
	"github.com/goliatone/go-catalog/internal/identity"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/variants"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// CollectionFinder looks up a stored collection by slug.
type CollectionFinder interface {
	GetBySlug(ctx context.Context, slug string) (*collections.Collection, error)
}

// ItemResolver resolves one page of a collection's items.
type ItemResolver interface {
	ResolveItems(ctx context.Context, col *collections.Collection, req collections.PageRequest) collections.ItemPage
}

// ItemFinder resolves item summaries for an explicit slug list.
type ItemFinder interface {
	FindItemsBySlugs(ctx context.Context, slugs []string) ([]collections.ItemSummary, error)
}

// ComposeContext carries per-request inputs for composition. PageFor maps a
// listing's page key to the page number the reader requested; a nil func or a
// non-positive page means page one.
type ComposeContext struct {
	DefaultCollectionSlug string
	ExplicitItemSlugs     []string
	PageFor               func(pageKey string) int
	CorrelationID         string
}

// Composer extracts listing directives from article content, resolves each
// against the catalog, and substitutes rendered listing blocks back into the
// document.
type Composer struct {
	parser      *directives.Parser
	collections CollectionFinder
	resolver    ItemResolver
	items       ItemFinder
	hrefs       *HrefBuilder
	pageSize    int
	logger      interfaces.Logger
}

// ComposerOption customises the composer.
type ComposerOption func(*Composer)

// WithLogger wires the composer's module logger.
func WithLogger(logger interfaces.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithParser replaces the directive parser, usually to share its logger.
func WithParser(parser *directives.Parser) ComposerOption {
	return func(c *Composer) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithHrefBuilder wires the urlkit backed link resolver.
func WithHrefBuilder(hrefs *HrefBuilder) ComposerOption {
	return func(c *Composer) {
		if hrefs != nil {
			c.hrefs = hrefs
		}
	}
}

// WithPageSize overrides the per-listing page size.
func WithPageSize(size int) ComposerOption {
	return func(c *Composer) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewComposer builds a listing composer over the given collaborators.
func NewComposer(finder CollectionFinder, resolver ItemResolver, items ItemFinder, opts ...ComposerOption) *Composer {
	c := &Composer{
		parser:      directives.NewParser(),
		collections: finder,
		resolver:    resolver,
		items:       items,
		hrefs:       NewHrefBuilder(HrefBuilderOptions{}),
		pageSize:    collections.DefaultPageSize,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose extracts every listing directive from content, resolves it, and
// replaces its marker with the rendered block. Resolution failures degrade to
// empty listings; composition itself never fails.
func (c *Composer) Compose(ctx context.Context, content string, cc ComposeContext) Document {
	extracted := c.parser.Extract(content)
	body := extracted.Content
	found := extracted.Directives

	// An article with no directive of its own still gets one listing when the
	// surrounding context names a collection or an explicit product list.
	if len(found) == 0 {
		if fallback, ok := fallbackDirective(cc); ok {
			fallback.Marker = directives.MarkerFor(0)
			body = body + "\n" + fallback.Marker
			found = append(found, fallback)
		}
	}

	listings := make([]Listing, 0, len(found))
	rendered := map[string]string{}
	pageKeys := map[string]string{}
	pagerCount := 0

	for _, directive := range found {
		var slug, pageKey string
		var explicitSlugs []string
		var dedupKey string

		if directive.Kind == directives.KindExplicitList {
			explicitSlugs = directive.ExplicitSlugs
			if len(explicitSlugs) == 0 {
				explicitSlugs = cc.ExplicitItemSlugs
			}
			dedupKey = "list|" + strings.Join(explicitSlugs, ",")
		} else {
			slug = directive.CollectionSlug
			if slug == "" {
				slug = cc.DefaultCollectionSlug
			}
			if slug == "" {
				// Nothing to resolve against; the marker disappears.
				body = strings.Replace(body, directive.Marker, "", 1)
				continue
			}
			pageKey = pageKeys[slug]
			if pageKey == "" {
				pagerCount++
				pageKey = pageKeyFor(pagerCount)
				pageKeys[slug] = pageKey
			}
			dedupKey = "col|" + slug + "|" + pageKey
		}

		// Repeated directives reuse the block composed for the first
		// occurrence instead of querying again.
		if html, dup := rendered[dedupKey]; dup {
			body = strings.Replace(body, directive.Marker, html, 1)
			continue
		}

		var listing Listing
		if directive.Kind == directives.KindExplicitList {
			listing = c.composeExplicit(ctx, directive, explicitSlugs, cc)
		} else {
			listing = c.composeCollection(ctx, directive, slug, pageKey, cc)
		}
		rendered[dedupKey] = listing.HTML

		listing.Marker = directive.Marker
		body = strings.Replace(body, directive.Marker, listing.HTML, 1)
		if len(listing.Items) > 0 {
			listings = append(listings, listing)
		}
	}

	return Document{HTML: body, Listings: listings}
}

func (c *Composer) composeExplicit(ctx context.Context, directive directives.Directive, slugs []string, cc ComposeContext) Listing {
	listing := Listing{
		Kind:    directives.KindExplicitList,
		Heading: directive.CollectionLabel,
	}

	items, err := c.items.FindItemsBySlugs(ctx, slugs)
	if err != nil {
		c.logger.Error("explicit listing lookup failed",
			"correlation_id", cc.CorrelationID,
			"error", err,
		)
		items = nil
	}
	listing.Items = items

	if len(items) == 0 {
		listing.HTML = renderExplicitEmpty()
		return listing
	}
	listing.HTML = c.renderListing(listing)
	return listing
}

func (c *Composer) composeCollection(ctx context.Context, directive directives.Directive, slug, pageKey string, cc ComposeContext) Listing {
	col, err := c.collections.GetBySlug(ctx, slug)
	if err != nil && !collections.IsNotFound(err) {
		logging.WithResolutionContext(c.logger, slug, "", cc.CorrelationID).
			Error("collection lookup failed", "error", err)
	}
	// A slug nobody stored, or one stored for a different kind of content,
	// gets a virtual items collection so the legacy representation predicate
	// stays in play.
	virtual := col == nil || col.Kind != collections.KindItems
	if virtual {
		col = &collections.Collection{
			ID:   identity.VirtualCollectionUUID(slug),
			Kind: collections.KindItems,
			Slug: slug,
			Name: titleFromSlug(slug),
		}
	}

	// The stored record names the listing; the directive label only takes
	// over when there is no stored name to use. Against a stored record the
	// label rides along as a subtitle, unless it is just the reference text
	// the slug was derived from.
	heading := col.Name
	subtitle := ""
	if label := directive.CollectionLabel; label != "" {
		switch {
		case virtual && label != slug:
			heading = label
		case !virtual && !strings.EqualFold(label, heading) && variants.Slugify(label) != slug:
			subtitle = label
		}
	}

	page := 1
	if cc.PageFor != nil {
		if requested := cc.PageFor(pageKey); requested > 0 {
			page = requested
		}
	}

	req := collections.PageRequest{Limit: c.pageSize, Offset: (page - 1) * c.pageSize}
	result := c.resolver.ResolveItems(ctx, col, req)

	totalPages := (result.Total + c.pageSize - 1) / c.pageSize
	if result.Total > 0 && page > totalPages {
		// The reader asked for a page past the end, usually a stale link.
		// Resolve again at the last real page instead of showing nothing.
		page = totalPages
		req.Offset = (page - 1) * c.pageSize
		result = c.resolver.ResolveItems(ctx, col, req)
	}

	listing := Listing{
		Kind:     directives.KindCollectionBound,
		Heading:  heading,
		Subtitle: subtitle,
		Slug:     slug,
		Items:    result.Items,
	}

	if result.Total == 0 {
		listing.HTML = renderCollectionEmpty(heading)
		return listing
	}

	listing.ViewAllURL = c.hrefs.CollectionURL(slug)
	listing.Pagination = &Pagination{
		PageKey:     pageKey,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  result.Total,
	}
	listing.HTML = c.renderListing(listing)
	return listing
}

func fallbackDirective(cc ComposeContext) (directives.Directive, bool) {
	if cc.DefaultCollectionSlug != "" {
		return directives.Directive{
			Kind:           directives.KindCollectionBound,
			CollectionSlug: cc.DefaultCollectionSlug,
		}, true
	}
	if len(cc.ExplicitItemSlugs) > 0 {
		return directives.Directive{
			Kind:          directives.KindExplicitList,
			ExplicitSlugs: cc.ExplicitItemSlugs,
		}, true
	}
	return directives.Directive{}, false
}

// pageKeyFor names the pager parameter for the nth collection-bound listing
// in a document: page, page2, page3, ...
func pageKeyFor(n int) string {
	if n <= 1 {
		return "page"
	}
	return fmt.Sprintf("page%d", n)
}

// titleFromSlug derives a readable name for a collection that exists only as
// a slug, e.g. "cnc-machines" becomes "Cnc Machines".
func titleFromSlug(slug string) string {
	words := []string{}
	for _, word := range strings.Split(slug, "-") {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words = append(words, string(runes))
	}
	return strings.Join(words, " ")
}
