package listings

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-catalog/collections"
)

// renderListing produces the HTML block for a populated listing.
func (c *Composer) renderListing(listing Listing) string {
	var out strings.Builder

	out.WriteString(`<section class="product-listing"`)
	if listing.Slug != "" {
		fmt.Fprintf(&out, ` data-collection=%q`, listing.Slug)
	}
	out.WriteString(">\n")

	if listing.Heading != "" {
		fmt.Fprintf(&out, "<h2>%s</h2>\n", html.EscapeString(listing.Heading))
	}
	if listing.Subtitle != "" {
		fmt.Fprintf(&out, `<p class="product-listing-subtitle">%s</p>`+"\n", html.EscapeString(listing.Subtitle))
	}

	out.WriteString(`<ul class="product-listing-items">` + "\n")
	for _, item := range listing.Items {
		out.WriteString(c.renderItem(item))
	}
	out.WriteString("</ul>\n")

	if listing.Pagination != nil && listing.Pagination.TotalPages > 1 {
		fmt.Fprintf(&out,
			`<nav class="product-listing-pager" data-page-key=%q data-page="%d" data-pages="%d"></nav>`+"\n",
			listing.Pagination.PageKey,
			listing.Pagination.CurrentPage,
			listing.Pagination.TotalPages,
		)
	}

	if listing.ViewAllURL != "" {
		fmt.Fprintf(&out, `<a class="product-listing-all" href=%q>%s</a>`+"\n",
			listing.ViewAllURL,
			html.EscapeString("View all "+listing.Heading),
		)
	}

	out.WriteString("</section>")
	return out.String()
}

func (c *Composer) renderItem(item collections.ItemSummary) string {
	var out strings.Builder

	fmt.Fprintf(&out, `<li class="product-listing-item" data-item=%q>`+"\n", item.Slug)
	if item.PrimaryImageURL != nil && *item.PrimaryImageURL != "" {
		fmt.Fprintf(&out, `<img src=%q alt=%q>`+"\n", *item.PrimaryImageURL, html.EscapeString(item.Title))
	}
	fmt.Fprintf(&out, `<a href=%q>%s</a>`+"\n", c.hrefs.ItemURL(item.Slug), html.EscapeString(item.Title))
	if item.Price != nil && *item.Price != "" {
		fmt.Fprintf(&out, `<span class="product-listing-price">%s</span>`+"\n", html.EscapeString(*item.Price))
	}
	if item.ShortSummary != nil {
		if rendered := renderSummaryHTML(*item.ShortSummary); rendered != "" {
			fmt.Fprintf(&out, `<div class="product-listing-summary">%s</div>`+"\n", rendered)
		}
	}
	out.WriteString("</li>\n")
	return out.String()
}

// renderCollectionEmpty names the collection the reader asked about so an
// empty result still reads as an answer, not an error.
func renderCollectionEmpty(name string) string {
	return fmt.Sprintf(
		`<section class="product-listing product-listing-empty"><p>No products found in %s.</p></section>`,
		html.EscapeString(name),
	)
}

func renderExplicitEmpty() string {
	return `<section class="product-listing product-listing-empty"><p>No products selected.</p></section>`
}
