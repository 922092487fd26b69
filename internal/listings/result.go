package listings

import (
	"github.com/goliatone/go-catalog/collections"
	"github.com/goliatone/go-catalog/internal/directives"
)

// Pagination describes the pager state of a collection-bound listing. PageKey
// is the query parameter the listing reads its page number from; each
// collection-bound listing in a document gets its own key so pagers stay
// independent.
type Pagination struct {
	PageKey     string `json:"page_key"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	TotalItems  int    `json:"total_items"`
}

// Listing is one composed listing block.
type Listing struct {
	Marker     string                    `json:"marker"`
	Kind       directives.Kind           `json:"kind"`
	Heading    string                    `json:"heading"`
	Subtitle   string                    `json:"subtitle,omitempty"`
	Slug       string                    `json:"slug,omitempty"`
	Items      []collections.ItemSummary `json:"items"`
	ViewAllURL string                    `json:"view_all_url,omitempty"`
	Pagination *Pagination               `json:"pagination,omitempty"`
	HTML       string                    `json:"-"`
}

// Document is the composed article: the content with every directive marker
// replaced by its rendered listing, plus the listings themselves for callers
// that render their own templates. Listings only carries blocks that resolved
// at least one item; empty-state blocks exist in HTML alone.
type Document struct {
	HTML     string    `json:"html"`
	Listings []Listing `json:"listings"`
}
