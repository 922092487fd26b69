package directives

// Kind classifies a listing directive.
type Kind string

const (
	// KindCollectionBound resolves items dynamically from a collection.
	KindCollectionBound Kind = "collection_bound"
	// KindExplicitList resolves a fixed, author-ordered list of item slugs.
	KindExplicitList Kind = "explicit_list"
)

// Directive is one listing request extracted from article content.
//
// CollectionLabel keeps the author's raw text for display; CollectionSlug is
// its slugified form used for matching. The two deliberately diverge when the
// stored collection's name differs from what the author wrote.
type Directive struct {
	Kind            Kind
	CollectionSlug  string
	CollectionLabel string
	ExplicitSlugs   []string
	Marker          string
}

// ExtractResult carries the rewritten content, with each directive span
// replaced by its unique marker, plus the directives in document order.
type ExtractResult struct {
	Content    string
	Directives []Directive
}
