package listings_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/collections"
	"github.com/goliatone/go-catalog/internal/listings"
)

type resolveCall struct {
	slug string
	kind string
	req  collections.PageRequest
}

type fakeCatalog struct {
	collections map[string]*collections.Collection
	pages       map[string][]collections.ItemSummary
	items       map[string]collections.ItemSummary

	getErr  error
	findErr error

	resolveCalls []resolveCall
	findCalls    int
}

func (f *fakeCatalog) GetBySlug(_ context.Context, slug string) (*collections.Collection, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if col, ok := f.collections[slug]; ok {
		return col, nil
	}
	return nil, &collections.NotFoundError{Resource: "collection", Key: slug}
}

func (f *fakeCatalog) ResolveItems(_ context.Context, col *collections.Collection, req collections.PageRequest) collections.ItemPage {
	f.resolveCalls = append(f.resolveCalls, resolveCall{slug: col.Slug, kind: col.Kind, req: req})
	all := f.pages[col.Slug]
	total := len(all)
	start := req.Offset
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}
	return collections.ItemPage{Items: all[start:end], Total: total}
}

func (f *fakeCatalog) FindItemsBySlugs(_ context.Context, slugs []string) ([]collections.ItemSummary, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := []collections.ItemSummary{}
	for _, slug := range slugs {
		if item, ok := f.items[slug]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func summary(slug, title string) collections.ItemSummary {
	return collections.ItemSummary{ID: uuid.New(), Slug: slug, Title: title}
}

func summaries(n int, prefix string) []collections.ItemSummary {
	out := make([]collections.ItemSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, summary(prefix+string(rune('a'+i)), strings.ToUpper(prefix)+string(rune('a'+i))))
	}
	return out
}

func storedCollection(slug, name string) *collections.Collection {
	return &collections.Collection{ID: uuid.New(), Kind: collections.KindItems, Slug: slug, Name: name}
}

func newComposer(fake *fakeCatalog, opts ...listings.ComposerOption) *listings.Composer {
	return listings.NewComposer(fake, fake, fake, opts...)
}

func TestComposeCollectionListing(t *testing.T) {
	fake := &fakeCatalog{
		collections: map[string]*collections.Collection{
			"robots": storedCollection("robots", "Industrial Robots"),
		},
		pages: map[string][]collections.ItemSummary{
			"robots": {summary("arm-a", "Arm A")},
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		"before\n<!-- product listing robots -->\nafter",
		listings.ComposeContext{})

	if len(doc.Listings) != 1 {
		t.Fatalf("listings = %d", len(doc.Listings))
	}
	listing := doc.Listings[0]
	if listing.Heading != "Industrial Robots" {
		t.Fatalf("heading = %q", listing.Heading)
	}
	if listing.Subtitle != "" {
		t.Fatalf("reference text should not become a subtitle, got %q", listing.Subtitle)
	}
	if strings.Contains(doc.HTML, "listing-slot") {
		t.Fatalf("marker survived composition: %q", doc.HTML)
	}
	if !strings.Contains(doc.HTML, `data-collection="robots"`) {
		t.Fatalf("missing listing section: %q", doc.HTML)
	}
	if !strings.Contains(doc.HTML, `href="/products/arm-a"`) {
		t.Fatalf("missing item link: %q", doc.HTML)
	}
	if !strings.Contains(doc.HTML, `href="/collections/robots"`) {
		t.Fatalf("missing view-all link: %q", doc.HTML)
	}
	if !strings.HasPrefix(doc.HTML, "before\n") || !strings.HasSuffix(doc.HTML, "\nafter") {
		t.Fatalf("surrounding prose altered: %q", doc.HTML)
	}
}

func TestComposeStoredNameWinsOverLabel(t *testing.T) {
	fake := &fakeCatalog{
		collections: map[string]*collections.Collection{
			"robots": storedCollection("robots", "Industrial Robots"),
		},
		pages: map[string][]collections.ItemSummary{
			"robots": {summary("arm-a", "Arm A")},
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		`<!-- product listing category=robots label="Robot Arms We Love" -->`,
		listings.ComposeContext{})

	if len(doc.Listings) != 1 {
		t.Fatalf("listings = %d", len(doc.Listings))
	}
	listing := doc.Listings[0]
	if listing.Heading != "Industrial Robots" {
		t.Fatalf("heading = %q, want the stored collection name", listing.Heading)
	}
	if listing.Subtitle != "Robot Arms We Love" {
		t.Fatalf("subtitle = %q", listing.Subtitle)
	}
	if !strings.Contains(doc.HTML, "<h2>Industrial Robots</h2>") {
		t.Fatalf("missing heading: %q", doc.HTML)
	}
	if !strings.Contains(doc.HTML, `<p class="product-listing-subtitle">Robot Arms We Love</p>`) {
		t.Fatalf("missing subtitle: %q", doc.HTML)
	}
}

func TestComposeArticleCollectionTreatedAsVirtual(t *testing.T) {
	fake := &fakeCatalog{
		collections: map[string]*collections.Collection{
			"cnc-machines": {
				ID:   uuid.New(),
				Kind: collections.KindArticles,
				Slug: "cnc-machines",
				Name: "CNC Reading List",
			},
		},
		pages: map[string][]collections.ItemSummary{
			"cnc-machines": {summary("mill-m", "Mill M")},
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		"<!-- product listing cnc-machines -->",
		listings.ComposeContext{})

	if len(fake.resolveCalls) == 0 || fake.resolveCalls[0].kind != collections.KindItems {
		t.Fatalf("resolver should see an items collection, calls %v", fake.resolveCalls)
	}
	if len(doc.Listings) != 1 {
		t.Fatalf("listings = %d", len(doc.Listings))
	}
	if doc.Listings[0].Heading != "Cnc Machines" {
		t.Fatalf("heading = %q, want the slug-derived name", doc.Listings[0].Heading)
	}
}

func TestComposeUnknownCollectionNamedByLabel(t *testing.T) {
	fake := &fakeCatalog{}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		`<!-- product listing Máquinas CNC -->`,
		listings.ComposeContext{})

	if len(doc.Listings) != 0 {
		t.Fatalf("empty block should not surface as a listing, got %d", len(doc.Listings))
	}
	if !strings.Contains(doc.HTML, "No products found in Máquinas CNC.") {
		t.Fatalf("missing named empty state: %q", doc.HTML)
	}
	if len(fake.resolveCalls) == 0 || fake.resolveCalls[0].slug != "maquinas-cnc" {
		t.Fatalf("expected resolution against virtual collection, calls %v", fake.resolveCalls)
	}
}

func TestComposeFallbackCollectionTitleCasedFromSlug(t *testing.T) {
	fake := &fakeCatalog{}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(), "no directives here",
		listings.ComposeContext{DefaultCollectionSlug: "cnc-machines"})

	if len(doc.Listings) != 0 {
		t.Fatalf("empty block should not surface as a listing, got %d", len(doc.Listings))
	}
	if !strings.Contains(doc.HTML, "No products found in Cnc Machines.") {
		t.Fatalf("missing empty state: %q", doc.HTML)
	}
	if !strings.HasPrefix(doc.HTML, "no directives here") {
		t.Fatalf("original prose altered: %q", doc.HTML)
	}
}

func TestComposeIndependentPageKeys(t *testing.T) {
	fake := &fakeCatalog{
		collections: map[string]*collections.Collection{
			"robots": storedCollection("robots", "Robots"),
			"saws":   storedCollection("saws", "Saws"),
		},
		pages: map[string][]collections.ItemSummary{
			"robots": summaries(5, "r"),
			"saws":   summaries(5, "s"),
		},
	}
	composer := newComposer(fake, listings.WithPageSize(2))

	requested := map[string]int{"page": 2, "page2": 1}
	doc := composer.Compose(context.Background(),
		"<!-- product listing robots -->\n<!-- product listing saws -->",
		listings.ComposeContext{PageFor: func(key string) int { return requested[key] }})

	if len(doc.Listings) != 2 {
		t.Fatalf("listings = %d", len(doc.Listings))
	}
	if doc.Listings[0].Pagination.PageKey != "page" || doc.Listings[1].Pagination.PageKey != "page2" {
		t.Fatalf("page keys = %q, %q",
			doc.Listings[0].Pagination.PageKey, doc.Listings[1].Pagination.PageKey)
	}
	if doc.Listings[0].Pagination.CurrentPage != 2 {
		t.Fatalf("robots page = %d", doc.Listings[0].Pagination.CurrentPage)
	}
	if doc.Listings[1].Pagination.CurrentPage != 1 {
		t.Fatalf("saws page = %d", doc.Listings[1].Pagination.CurrentPage)
	}
	if fake.resolveCalls[0].req.Offset != 2 || fake.resolveCalls[1].req.Offset != 0 {
		t.Fatalf("offsets = %d, %d", fake.resolveCalls[0].req.Offset, fake.resolveCalls[1].req.Offset)
	}
}

func TestComposeClampsPagePastEnd(t *testing.T) {
	fake := &fakeCatalog{
		collections: map[string]*collections.Collection{
			"robots": storedCollection("robots", "Robots"),
		},
		pages: map[string][]collections.ItemSummary{
			"robots": summaries(3, "r"),
		},
	}
	composer := newComposer(fake, listings.WithPageSize(2))

	doc := composer.Compose(context.Background(),
		"<!-- product listing robots -->",
		listings.ComposeContext{PageFor: func(string) int { return 5 }})

	listing := doc.Listings[0]
	if listing.Pagination.CurrentPage != 2 {
		t.Fatalf("page = %d, want clamp to 2", listing.Pagination.CurrentPage)
	}
	if listing.Pagination.TotalPages != 2 {
		t.Fatalf("total pages = %d", listing.Pagination.TotalPages)
	}
	if len(listing.Items) != 1 {
		t.Fatalf("expected last page item, got %v", listing.Items)
	}
	// First probe at the stale offset, then the corrected query.
	if len(fake.resolveCalls) != 2 || fake.resolveCalls[1].req.Offset != 2 {
		t.Fatalf("resolve calls = %v", fake.resolveCalls)
	}
}

func TestComposeExplicitListPreservesOrder(t *testing.T) {
	fake := &fakeCatalog{
		items: map[string]collections.ItemSummary{
			"saw-y":   summary("saw-y", "Saw Y"),
			"drill-x": summary("drill-x", "Drill X"),
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		`<!-- product listing type=manual items="saw-y,drill-x" -->`,
		listings.ComposeContext{})

	listing := doc.Listings[0]
	if len(listing.Items) != 2 {
		t.Fatalf("items = %v", listing.Items)
	}
	if listing.Items[0].Slug != "saw-y" || listing.Items[1].Slug != "drill-x" {
		t.Fatalf("order = %q, %q", listing.Items[0].Slug, listing.Items[1].Slug)
	}
	if listing.Pagination != nil {
		t.Fatal("explicit lists do not paginate")
	}
}

func TestComposeExplicitEmptyState(t *testing.T) {
	fake := &fakeCatalog{}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		`<!-- product listing type=manual items="ghost" -->`,
		listings.ComposeContext{})

	if !strings.Contains(doc.HTML, "No products selected.") {
		t.Fatalf("missing explicit empty state: %q", doc.HTML)
	}
	if len(doc.Listings) != 0 {
		t.Fatalf("empty block should not surface as a listing, got %d", len(doc.Listings))
	}
}

func TestComposeRepeatedCollectionDirectiveQueriesOnce(t *testing.T) {
	fake := &fakeCatalog{
		collections: map[string]*collections.Collection{
			"robots": storedCollection("robots", "Robots"),
		},
		pages: map[string][]collections.ItemSummary{
			"robots": {summary("arm-a", "Arm A")},
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		"<!-- product listing robots -->\nmiddle\n<!-- product listing robots -->",
		listings.ComposeContext{})

	if len(fake.resolveCalls) != 1 {
		t.Fatalf("resolve calls = %d, want the duplicate served from the first block", len(fake.resolveCalls))
	}
	if len(doc.Listings) != 1 {
		t.Fatalf("listings = %d", len(doc.Listings))
	}
	if got := strings.Count(doc.HTML, `data-collection="robots"`); got != 2 {
		t.Fatalf("rendered blocks = %d, want 2", got)
	}
	if strings.Contains(doc.HTML, "listing-slot") {
		t.Fatalf("marker survived: %q", doc.HTML)
	}
}

func TestComposeRepeatedExplicitListQueriesOnce(t *testing.T) {
	fake := &fakeCatalog{
		items: map[string]collections.ItemSummary{
			"drill-x": summary("drill-x", "Drill X"),
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		`<!-- product listing type=manual items="drill-x" -->`+"\n"+
			`<!-- product listing type=manual items="drill-x" -->`,
		listings.ComposeContext{})

	if fake.findCalls != 1 {
		t.Fatalf("lookup calls = %d, want the duplicate served from the first block", fake.findCalls)
	}
	if len(doc.Listings) != 1 {
		t.Fatalf("listings = %d", len(doc.Listings))
	}
	if got := strings.Count(doc.HTML, "Drill X"); got != 2 {
		t.Fatalf("rendered blocks mentioning the item = %d, want 2", got)
	}
}

func TestComposeExplicitLookupFailureDegrades(t *testing.T) {
	fake := &fakeCatalog{findErr: errors.New("store down")}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		`<!-- product listing type=manual items="drill-x" -->`,
		listings.ComposeContext{})

	if !strings.Contains(doc.HTML, "No products selected.") {
		t.Fatalf("expected empty state on failure: %q", doc.HTML)
	}
}

func TestComposeAmbiguousDirectiveWithoutDefaultRendersNothing(t *testing.T) {
	fake := &fakeCatalog{}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		"text <!-- product listing widget=carousel --> more",
		listings.ComposeContext{})

	if len(doc.Listings) != 0 {
		t.Fatalf("listings = %d", len(doc.Listings))
	}
	if strings.Contains(doc.HTML, "listing-slot") {
		t.Fatalf("marker survived: %q", doc.HTML)
	}
	if doc.HTML != "text  more" {
		t.Fatalf("HTML = %q", doc.HTML)
	}
}

func TestComposeAmbiguousDirectiveUsesContextDefault(t *testing.T) {
	fake := &fakeCatalog{
		collections: map[string]*collections.Collection{
			"robots": storedCollection("robots", "Robots"),
		},
		pages: map[string][]collections.ItemSummary{
			"robots": {summary("arm-a", "Arm A")},
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		"<!-- product listing widget=carousel -->",
		listings.ComposeContext{DefaultCollectionSlug: "robots"})

	if len(doc.Listings) != 1 || doc.Listings[0].Slug != "robots" {
		t.Fatalf("listings = %+v", doc.Listings)
	}
}

func TestComposeFallbackExplicitList(t *testing.T) {
	fake := &fakeCatalog{
		items: map[string]collections.ItemSummary{
			"drill-x": summary("drill-x", "Drill X"),
		},
	}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(), "prose only",
		listings.ComposeContext{ExplicitItemSlugs: []string{"drill-x"}})

	if len(doc.Listings) != 1 || doc.Listings[0].Kind != "explicit_list" {
		t.Fatalf("listings = %+v", doc.Listings)
	}
	if !strings.Contains(doc.HTML, "Drill X") {
		t.Fatalf("missing fallback listing: %q", doc.HTML)
	}
}

func TestComposeCollectionLookupErrorDegradesToVirtual(t *testing.T) {
	fake := &fakeCatalog{getErr: errors.New("store down")}
	composer := newComposer(fake)

	doc := composer.Compose(context.Background(),
		"<!-- product listing robots -->",
		listings.ComposeContext{})

	if len(doc.Listings) != 0 {
		t.Fatalf("empty block should not surface as a listing, got %d", len(doc.Listings))
	}
	if !strings.Contains(doc.HTML, "No products found in") {
		t.Fatalf("expected empty state, got %q", doc.HTML)
	}
}
