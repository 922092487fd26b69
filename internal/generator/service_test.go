package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/collections"
	"github.com/goliatone/go-catalog/internal/caching"
	catalogcollections "github.com/goliatone/go-catalog/internal/collections"
)

type fakeSource struct {
	cols    []*collections.Collection
	pages   map[string][]collections.ItemSummary
	listErr error

	listCalls int
}

func (f *fakeSource) ListByKind(_ context.Context, kind string) ([]*collections.Collection, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.cols, nil
}

func (f *fakeSource) ResolveItems(_ context.Context, col *collections.Collection, req catalogcollections.PageRequest) catalogcollections.ItemPage {
	all := f.pages[col.Slug]
	end := req.Limit
	if end > len(all) {
		end = len(all)
	}
	return catalogcollections.ItemPage{Items: all[:end], Total: len(all)}
}

func description(text string) *string {
	return &text
}

func TestCatalogIndexBuildsEntries(t *testing.T) {
	source := &fakeSource{
		cols: []*collections.Collection{
			{
				ID:               uuid.New(),
				Kind:             collections.KindItems,
				Slug:             "robots",
				Name:             "Industrial Robots",
				ShortDescription: description("**Heavy** machinery."),
			},
		},
		pages: map[string][]collections.ItemSummary{
			"robots": {
				{ID: uuid.New(), Slug: "arm-a", Title: "Arm A"},
				{ID: uuid.New(), Slug: "arm-b", Title: "Arm B"},
				{ID: uuid.New(), Slug: "arm-c", Title: "Arm C"},
			},
		},
	}
	svc := NewService(Config{PreviewSize: 2}, Dependencies{Collections: source, Resolver: source})

	index, err := svc.CatalogIndex(context.Background())
	if err != nil {
		t.Fatalf("CatalogIndex: %v", err)
	}
	if len(index.Collections) != 1 {
		t.Fatalf("collections = %d", len(index.Collections))
	}
	entry := index.Collections[0]
	if entry.ItemTotal != 3 {
		t.Fatalf("item total = %d", entry.ItemTotal)
	}
	if len(entry.Preview) != 2 {
		t.Fatalf("preview = %v", entry.Preview)
	}
	if !strings.Contains(entry.DescriptionHTML, "<strong>Heavy</strong>") {
		t.Fatalf("description = %q", entry.DescriptionHTML)
	}
	if entry.Href != "/collections/robots" {
		t.Fatalf("href = %q", entry.Href)
	}
}

func TestCatalogIndexServedFromCacheUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{
		cols: []*collections.Collection{
			{ID: uuid.New(), Kind: collections.KindItems, Slug: "robots", Name: "Robots"},
		},
	}
	svc := NewService(Config{}, Dependencies{
		Collections: source,
		Resolver:    source,
		Cache:       caching.NewMemory(time.Minute),
	})

	if _, err := svc.CatalogIndex(ctx); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := svc.CatalogIndex(ctx); err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if source.listCalls != 1 {
		t.Fatalf("expected single build, got %d", source.listCalls)
	}

	svc.Invalidate(ctx)
	if _, err := svc.CatalogIndex(ctx); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if source.listCalls != 2 {
		t.Fatalf("expected rebuild after invalidation, got %d calls", source.listCalls)
	}
}

func TestCatalogIndexPropagatesListFailure(t *testing.T) {
	source := &fakeSource{listErr: errors.New("store down")}
	svc := NewService(Config{}, Dependencies{Collections: source, Resolver: source})

	if _, err := svc.CatalogIndex(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabledService()
	if _, err := svc.CatalogIndex(context.Background()); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}
