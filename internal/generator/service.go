package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/collections"
	"github.com/goliatone/go-catalog/internal/caching"
	catalogcollections "github.com/goliatone/go-catalog/internal/collections"
	"github.com/goliatone/go-catalog/internal/listings"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// ErrServiceDisabled indicates the derived document feature is disabled.
var ErrServiceDisabled = errors.New("generator: service disabled")

const indexCacheKey = "catalog:index"

// Service builds derived catalog documents.
type Service interface {
	CatalogIndex(ctx context.Context) (*CatalogIndex, error)
	Invalidate(ctx context.Context)
}

// CatalogIndex is the derived overview of every collection of catalog items,
// with a short item preview per collection.
type CatalogIndex struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Collections []CollectionEntry `json:"collections"`
}

// CollectionEntry is one collection row of the catalog index.
type CollectionEntry struct {
	ID              uuid.UUID                 `json:"id"`
	Slug            string                    `json:"slug"`
	Name            string                    `json:"name"`
	DescriptionHTML string                    `json:"description_html,omitempty"`
	HeroImageURL    *string                   `json:"hero_image_url,omitempty"`
	ItemTotal       int                       `json:"item_total"`
	Preview         []collections.ItemSummary `json:"preview"`
	Href            string                    `json:"href"`
}

// CollectionLister lists stored collections of a kind.
type CollectionLister interface {
	ListByKind(ctx context.Context, kind string) ([]*collections.Collection, error)
}

// ItemResolver resolves one page of a collection's items.
type ItemResolver interface {
	ResolveItems(ctx context.Context, col *collections.Collection, req catalogcollections.PageRequest) catalogcollections.ItemPage
}

// Config captures runtime behaviour toggles for derived documents.
type Config struct {
	Kind        string
	PreviewSize int
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Collections CollectionLister
	Resolver    ItemResolver
	Hrefs       *listings.HrefBuilder
	Cache       *caching.Memory
	Logger      interfaces.Logger
}

// NewService wires a derived document generator.
func NewService(cfg Config, deps Dependencies) Service {
	if cfg.Kind == "" {
		cfg.Kind = collections.KindItems
	}
	if cfg.PreviewSize <= 0 {
		cfg.PreviewSize = 4
	}
	if deps.Hrefs == nil {
		deps.Hrefs = listings.NewHrefBuilder(listings.HrefBuilderOptions{})
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	return &service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

// CatalogIndex returns the derived catalog overview, serving the cached copy
// while it is fresh.
func (s *service) CatalogIndex(ctx context.Context) (*CatalogIndex, error) {
	if s.deps.Cache != nil {
		if value, outcome := s.deps.Cache.Lookup(indexCacheKey); outcome == caching.OutcomeHit {
			if index, ok := value.(*CatalogIndex); ok {
				return index, nil
			}
		}
	}

	index, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.deps.Cache != nil {
		_ = s.deps.Cache.Set(ctx, indexCacheKey, index, 0)
	}
	return index, nil
}

// Invalidate drops the cached index so the next read rebuilds it.
func (s *service) Invalidate(ctx context.Context) {
	if s.deps.Cache != nil {
		_ = s.deps.Cache.Delete(ctx, indexCacheKey)
	}
}

func (s *service) build(ctx context.Context) (*CatalogIndex, error) {
	cols, err := s.deps.Collections.ListByKind(ctx, s.cfg.Kind)
	if err != nil {
		return nil, fmt.Errorf("generator: list collections: %w", err)
	}

	index := &CatalogIndex{
		GeneratedAt: s.now().UTC(),
		Collections: make([]CollectionEntry, 0, len(cols)),
	}

	for _, col := range cols {
		entry := CollectionEntry{
			ID:           col.ID,
			Slug:         col.Slug,
			Name:         col.Name,
			HeroImageURL: col.HeroImageURL,
			Href:         s.deps.Hrefs.CollectionURL(col.Slug),
		}
		if col.ShortDescription != nil {
			entry.DescriptionHTML = renderDescriptionHTML(*col.ShortDescription)
		}

		page := s.deps.Resolver.ResolveItems(ctx, col, catalogcollections.PageRequest{Limit: s.cfg.PreviewSize})
		entry.ItemTotal = page.Total
		entry.Preview = page.Items

		index.Collections = append(index.Collections, entry)
	}

	s.deps.Logger.Debug("catalog index built", "collections", len(index.Collections))
	return index, nil
}

type disabledService struct{}

func (disabledService) CatalogIndex(context.Context) (*CatalogIndex, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Invalidate(context.Context) {}
