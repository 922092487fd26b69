package catalog

import (
	"context"
	"errors"

	"github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog/internal/adapters/noop"
	"github.com/goliatone/go-catalog/internal/articles"
	"github.com/goliatone/go-catalog/internal/caching"
	collectionssvc "github.com/goliatone/go-catalog/internal/collections"
	"github.com/goliatone/go-catalog/internal/directives"
	"github.com/goliatone/go-catalog/internal/generator"
	"github.com/goliatone/go-catalog/internal/listings"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/logging/gologger"
	"github.com/goliatone/go-catalog/internal/schema"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// ErrDatabaseRequired indicates the module was constructed without a store handle.
var ErrDatabaseRequired = errors.New("catalog: bun database handle is required")

// CollectionService exports the collection resolution contract.
type CollectionService = collectionssvc.Service

// PageRequest exports the item page selector.
type PageRequest = collectionssvc.PageRequest

// ItemPage exports one resolved page of items.
type ItemPage = collectionssvc.ItemPage

// GeneratorService exports the derived document contract.
type GeneratorService = generator.Service

// CatalogIndex exports the derived catalog overview document.
type CatalogIndex = generator.CatalogIndex

// Document exports the composed article result.
type Document = listings.Document

// Listing exports one composed listing block.
type Listing = listings.Listing

// ComposeContext exports the per-request composition inputs.
type ComposeContext = listings.ComposeContext

// ArticleSource exports a parsed article document.
type ArticleSource = articles.Source

// ArticleMeta exports the article frontmatter block.
type ArticleMeta = articles.SourceMeta

// Dependencies lists the collaborators a host hands to the module. Only DB is
// required; everything else has a working default.
type Dependencies struct {
	DB            *bun.DB
	Logger        interfaces.LoggerProvider
	Routes        *urlkit.RouteManager
	CacheService  cache.CacheService
	KeySerializer cache.KeySerializer
}

// Module is the top level catalog runtime facade.
type Module struct {
	cfg          Config
	provider     interfaces.LoggerProvider
	introspector *schema.Introspector
	collections  CollectionService
	composer     *listings.Composer
	generator    GeneratorService
	cache        interfaces.CacheProvider
}

// New constructs a catalog module from configuration and host collaborators.
func New(cfg Config, deps Dependencies) (*Module, error) {
	if deps.DB == nil {
		return nil, ErrDatabaseRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider := deps.Logger
	if provider == nil {
		built, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		provider = built
	}

	introspector := schema.NewIntrospector(deps.DB, cfg.Schema.ItemsTable, logging.SchemaLogger(provider))

	collectionRepo := collectionssvc.NewBunCollectionRepositoryWithCache(deps.DB, deps.CacheService, deps.KeySerializer)
	itemRepo := collectionssvc.NewBunItemRepositoryWithCache(deps.DB, deps.CacheService, deps.KeySerializer)

	runtimeCache := noop.Cache()
	serviceOpts := []collectionssvc.ServiceOption{
		collectionssvc.WithLogger(logging.CollectionsLogger(provider)),
	}
	if cfg.Cache.Enabled {
		itemCache := caching.NewMemory(cfg.Cache.ItemTTL)
		runtimeCache = itemCache
		serviceOpts = append(serviceOpts, collectionssvc.WithItemCache(itemCache))
	}
	service := collectionssvc.NewService(deps.DB, collectionRepo, itemRepo, introspector, serviceOpts...)

	hrefs := listings.NewHrefBuilder(listings.HrefBuilderOptions{
		Manager:         deps.Routes,
		Group:           cfg.Listings.RouteGroup,
		CollectionRoute: cfg.Listings.CollectionRoute,
		ItemRoute:       cfg.Listings.ItemRoute,
	})

	composer := listings.NewComposer(service, service, service,
		listings.WithLogger(logging.ListingsLogger(provider)),
		listings.WithParser(directives.NewParser(
			directives.WithLogger(logging.DirectivesLogger(provider)))),
		listings.WithHrefBuilder(hrefs),
		listings.WithPageSize(cfg.Listings.PageSize),
	)

	documents := generator.NewDisabledService()
	if cfg.Generator.Enabled {
		var documentCache *caching.Memory
		if cfg.Cache.Enabled {
			documentCache = caching.NewMemory(cfg.Cache.DocumentTTL)
		}
		documents = generator.NewService(
			generator.Config{
				Kind:        cfg.Generator.Kind,
				PreviewSize: cfg.Generator.PreviewSize,
			},
			generator.Dependencies{
				Collections: service,
				Resolver:    service,
				Hrefs:       hrefs,
				Cache:       documentCache,
				Logger:      logging.GeneratorLogger(provider),
			},
		)
	}

	return &Module{
		cfg:          cfg,
		provider:     provider,
		introspector: introspector,
		collections:  service,
		composer:     composer,
		generator:    documents,
		cache:        runtimeCache,
	}, nil
}

// Collections returns the configured collection resolution service.
func (m *Module) Collections() CollectionService {
	return m.collections
}

// Generator returns the configured derived document service.
func (m *Module) Generator() GeneratorService {
	return m.generator
}

// Cache returns the module's runtime cache. When caching is disabled it is a
// no-op provider, so hosts can store through it unconditionally.
func (m *Module) Cache() interfaces.CacheProvider {
	return m.cache
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}

// Compose resolves every listing directive in article content and returns the
// composed document.
func (m *Module) Compose(ctx context.Context, content string, cc ComposeContext) Document {
	return m.composer.Compose(ctx, content, cc)
}

// ParseArticle splits a raw article document into frontmatter and body.
func ParseArticle(raw string) (ArticleSource, error) {
	return articles.ParseSourceString(raw)
}

// ComposeArticle parses a raw article document and composes its body, seeding
// defaults from the frontmatter. PageFor may be nil when the reader did not
// paginate.
func (m *Module) ComposeArticle(ctx context.Context, raw string, pageFor func(string) int) (Document, ArticleMeta, error) {
	source, err := ParseArticle(raw)
	if err != nil {
		return Document{}, ArticleMeta{}, err
	}
	doc := m.composer.Compose(ctx, source.Body, ComposeContext{
		DefaultCollectionSlug: source.Meta.DefaultCollectionSlug(),
		ExplicitItemSlugs:     source.Meta.ExplicitItemSlugs(),
		PageFor:               pageFor,
	})
	return doc, source.Meta, nil
}
