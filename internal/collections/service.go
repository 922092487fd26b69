package collections

import (
	"context"
	"strings"

	"github.com/goliatone/go-catalog/internal/caching"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/match"
	"github.com/goliatone/go-catalog/internal/schema"
	"github.com/goliatone/go-catalog/internal/variants"
	"github.com/goliatone/go-catalog/pkg/interfaces"
	"github.com/uptrace/bun"
)

// DefaultPageSize bounds item pages when the caller supplies no limit.
const DefaultPageSize = 12

// PageRequest selects one page of a collection's items. The resolver performs
// no page auto-correction; callers compensate when the offset runs past the
// total (see the listing composer).
type PageRequest struct {
	Limit  int
	Offset int
}

// ItemPage is one page of resolved items plus the predicate-wide total.
type ItemPage struct {
	Items []ItemSummary
	Total int
}

// Service exposes collection lookup and item resolution use-cases.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*Collection, error)
	ListByKind(ctx context.Context, kind string) ([]*Collection, error)
	FindItemsBySlugs(ctx context.Context, slugs []string) ([]ItemSummary, error)
	ResolveItems(ctx context.Context, col *Collection, req PageRequest) ItemPage
}

type service struct {
	db           *bun.DB
	collections  *BunCollectionRepository
	items        *BunItemRepository
	introspector *schema.Introspector
	itemCache    *caching.Memory
	logger       interfaces.Logger
}

// ServiceOption customises the resolver service.
type ServiceOption func(*service)

// WithLogger wires the resolver's module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithItemCache enables the short-TTL item summary cache in front of batch
// slug lookups.
func WithItemCache(cache *caching.Memory) ServiceOption {
	return func(s *service) {
		s.itemCache = cache
	}
}

// NewService builds the collection product resolver.
func NewService(db *bun.DB, collectionRepo *BunCollectionRepository, itemRepo *BunItemRepository, introspector *schema.Introspector, opts ...ServiceOption) Service {
	svc := &service{
		db:           db,
		collections:  collectionRepo,
		items:        itemRepo,
		introspector: introspector,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Collection, error) {
	return s.collections.GetBySlug(ctx, slug)
}

func (s *service) ListByKind(ctx context.Context, kind string) ([]*Collection, error) {
	return s.collections.ListByKind(ctx, kind)
}

// FindItemsBySlugs resolves item summaries for the given slugs, preserving
// input order and silently dropping unknown or unpublished entries. Summaries
// are served through the ephemeral item cache when one is configured.
func (s *service) FindItemsBySlugs(ctx context.Context, slugs []string) ([]ItemSummary, error) {
	ordered := make([]string, 0, len(slugs))
	seen := map[string]struct{}{}
	for _, slug := range slugs {
		trimmed := strings.TrimSpace(slug)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		ordered = append(ordered, trimmed)
	}
	if len(ordered) == 0 {
		return nil, nil
	}

	found := make(map[string]ItemSummary, len(ordered))
	missing := make([]string, 0, len(ordered))
	for _, slug := range ordered {
		if s.itemCache != nil {
			if value, outcome := s.itemCache.Lookup(itemCacheKey(slug)); outcome == caching.OutcomeHit {
				if summary, ok := value.(ItemSummary); ok {
					found[slug] = summary
					continue
				}
			}
		}
		missing = append(missing, slug)
	}

	if len(missing) > 0 {
		records, err := s.items.FindBySlugs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			summary := record.Summary()
			found[record.Slug] = summary
			if s.itemCache != nil {
				_ = s.itemCache.Set(ctx, itemCacheKey(record.Slug), summary, 0)
			}
		}
	}

	out := make([]ItemSummary, 0, len(ordered))
	for _, slug := range ordered {
		if summary, ok := found[slug]; ok {
			out = append(out, summary)
		}
	}
	return out, nil
}

// ResolveItems returns one page of a collection's items plus the total count.
// The primary membership link is tried first; when it yields nothing the
// legacy representation predicate takes over as the final answer. Query
// failures degrade to an empty page, logged with the collection context.
func (s *service) ResolveItems(ctx context.Context, col *Collection, req PageRequest) ItemPage {
	if col == nil {
		return ItemPage{}
	}
	if req.Limit <= 0 {
		req.Limit = DefaultPageSize
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	strategies := []itemStrategy{
		{
			name: "primary_link",
			fetch: func(ctx context.Context) (ItemPage, error) {
				return s.fetchLinked(ctx, col, req)
			},
		},
		{
			name:  "legacy_columns",
			final: true,
			fetch: func(ctx context.Context) (ItemPage, error) {
				return s.fetchLegacy(ctx, col, req)
			},
		},
	}
	return s.resolveFirst(ctx, col.Slug, strategies)
}

func (s *service) fetchLinked(ctx context.Context, col *Collection, req PageRequest) (ItemPage, error) {
	var records []*Item
	total, err := s.db.NewSelect().
		Model(&records).
		Column(itemSummaryColumns...).
		Join("JOIN collection_items AS ci ON ci.item_id = i.id").
		Where("ci.collection_id = ?", col.ID).
		Where("i.published = ?", true).
		Where("i.deleted_at IS NULL").
		OrderExpr("ci.position ASC, i.title ASC").
		Limit(req.Limit).
		Offset(req.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return ItemPage{}, err
	}
	return toPage(records, total), nil
}

func (s *service) fetchLegacy(ctx context.Context, col *Collection, req PageRequest) (ItemPage, error) {
	reps := s.introspector.Detect(ctx)
	qualified := make([]schema.Representation, len(reps))
	for i, rep := range reps {
		qualified[i] = schema.Representation{Kind: rep.Kind, Column: "i." + rep.Column}
	}

	variantSet := variants.Build(col.Slug, col.Name)
	predicate := match.BuildPredicate(s.db.Dialect().Name().String(), qualified, variantSet)

	var records []*Item
	total, err := s.db.NewSelect().
		Model(&records).
		Column(itemSummaryColumns...).
		Where("i.published = ?", true).
		Where("i.deleted_at IS NULL").
		Where(predicate.Expr, predicate.Args...).
		OrderExpr("i.title ASC").
		Limit(req.Limit).
		Offset(req.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return ItemPage{}, err
	}
	return toPage(records, total), nil
}

func toPage(records []*Item, total int) ItemPage {
	page := ItemPage{Total: total}
	page.Items = make([]ItemSummary, 0, len(records))
	for _, record := range records {
		page.Items = append(page.Items, record.Summary())
	}
	return page
}

func itemCacheKey(slug string) string {
	return "item:" + slug
}
