package collections

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"
)

// BunCollectionRepository is the bun-backed collection lookup collaborator.
type BunCollectionRepository struct {
	db   *bun.DB
	repo repository.Repository[*Collection]
}

func NewBunCollectionRepository(db *bun.DB) *BunCollectionRepository {
	return NewBunCollectionRepositoryWithCache(db, nil, nil)
}

// NewBunCollectionRepositoryWithCache constructs a collection repository with
// optional read-through caching.
func NewBunCollectionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunCollectionRepository {
	base := NewCollectionRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunCollectionRepository{db: db, repo: wrapped}
}

func (r *BunCollectionRepository) GetBySlug(ctx context.Context, slug string) (*Collection, error) {
	result, err := r.repo.GetByIdentifier(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, mapRepositoryError(err, "collection", slug)
	}
	return result, nil
}

func (r *BunCollectionRepository) ListByKind(ctx context.Context, kind string) ([]*Collection, error) {
	var records []*Collection
	err := r.db.NewSelect().
		Model(&records).
		Where("col.kind = ?", strings.TrimSpace(kind)).
		Where("col.deleted_at IS NULL").
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("collection repository error: %w", err)
	}
	return records, nil
}

// itemSummaryColumns lists the item columns every installation carries. The
// legacy membership columns are deliberately absent; installations differ in
// which of them exist, so they are only referenced inside detected predicates.
var itemSummaryColumns = []string{
	"id", "slug", "title", "short_summary", "price", "images",
	"published", "deleted_at", "created_at", "updated_at",
}

// BunItemRepository is the bun-backed item lookup collaborator.
type BunItemRepository struct {
	db   *bun.DB
	repo repository.Repository[*Item]
}

func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return NewBunItemRepositoryWithCache(db, nil, nil)
}

// NewBunItemRepositoryWithCache constructs an item repository with optional
// read-through caching.
func NewBunItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunItemRepository {
	base := NewItemRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunItemRepository{db: db, repo: wrapped}
}

func (r *BunItemRepository) GetBySlug(ctx context.Context, slug string) (*Item, error) {
	result, err := r.repo.GetByIdentifier(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, mapRepositoryError(err, "item", slug)
	}
	return result, nil
}

// FindBySlugs returns published items matching the given slugs. Order is not
// guaranteed; callers re-order against their input.
func (r *BunItemRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*Item, error) {
	normalized := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if trimmed := strings.TrimSpace(slug); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	var records []*Item
	err := r.db.NewSelect().
		Model(&records).
		Column(itemSummaryColumns...).
		Where("i.slug IN (?)", bun.In(normalized)).
		Where("i.published = ?", true).
		Where("i.deleted_at IS NULL").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("item repository error: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
