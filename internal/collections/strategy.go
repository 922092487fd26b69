package collections

import "context"

// itemStrategy is one membership path the resolver can try. Strategies are
// evaluated in a fixed order; a non-final strategy escalates to the next one
// when it fails or yields nothing, while a final strategy's outcome stands
// even when empty, so an applicable-but-empty representation is reported as a
// real zero-item collection instead of being masked by an unrelated column.
type itemStrategy struct {
	name  string
	final bool
	fetch func(ctx context.Context) (ItemPage, error)
}

// resolveFirst runs the escalation policy: first strategy with a
// non-trivially-empty result wins. Query failures are logged and degrade to
// an empty page; nothing here is fatal to the enclosing render.
func (s *service) resolveFirst(ctx context.Context, collectionSlug string, strategies []itemStrategy) ItemPage {
	for _, strat := range strategies {
		page, err := strat.fetch(ctx)
		if err != nil {
			s.logger.Error("collection item query failed",
				"strategy", strat.name,
				"collection_slug", collectionSlug,
				"error", err,
			)
			if strat.final {
				return ItemPage{}
			}
			continue
		}
		if strat.final || page.Total > 0 || len(page.Items) > 0 {
			return page
		}
	}
	return ItemPage{}
}
