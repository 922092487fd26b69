package listings

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// HrefBuilder resolves listing links through a go-urlkit route manager when
// one is configured, falling back to conventional catalog paths otherwise.
type HrefBuilder struct {
	manager         *urlkit.RouteManager
	group           string
	collectionRoute string
	itemRoute       string
	slugParam       string
}

// HrefBuilderOptions configures the urlkit backed link resolver.
type HrefBuilderOptions struct {
	Manager         *urlkit.RouteManager
	Group           string
	CollectionRoute string
	ItemRoute       string
	SlugParam       string
}

// NewHrefBuilder constructs a link resolver. A nil manager keeps the
// conventional fallback paths.
func NewHrefBuilder(opts HrefBuilderOptions) *HrefBuilder {
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	if opts.CollectionRoute == "" {
		opts.CollectionRoute = "collection"
	}
	if opts.ItemRoute == "" {
		opts.ItemRoute = "item"
	}
	return &HrefBuilder{
		manager:         opts.Manager,
		group:           strings.TrimSpace(opts.Group),
		collectionRoute: opts.CollectionRoute,
		itemRoute:       opts.ItemRoute,
		slugParam:       opts.SlugParam,
	}
}

// CollectionURL resolves the view-all link for a collection slug.
func (h *HrefBuilder) CollectionURL(slug string) string {
	if url := h.resolve(h.collectionRoute, slug); url != "" {
		return url
	}
	return "/collections/" + slug
}

// ItemURL resolves the detail link for an item slug.
func (h *HrefBuilder) ItemURL(slug string) string {
	if url := h.resolve(h.itemRoute, slug); url != "" {
		return url
	}
	return "/products/" + slug
}

func (h *HrefBuilder) resolve(route, slug string) string {
	if h == nil || h.manager == nil || h.group == "" {
		return ""
	}
	group, err := lookupGroup(h.manager, h.group)
	if err != nil || group == nil {
		return ""
	}
	builder, err := safeBuilder(group, route)
	if err != nil || builder == nil {
		return ""
	}
	builder.WithParam(h.slugParam, slug)
	url, err := builder.Build()
	if err != nil {
		return ""
	}
	return url
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("listings: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("listings: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
