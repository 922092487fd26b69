package collections

import catalogcollections "github.com/goliatone/go-catalog/collections"

type (
	Collection     = catalogcollections.Collection
	Item           = catalogcollections.Item
	CollectionItem = catalogcollections.CollectionItem
	ItemSummary    = catalogcollections.ItemSummary
)

const (
	KindItems    = catalogcollections.KindItems
	KindArticles = catalogcollections.KindArticles
)
