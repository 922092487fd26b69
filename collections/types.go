package collections

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Collection kinds. Identity of a collection is (kind, slug).
const (
	KindItems    = "items"
	KindArticles = "articles"
)

// Collection groups catalog items or articles under a stable slug.
type Collection struct {
	bun.BaseModel `bun:"table:collections,alias:col"`

	ID               uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Kind             string     `bun:"kind,notnull" json:"kind"`
	Slug             string     `bun:"slug,notnull" json:"slug"`
	Name             string     `bun:"name,notnull" json:"name"`
	ShortDescription *string    `bun:"short_description" json:"short_description,omitempty"`
	HeroImageURL     *string    `bun:"hero_image_url" json:"hero_image_url,omitempty"`
	DeletedAt        *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Item is the canonical catalog product record. The three legacy membership
// columns coexist because historical migrations left different rows populated
// through different representations; the schema introspector decides which of
// them exist on a given installation.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID           uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	Slug         string          `bun:"slug,notnull" json:"slug"`
	Title        string          `bun:"title,notnull" json:"title"`
	ShortSummary *string         `bun:"short_summary" json:"short_summary,omitempty"`
	Price        *string         `bun:"price" json:"price,omitempty"`
	Images       json.RawMessage `bun:"images,type:jsonb" json:"images,omitempty"`
	Published    bool            `bun:"published,notnull,default:false" json:"published"`
	Category     *string         `bun:"category" json:"category,omitempty"`
	Categories   json.RawMessage `bun:"categories,type:jsonb" json:"categories,omitempty"`
	CategoryList *string         `bun:"category_list" json:"category_list,omitempty"`
	DeletedAt    *time.Time      `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// CollectionItem is the first-class membership link. Installations migrated to
// it use this table as the primary membership path; older rows fall back to
// the legacy columns on Item.
type CollectionItem struct {
	bun.BaseModel `bun:"table:collection_items,alias:ci"`

	CollectionID uuid.UUID `bun:"collection_id,pk,type:uuid" json:"collection_id"`
	ItemID       uuid.UUID `bun:"item_id,pk,type:uuid" json:"item_id"`
	Position     int       `bun:"position,notnull,default:0" json:"position"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// ItemSummary is the display projection handed to listing consumers.
type ItemSummary struct {
	ID              uuid.UUID  `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	ShortSummary    *string    `json:"short_summary,omitempty"`
	Price           *string    `json:"price,omitempty"`
	PrimaryImageURL *string    `json:"primary_image_url,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Summary projects the item into its display form, deriving the primary image
// from whichever shape the images field was written in.
func (i *Item) Summary() ItemSummary {
	summary := ItemSummary{
		ID:           i.ID,
		Slug:         i.Slug,
		Title:        i.Title,
		ShortSummary: i.ShortSummary,
		Price:        i.Price,
	}
	if !i.UpdatedAt.IsZero() {
		updated := i.UpdatedAt
		summary.UpdatedAt = &updated
	}
	if url := PrimaryImageURL(i.Images); url != "" {
		summary.PrimaryImageURL = &url
	}
	return summary
}

// PrimaryImageURL extracts the first URL-like string from an images payload.
// The field may hold a JSON array of strings, a JSON array of objects keyed by
// url/src/path, or be absent entirely.
func PrimaryImageURL(images json.RawMessage) string {
	if len(images) == 0 {
		return ""
	}

	var asStrings []string
	if err := json.Unmarshal(images, &asStrings); err == nil {
		for _, candidate := range asStrings {
			if looksLikeImageURL(candidate) {
				return strings.TrimSpace(candidate)
			}
		}
		return ""
	}

	var asObjects []map[string]any
	if err := json.Unmarshal(images, &asObjects); err == nil {
		for _, entry := range asObjects {
			for _, key := range []string{"url", "src", "path"} {
				if raw, ok := entry[key]; ok {
					if candidate, ok := raw.(string); ok && looksLikeImageURL(candidate) {
						return strings.TrimSpace(candidate)
					}
				}
			}
		}
	}
	return ""
}

func looksLikeImageURL(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	return strings.HasPrefix(trimmed, "http://") ||
		strings.HasPrefix(trimmed, "https://") ||
		strings.HasPrefix(trimmed, "/")
}
