package catalog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog/collections"
)

// Config captures the runtime behaviour toggles for the catalog module.
type Config struct {
	Logging   LoggingConfig
	Cache     CacheConfig
	Schema    SchemaConfig
	Listings  ListingsConfig
	Generator GeneratorConfig
}

// LoggingConfig selects the go-logger backed provider settings used when the
// host does not supply its own provider.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// CacheConfig sets the lifetime of the ephemeral in-process caches. Disabled
// turns every layer off.
type CacheConfig struct {
	Enabled     bool
	ItemTTL     time.Duration
	DocumentTTL time.Duration
}

// SchemaConfig names the table whose membership columns get introspected.
type SchemaConfig struct {
	ItemsTable string
}

// ListingsConfig tunes listing composition and link resolution.
type ListingsConfig struct {
	PageSize        int
	RouteGroup      string
	CollectionRoute string
	ItemRoute       string
}

// GeneratorConfig tunes the derived catalog index.
type GeneratorConfig struct {
	Enabled     bool
	Kind        string
	PreviewSize int
}

// DefaultConfig returns the configuration a typical host starts from.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			Enabled:     true,
			ItemTTL:     time.Minute,
			DocumentTTL: 5 * time.Minute,
		},
		Schema: SchemaConfig{
			ItemsTable: "items",
		},
		Listings: ListingsConfig{
			PageSize: 12,
		},
		Generator: GeneratorConfig{
			Enabled:     true,
			Kind:        collections.KindItems,
			PreviewSize: 4,
		},
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	errs := validation.Errors{}

	if c.Listings.PageSize < 0 {
		errs["listings.page_size"] = validation.NewError(
			"validation_page_size", "page size must not be negative")
	}
	if c.Cache.ItemTTL < 0 {
		errs["cache.item_ttl"] = validation.NewError(
			"validation_item_ttl", "item TTL must not be negative")
	}
	if c.Cache.DocumentTTL < 0 {
		errs["cache.document_ttl"] = validation.NewError(
			"validation_document_ttl", "document TTL must not be negative")
	}
	if c.Generator.PreviewSize < 0 {
		errs["generator.preview_size"] = validation.NewError(
			"validation_preview_size", "preview size must not be negative")
	}
	if !validLogLevel(c.Logging.Level) {
		errs["logging.level"] = validation.NewError(
			"validation_logging_level", "unknown logging level")
	}

	return errs.Filter()
}

func validLogLevel(level string) bool {
	switch level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}
