package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const (
	rootModule        = "catalog"
	schemaModule      = "catalog.schema"
	collectionsModule = "catalog.collections"
	directivesModule  = "catalog.directives"
	listingsModule    = "catalog.listings"
	generatorModule   = "catalog.generator"
)

const (
	fieldCollectionSlug = "collection_slug"
	fieldColumn         = "column"
	fieldCorrelationID  = "correlation_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// SchemaLogger returns the logger namespace reserved for schema introspection.
func SchemaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schemaModule)
}

// CollectionsLogger returns the logger namespace reserved for collection resolution.
func CollectionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, collectionsModule)
}

// DirectivesLogger returns the logger namespace reserved for directive parsing.
func DirectivesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, directivesModule)
}

// ListingsLogger returns the logger namespace reserved for listing composition.
func ListingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, listingsModule)
}

// GeneratorLogger returns the logger namespace reserved for derived documents.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// WithResolutionContext enriches the provided logger with the fields shared by
// collection resolution entries. Empty values are ignored.
func WithResolutionContext(logger interfaces.Logger, collectionSlug, column, correlationID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(collectionSlug); trimmed != "" {
		fields[fieldCollectionSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(column); trimmed != "" {
		fields[fieldColumn] = trimmed
	}
	if trimmed := strings.TrimSpace(correlationID); trimmed != "" {
		fields[fieldCorrelationID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
