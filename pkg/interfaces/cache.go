package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the process-wide key/value cache contract consumed by the
// catalog services. Entries are immutable value snapshots; implementations
// only need last-write-wins semantics on Set.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
