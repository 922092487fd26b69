package noop_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-catalog/internal/adapters/noop"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

func TestCacheImplementsInterface(t *testing.T) {
	var _ interfaces.CacheProvider = noop.Cache()
}

func TestCacheDropsValues(t *testing.T) {
	ctx := context.Background()
	cache := noop.Cache()

	if err := cache.Set(ctx, "key", "value", 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil value, got %v", value)
	}
}
