package caching

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// Outcome distinguishes the three lookup results. Miss and expired behave
// identically for callers (both mean "resolve fresh") but stay observable.
type Outcome int

const (
	OutcomeMiss Outcome = iota
	OutcomeHit
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeExpired:
		return "expired"
	default:
		return "miss"
	}
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is a process-wide TTL cache holding immutable value snapshots.
// There is no eviction beyond expiry; key space is bounded by catalog size.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   func() time.Time
}

// MemoryOption customises a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source, used by tests to force expiry.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemory builds a cache whose entries live for defaultTTL unless Set
// supplies an explicit one.
func NewMemory(defaultTTL time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		ttl:     defaultTTL,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lookup returns the cached value and the precise outcome. Expired entries
// are removed lazily on access.
func (m *Memory) Lookup(key string) (any, Outcome) {
	m.mu.RLock()
	stored, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, OutcomeMiss
	}
	if m.clock().After(stored.expiresAt) {
		m.mu.Lock()
		if current, still := m.entries[key]; still && current.expiresAt.Equal(stored.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, OutcomeExpired
	}
	return stored.value, OutcomeHit
}

// Get satisfies interfaces.CacheProvider. Miss and expired both surface as a
// nil value with no error.
func (m *Memory) Get(_ context.Context, key string) (any, error) {
	value, outcome := m.Lookup(key)
	if outcome != OutcomeHit {
		return nil, nil
	}
	return value, nil
}

// Set stores a value snapshot, using the cache default when ttl is zero or
// negative. Last write wins.
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.ttl
	}
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.clock().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete removes a single entry.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Clear removes every entry.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

var _ interfaces.CacheProvider = (*Memory)(nil)
