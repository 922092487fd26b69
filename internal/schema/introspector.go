package schema

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-catalog/pkg/interfaces"
	"github.com/uptrace/bun"
)

// Kind tags one of the historical membership representations found on the
// items table.
type Kind string

const (
	// KindScalar is a single free-text column holding one collection name.
	KindScalar Kind = "scalar"
	// KindJSONArray is a JSON column holding an array of collection names.
	KindJSONArray Kind = "json_array"
	// KindCSV is a text column holding comma separated collection names.
	KindCSV Kind = "csv"
)

// Representation identifies a membership column and how its values are
// encoded.
type Representation struct {
	Kind   Kind
	Column string
}

// candidateRepresentations is the fixed probe order. The column names are a
// closed set; they are interpolated into probe SQL and must never come from
// user input.
var candidateRepresentations = []Representation{
	{Kind: KindScalar, Column: "category"},
	{Kind: KindJSONArray, Column: "categories"},
	{Kind: KindCSV, Column: "category_list"},
}

// Introspector probes the items table once per process lifetime and caches
// which membership representations exist. Detection failures are never fatal:
// a column whose probe errors is simply absent from the result, degrading
// matching for that representation to zero rows.
type Introspector struct {
	db     bun.IDB
	table  string
	logger interfaces.Logger

	mu       sync.Mutex
	detected []Representation
	done     bool
}

// NewIntrospector builds an introspector over the given store handle.
func NewIntrospector(db bun.IDB, table string, logger interfaces.Logger) *Introspector {
	if table == "" {
		table = "items"
	}
	return &Introspector{db: db, table: table, logger: logger}
}

// Detect returns the membership representations present on the items table.
// The first successful call memoizes its result; later calls return the
// cached set without touching the store.
func (in *Introspector) Detect(ctx context.Context) []Representation {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.done {
		return cloneRepresentations(in.detected)
	}

	detected := make([]Representation, 0, len(candidateRepresentations))
	for _, candidate := range candidateRepresentations {
		if err := in.probe(ctx, candidate.Column); err != nil {
			if in.logger != nil {
				in.logger.Warn("membership column probe failed",
					"table", in.table,
					"column", candidate.Column,
					"error", err,
				)
			}
			continue
		}
		detected = append(detected, candidate)
	}

	in.detected = detected
	in.done = true
	return cloneRepresentations(detected)
}

// Reset clears the memoized detection so the next Detect probes again. It
// exists for test isolation; production callers never need it.
func (in *Introspector) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.detected = nil
	in.done = false
}

func (in *Introspector) probe(ctx context.Context, column string) error {
	probe := fmt.Sprintf("SELECT %s FROM %s LIMIT 1", column, in.table)
	rows, err := in.db.QueryContext(ctx, probe)
	if err != nil {
		return err
	}
	defer rows.Close()
	return rows.Err()
}

func cloneRepresentations(reps []Representation) []Representation {
	if len(reps) == 0 {
		return nil
	}
	out := make([]Representation, len(reps))
	copy(out, reps)
	return out
}
