package testsupport

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// LegacyItemColumns are the historical membership columns an installation may
// carry on its items table.
var LegacyItemColumns = []string{"category", "categories", "category_list"}

// NewCatalogDB opens an in-memory SQLite catalog with the full schema,
// including every legacy membership column.
func NewCatalogDB(t *testing.T) *bun.DB {
	t.Helper()
	return NewCatalogDBWithLegacyColumns(t, LegacyItemColumns...)
}

// NewCatalogDBWithLegacyColumns opens an in-memory SQLite catalog whose items
// table carries only the given legacy membership columns, mimicking an
// installation at a particular migration vintage.
func NewCatalogDBWithLegacyColumns(t *testing.T, legacy ...string) *bun.DB {
	t.Helper()

	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()
	for _, ddl := range catalogDDL(legacy) {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			t.Fatalf("create catalog schema: %v", err)
		}
	}
	return db
}

func catalogDDL(legacy []string) []string {
	var legacyCols strings.Builder
	for _, column := range legacy {
		fmt.Fprintf(&legacyCols, "\t%s TEXT,\n", column)
	}

	return []string{
		`DROP TABLE IF EXISTS collection_items`,
		`DROP TABLE IF EXISTS items`,
		`DROP TABLE IF EXISTS collections`,
		`CREATE TABLE collections (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	slug TEXT NOT NULL,
	name TEXT NOT NULL,
	short_description TEXT,
	hero_image_url TEXT,
	deleted_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (kind, slug)
)`,
		fmt.Sprintf(`CREATE TABLE items (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	short_summary TEXT,
	price TEXT,
	images TEXT,
	published INTEGER NOT NULL DEFAULT 0,
%s	deleted_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, legacyCols.String()),
		`CREATE TABLE collection_items (
	collection_id TEXT NOT NULL,
	item_id TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (collection_id, item_id)
)`,
	}
}
