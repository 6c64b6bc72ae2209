package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
)

// openTestDB connects to the database named by TEST_POSTGRES_DSN, skipping
// the test when it is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := openTestDB(t)
	store := New(db)
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	for _, col := range []catalog.Collection{catalog.Skins, catalog.Agents} {
		if err := store.Replace(ctx, col, nil); err != nil {
			t.Fatalf("clear %s: %v", col, err)
		}
	}
	return store
}

func TestReplaceAndListRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	price := 1850.00
	in := []catalog.Item{
		{ID: "awp_dragon_lore", Name: "AWP | Dragon Lore", Price: &price, Rarity: &catalog.Rarity{Name: "Covert", Color: "#eb4b4b"}},
		{ID: "ak47_asiimov", Name: "AK-47 | Asiimov"},
	}
	if err := store.Replace(ctx, catalog.Skins, in); err != nil {
		t.Fatalf("replace: %v", err)
	}

	out, err := store.List(ctx, catalog.Skins)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	if out[0].ID != "awp_dragon_lore" || out[1].ID != "ak47_asiimov" {
		t.Fatalf("order not preserved: %+v", out)
	}
	if out[0].Price == nil || *out[0].Price != 1850.00 {
		t.Fatalf("price lost in round trip: %+v", out[0])
	}
	if out[0].Rarity == nil || out[0].Rarity.Name != "Covert" {
		t.Fatalf("rarity lost in round trip: %+v", out[0])
	}
	if out[1].Price != nil {
		t.Fatalf("unpriced item gained a price: %+v", out[1])
	}
}

func TestReplaceOverwritesCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, catalog.Skins, []catalog.Item{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := store.Replace(ctx, catalog.Skins, []catalog.Item{{ID: "c", Name: "C"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	out, err := store.List(ctx, catalog.Skins)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c" {
		t.Fatalf("expected only replacement contents, got %+v", out)
	}
}

func TestCollectionsAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, catalog.Skins, []catalog.Item{{ID: "s", Name: "S"}}); err != nil {
		t.Fatalf("replace skins: %v", err)
	}
	if err := store.Replace(ctx, catalog.Agents, []catalog.Item{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}); err != nil {
		t.Fatalf("replace agents: %v", err)
	}

	skins, err := store.List(ctx, catalog.Skins)
	if err != nil {
		t.Fatalf("list skins: %v", err)
	}
	agents, err := store.List(ctx, catalog.Agents)
	if err != nil {
		t.Fatalf("list agents: %v", err)
	}
	if len(skins) != 1 || len(agents) != 2 {
		t.Fatalf("collections bled into each other: %d skins, %d agents", len(skins), len(agents))
	}
}
