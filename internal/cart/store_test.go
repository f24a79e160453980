package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tienda3x1/storefront/pkg/config"
	"github.com/tienda3x1/storefront/pkg/kv"
	"github.com/tienda3x1/storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func newTestStore(t *testing.T, kvStore kv.Store) *Store {
	t.Helper()
	store, err := NewStore(kvStore, config.CartConfig{StorageKey: "tienda3x1_carrito"}, testLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

// brokenStore fails every operation, standing in for an unavailable backend.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("kv unavailable")
}
func (brokenStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("kv unavailable")
}
func (brokenStore) Del(context.Context, ...string) error { return errors.New("kv unavailable") }
func (brokenStore) Ping(context.Context) error           { return errors.New("kv unavailable") }
func (brokenStore) Close() error                         { return nil }

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())

	lines := []Line{
		{ProductID: 1, Title: "Red Shirt", Price: 10, Image: "img-1", Quantity: 2},
		{ProductID: 2, Title: "Blue Hat", Price: 5, Image: "img-2", Quantity: 3},
	}
	if err := store.Save(ctx, lines); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := store.Load(ctx)
	if len(loaded) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(loaded))
	}
	for i := range lines {
		if loaded[i] != lines[i] {
			t.Fatalf("round-trip mismatch at %d: %+v != %+v", i, loaded[i], lines[i])
		}
	}
}

func TestLoadMissingKeyReturnsEmpty(t *testing.T) {
	store := newTestStore(t, kv.NewMemory())
	if lines := store.Load(context.Background()); len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestLoadCorruptValueReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	memory := kv.NewMemory()
	if err := memory.Set(ctx, "tienda3x1_carrito", "{not json", 0); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	store := newTestStore(t, memory)
	if lines := store.Load(ctx); len(lines) != 0 {
		t.Fatalf("expected empty cart for corrupt payload, got %d lines", len(lines))
	}
}

func TestSaveOverwritesCorruptValue(t *testing.T) {
	ctx := context.Background()
	memory := kv.NewMemory()
	memory.Set(ctx, "tienda3x1_carrito", "%%%", 0)

	store := newTestStore(t, memory)
	if err := store.Save(ctx, []Line{{ProductID: 9, Title: "X", Price: 1, Quantity: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := store.Load(ctx)
	if len(loaded) != 1 || loaded[0].ProductID != 9 {
		t.Fatalf("expected clean single-line cart, got %+v", loaded)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	store := newTestStore(t, brokenStore{})
	if err := store.Save(context.Background(), []Line{{ProductID: 1, Quantity: 1}}); err == nil {
		t.Fatal("expected error from unavailable backend")
	}
}

func TestLoadFailureFallsBackToEmpty(t *testing.T) {
	store := newTestStore(t, brokenStore{})
	if lines := store.Load(context.Background()); len(lines) != 0 {
		t.Fatalf("expected empty cart on backend failure, got %d lines", len(lines))
	}
}
