package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tienda3x1/storefront/internal/cart"
	"github.com/tienda3x1/storefront/internal/catalog"
	"github.com/tienda3x1/storefront/internal/checkout"
	"github.com/tienda3x1/storefront/internal/notifications"
	"github.com/tienda3x1/storefront/internal/view"
	"github.com/tienda3x1/storefront/pkg/config"
	"github.com/tienda3x1/storefront/pkg/enums"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/kv"
	"github.com/tienda3x1/storefront/pkg/logger"
)

type scriptedFetcher struct {
	mu      sync.Mutex
	records []json.RawMessage
	err     error
	block   chan struct{}
	calls   int
}

func (f *scriptedFetcher) Fetch(context.Context) ([]json.RawMessage, error) {
	f.mu.Lock()
	f.calls++
	records, err, block := f.records, f.err, f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return records, err
}

func rawCatalog() []json.RawMessage {
	return []json.RawMessage{
		json.RawMessage(`{"id":1,"title":"Red Shirt","price":10,"category":"clothing","description":"cotton","image":"img-1"}`),
		json.RawMessage(`{"id":2,"title":"Blue Hat","price":5,"category":"accessories","description":"wool","image":"img-2"}`),
		json.RawMessage(`{"id":3,"title":"Green Mug","price":7.5,"category":"kitchen","description":"ceramic","image":"img-3"}`),
	}
}

func newTestApp(t *testing.T, fetcher catalogFetcher, kvStore kv.Store) *App {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})

	catalogStore := catalog.NewStore("/static/media/placeholder.png")

	cartStore, err := cart.NewStore(kvStore, config.CartConfig{StorageKey: "tienda3x1_carrito"}, logg)
	require.NoError(t, err)

	notifier := notifications.NewNotifier(logg, 0)
	ledger, err := cart.NewLedger(cart.LedgerParams{
		Catalog:  catalogStore,
		Store:    cartStore,
		Notifier: notifier,
		Logger:   logg,
	})
	require.NoError(t, err)

	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Cart:     ledger,
		Notifier: notifier,
		Config:   config.CheckoutConfig{ProcessingDelay: time.Millisecond},
		Logger:   logg,
	})
	require.NoError(t, err)

	app, err := New(Params{
		Catalog:  catalogStore,
		Fetcher:  fetcher,
		Cart:     ledger,
		Checkout: checkoutSvc,
		Logger:   logg,
	})
	require.NoError(t, err)
	return app
}

func TestInitLoadsCatalogAndHydratesCart(t *testing.T) {
	ctx := context.Background()
	memory := kv.NewMemory()
	memory.Set(ctx, "tienda3x1_carrito",
		`[{"product_id":1,"title":"Red Shirt","price":10,"image":"img-1","quantity":2}]`, 0)

	app := newTestApp(t, &scriptedFetcher{records: rawCatalog()}, memory)
	require.NoError(t, app.Init(ctx))

	snapshot := app.Snapshot()
	require.Len(t, snapshot.Products, 3)
	require.Equal(t, []string{"accessories", "clothing", "kitchen"}, snapshot.Categories)
	require.Len(t, snapshot.CartLines, 1)
	require.Equal(t, 2, snapshot.Totals.ItemCount)
}

func TestRefreshFailureKeepsPreviousCatalog(t *testing.T) {
	ctx := context.Background()
	fetcher := &scriptedFetcher{records: rawCatalog()}
	app := newTestApp(t, fetcher, kv.NewMemory())
	require.NoError(t, app.Init(ctx))

	fetcher.mu.Lock()
	fetcher.records = nil
	fetcher.err = errors.New("upstream down")
	fetcher.mu.Unlock()

	_, err := app.RefreshCatalog(ctx)
	require.Error(t, err)
	require.Len(t, app.Snapshot().Products, 3, "failed refresh must not wipe the catalog")
}

func TestRefreshRejectsOverlappingFetch(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	fetcher := &scriptedFetcher{records: rawCatalog(), block: block}
	app := newTestApp(t, fetcher, kv.NewMemory())

	done := make(chan error, 1)
	go func() {
		_, err := app.RefreshCatalog(ctx)
		done <- err
	}()

	deadline := time.Now().Add(time.Second)
	for !app.fetching.Load() {
		if time.Now().After(deadline) {
			t.Fatal("first fetch never started")
		}
		time.Sleep(time.Millisecond)
	}

	_, err := app.RefreshCatalog(ctx)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict),
		"expected STATE_CONFLICT for overlapping fetch, got %v", err)

	close(block)
	require.NoError(t, <-done)
}

func TestCriteriaMutatorsDriveSnapshot(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, &scriptedFetcher{records: rawCatalog()}, kv.NewMemory())
	require.NoError(t, app.Init(ctx))

	app.SelectCategory("clothing")
	require.Len(t, app.Snapshot().Products, 1)

	app.SelectCategory("")
	require.Equal(t, view.CategoryAll, app.Criteria().Category)
	require.Len(t, app.Snapshot().Products, 3)

	app.Search("mug")
	require.Len(t, app.Snapshot().Products, 1)
	require.Equal(t, int64(3), app.Snapshot().Products[0].ID)

	app.Search("")
	app.SelectSort(enums.SortPriceAsc)
	products := app.Snapshot().Products
	require.Equal(t, int64(2), products[0].ID, "cheapest first")
	require.Equal(t, int64(1), products[2].ID)
}

func TestQueueSearchAppliesAfterWindow(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, &scriptedFetcher{records: rawCatalog()}, kv.NewMemory())
	require.NoError(t, app.Init(ctx))
	app.searchDebounce = NewSearchDebouncer(10*time.Millisecond, app.Search)

	app.QueueSearch("h")
	app.QueueSearch("ha")
	app.QueueSearch("hat")
	require.Empty(t, app.Criteria().Search, "search applies only after the window")

	deadline := time.Now().Add(time.Second)
	for app.Criteria().Search != "hat" {
		if time.Now().After(deadline) {
			t.Fatalf("debounced search never applied, criteria %+v", app.Criteria())
		}
		time.Sleep(time.Millisecond)
	}
	require.Len(t, app.Snapshot().Products, 1)
}

func TestCartFlowThroughApp(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, &scriptedFetcher{records: rawCatalog()}, kv.NewMemory())
	require.NoError(t, app.Init(ctx))

	require.NoError(t, app.AddToCart(ctx, 1))
	require.NoError(t, app.AddToCart(ctx, 1))
	app.SetQuantity(ctx, 1, 3)

	snapshot := app.Snapshot()
	require.Len(t, snapshot.CartLines, 1)
	require.Equal(t, 3, snapshot.Totals.ItemCount)

	receipt, err := app.Checkout(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, receipt.ItemCount)
	require.Empty(t, app.Snapshot().CartLines, "checkout clears the cart")
}
