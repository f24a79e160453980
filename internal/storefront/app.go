package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tienda3x1/storefront/internal/cart"
	"github.com/tienda3x1/storefront/internal/catalog"
	"github.com/tienda3x1/storefront/internal/checkout"
	"github.com/tienda3x1/storefront/internal/view"
	"github.com/tienda3x1/storefront/pkg/config"
	"github.com/tienda3x1/storefront/pkg/enums"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
	"github.com/tienda3x1/storefront/pkg/metrics"
)

type catalogFetcher interface {
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

type checkoutRunner interface {
	Execute(ctx context.Context) (*checkout.Receipt, error)
}

// App is the single owner of storefront state: catalog, view criteria, cart
// and checkout. User intents arrive as method calls; rendering reads
// Snapshot. A mutex serializes criteria access and an atomic flag keeps
// catalog fetches from overlapping.
type App struct {
	mu       sync.Mutex
	criteria view.Criteria

	catalog        *catalog.Store
	fetcher        catalogFetcher
	cart           *cart.Ledger
	checkout       checkoutRunner
	searchDebounce *Debouncer
	logg           *logger.Logger
	metrics        *metrics.StorefrontMetrics
	fetching       atomic.Bool
}

// Params groups the app's collaborators.
type Params struct {
	Catalog  *catalog.Store
	Fetcher  catalogFetcher
	Cart     *cart.Ledger
	Checkout checkoutRunner
	View     config.ViewConfig
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
}

// Snapshot is what the rendering boundary consumes after any mutation.
type Snapshot struct {
	Products   []catalog.Product `json:"products"`
	Categories []string          `json:"categories"`
	Criteria   view.Criteria     `json:"criteria"`
	CartLines  []cart.Line       `json:"cart_lines"`
	Totals     cart.Totals       `json:"totals"`
}

// New builds the storefront app with default view criteria.
func New(params Params) (*App, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart ledger required")
	}
	if params.Checkout == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	app := &App{
		criteria: view.DefaultCriteria(),
		catalog:  params.Catalog,
		fetcher:  params.Fetcher,
		cart:     params.Cart,
		checkout: params.Checkout,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}
	app.searchDebounce = NewSearchDebouncer(params.View.SearchDebounce, app.Search)
	return app, nil
}

// Init hydrates the cart from persistence and performs the initial catalog
// fetch. A fetch failure leaves the app serving an empty catalog; the caller
// surfaces the retry.
func (a *App) Init(ctx context.Context) error {
	a.cart.Hydrate(ctx)
	_, err := a.RefreshCatalog(ctx)
	return err
}

// RefreshCatalog fetches and loads the catalog, replacing prior contents only
// on success. Overlapping fetches are rejected, never run concurrently.
func (a *App) RefreshCatalog(ctx context.Context) (int, error) {
	if !a.fetching.CompareAndSwap(false, true) {
		return 0, pkgerrors.New(pkgerrors.CodeStateConflict, "catalog fetch already in progress")
	}
	defer a.fetching.Store(false)

	records, err := a.fetcher.Fetch(ctx)
	if err != nil {
		a.metrics.IncCatalogFailure()
		a.logg.Error(ctx, "catalog fetch failed, keeping previous catalog", err)
		return 0, err
	}

	accepted := a.catalog.Load(records)
	a.metrics.SetCatalogProducts(accepted)

	ctx = a.logg.WithFields(ctx, map[string]any{
		"received": len(records),
		"accepted": accepted,
		"skipped":  len(records) - accepted,
	})
	a.logg.Info(ctx, "catalog loaded")
	return accepted, nil
}

// Search sets the free-text criterion immediately.
func (a *App) Search(text string) {
	a.mu.Lock()
	a.criteria.Search = text
	a.mu.Unlock()
}

// QueueSearch schedules a debounced Search so per-keystroke updates collapse
// into one criteria change.
func (a *App) QueueSearch(text string) {
	a.searchDebounce.Trigger(text)
}

// SelectCategory sets the category criterion; the empty string resets to the
// "all" sentinel.
func (a *App) SelectCategory(category string) {
	if category == "" {
		category = view.CategoryAll
	}
	a.mu.Lock()
	a.criteria.Category = category
	a.mu.Unlock()
}

// SelectSort sets the sort criterion.
func (a *App) SelectSort(key enums.SortKey) {
	a.mu.Lock()
	a.criteria.Sort = key
	a.mu.Unlock()
}

// Criteria returns the current filter/sort criteria.
func (a *App) Criteria() view.Criteria {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.criteria
}

// AddToCart adds one unit of the product.
func (a *App) AddToCart(ctx context.Context, productID int64) error {
	return a.cart.Add(ctx, productID)
}

// RemoveFromCart deletes the product's cart line.
func (a *App) RemoveFromCart(ctx context.Context, productID int64) {
	a.cart.Remove(ctx, productID)
}

// SetQuantity replaces a line's quantity; zero or below removes the line.
func (a *App) SetQuantity(ctx context.Context, productID int64, quantity int) {
	a.cart.SetQuantity(ctx, productID, quantity)
}

// ClearCart empties the cart.
func (a *App) ClearCart(ctx context.Context) {
	a.cart.Clear(ctx)
}

// Checkout runs the purchase simulation.
func (a *App) Checkout(ctx context.Context) (*checkout.Receipt, error) {
	return a.checkout.Execute(ctx)
}

// Categories lists the catalog's distinct categories, sorted.
func (a *App) Categories() []string {
	return a.catalog.Categories()
}

// Snapshot derives the current view and cart state for rendering. The
// product list is recomputed from the catalog and criteria on every call.
func (a *App) Snapshot() Snapshot {
	criteria := a.Criteria()
	return Snapshot{
		Products:   view.Compute(a.catalog.Products(), criteria),
		Categories: a.catalog.Categories(),
		Criteria:   criteria,
		CartLines:  a.cart.Lines(),
		Totals:     a.cart.Totals(),
	}
}
