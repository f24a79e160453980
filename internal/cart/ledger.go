package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tienda3x1/storefront/internal/catalog"
	"github.com/tienda3x1/storefront/pkg/enums"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
	"github.com/tienda3x1/storefront/pkg/metrics"
)

// Line is one cart entry. Title, price and image are denormalized from the
// catalog at add-time: later catalog changes never retroactively alter what
// the buyer put in the cart.
type Line struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Totals aggregates the cart; both fields are recomputed on every query.
type Totals struct {
	ItemCount int             `json:"item_count"`
	Amount    decimal.Decimal `json:"amount"`
}

type productResolver interface {
	Get(id int64) (catalog.Product, bool)
}

type notifier interface {
	Notify(ctx context.Context, level enums.NotificationLevel, message string)
}

// Ledger owns the cart lines. Every mutation keeps the one-line-per-product
// invariant and saves through the persistence adapter before returning.
type Ledger struct {
	mu       sync.Mutex
	lines    []Line
	catalog  productResolver
	store    *Store
	notifier notifier
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
}

// LedgerParams groups the ledger's dependencies.
type LedgerParams struct {
	Catalog  productResolver
	Store    *Store
	Notifier notifier
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
}

// NewLedger builds an empty cart ledger.
func NewLedger(params LedgerParams) (*Ledger, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Ledger{
		catalog:  params.Catalog,
		store:    params.Store,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Hydrate loads the persisted lines once at startup, dropping anything that
// violates the ledger invariants (recovery policy for hand-edited or stale
// payloads).
func (l *Ledger) Hydrate(ctx context.Context) {
	loaded := l.store.Load(ctx)

	seen := map[int64]struct{}{}
	lines := make([]Line, 0, len(loaded))
	for _, line := range loaded {
		if line.Quantity < 1 {
			continue
		}
		if _, dup := seen[line.ProductID]; dup {
			continue
		}
		seen[line.ProductID] = struct{}{}
		lines = append(lines, line)
	}

	l.mu.Lock()
	l.lines = lines
	l.mu.Unlock()

	if len(lines) != len(loaded) {
		l.logg.Warn(ctx, "dropped invalid persisted cart lines during hydration")
	}
}

// Add puts one unit of the product in the cart, merging into an existing line
// when present. The product must resolve against the catalog.
func (l *Ledger) Add(ctx context.Context, productID int64) error {
	product, ok := l.catalog.Get(productID)
	if !ok {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		l.logg.Error(l.logg.WithProductID(ctx, productID), "add to cart rejected", err)
		return err
	}

	l.mu.Lock()
	merged := false
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		l.lines = append(l.lines, Line{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  1,
		})
	}
	l.persistLocked(ctx)
	l.mu.Unlock()

	l.metrics.IncCartMutation("add")
	l.notifier.Notify(ctx, enums.NotificationInfo, fmt.Sprintf("%s added to cart", product.Title))
	return nil
}

// Remove deletes the product's line entirely. Removing an absent product is a
// no-op, not an error.
func (l *Ledger) Remove(ctx context.Context, productID int64) {
	l.mu.Lock()
	removed, title := l.removeLocked(ctx, productID)
	l.mu.Unlock()

	if !removed {
		return
	}
	l.metrics.IncCartMutation("remove")
	l.notifier.Notify(ctx, enums.NotificationInfo, fmt.Sprintf("%s removed from cart", title))
}

// SetQuantity replaces the line's quantity; values of zero or below remove
// the line entirely. Unknown products are a no-op.
func (l *Ledger) SetQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity <= 0 {
		l.Remove(ctx, productID)
		return
	}

	l.mu.Lock()
	updated := false
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines[i].Quantity = quantity
			updated = true
			break
		}
	}
	if updated {
		l.persistLocked(ctx)
	}
	l.mu.Unlock()

	if updated {
		l.metrics.IncCartMutation("set_quantity")
	}
}

// Clear empties the cart unconditionally.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	l.lines = nil
	l.persistLocked(ctx)
	l.mu.Unlock()

	l.metrics.IncCartMutation("clear")
}

// Lines returns the cart entries in insertion order.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Totals recomputes the aggregate item count and amount from the lines.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	totals := Totals{Amount: decimal.Zero}
	for _, line := range l.lines {
		totals.ItemCount += line.Quantity
		lineAmount := decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		totals.Amount = totals.Amount.Add(lineAmount)
	}
	return totals
}

// Len reports the number of distinct lines.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func (l *Ledger) removeLocked(ctx context.Context, productID int64) (bool, string) {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			title := l.lines[i].Title
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			l.persistLocked(ctx)
			return true, title
		}
	}
	return false, ""
}

// persistLocked saves the current lines; failures are logged and swallowed so
// a storage hiccup never aborts the mutation that triggered it.
func (l *Ledger) persistLocked(ctx context.Context) {
	snapshot := make([]Line, len(l.lines))
	copy(snapshot, l.lines)
	if err := l.store.Save(ctx, snapshot); err != nil {
		l.logg.Error(ctx, "cart save failed, in-memory cart remains authoritative", err)
	}
}
