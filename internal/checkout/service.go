package checkout

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tienda3x1/storefront/internal/cart"
	"github.com/tienda3x1/storefront/pkg/config"
	"github.com/tienda3x1/storefront/pkg/enums"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
	"github.com/tienda3x1/storefront/pkg/metrics"
)

type cartLedger interface {
	Len() int
	Totals() cart.Totals
	Clear(ctx context.Context)
}

type notifier interface {
	Notify(ctx context.Context, level enums.NotificationLevel, message string)
}

// Receipt summarizes a completed simulated purchase.
type Receipt struct {
	OrderRef  uuid.UUID       `json:"order_ref"`
	ItemCount int             `json:"item_count"`
	Amount    decimal.Decimal `json:"amount"`
}

// Service runs the purchase simulation: idle -> processing -> idle, with the
// configured delay standing in for an external payment round-trip.
type Service struct {
	cart       cartLedger
	notifier   notifier
	delay      time.Duration
	logg       *logger.Logger
	metrics    *metrics.StorefrontMetrics
	processing atomic.Bool
}

// ServiceParams groups checkout dependencies.
type ServiceParams struct {
	Cart     cartLedger
	Notifier notifier
	Config   config.CheckoutConfig
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
}

// NewService wires the checkout simulation.
func NewService(params ServiceParams) (*Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart ledger required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		cart:     params.Cart,
		notifier: params.Notifier,
		delay:    params.Config.ProcessingDelay,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Processing reports whether a checkout is currently in flight.
func (s *Service) Processing() bool {
	return s.processing.Load()
}

// Execute runs one simulated purchase. An empty cart is rejected before the
// processing state is ever entered; a second call while processing is
// rejected as a state conflict. The cart is cleared only on success.
func (s *Service) Execute(ctx context.Context) (*Receipt, error) {
	if s.cart.Len() == 0 {
		err := pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")
		s.notifier.Notify(ctx, enums.NotificationError, "Your cart is empty")
		return nil, err
	}

	if !s.processing.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")
	}
	defer s.processing.Store(false)

	started := time.Now()
	totals := s.cart.Totals()

	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		// failure path: back to idle, cart untouched
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "checkout interrupted")
	}

	receipt := &Receipt{
		OrderRef:  uuid.New(),
		ItemCount: totals.ItemCount,
		Amount:    totals.Amount,
	}

	s.notifier.Notify(ctx, enums.NotificationSuccess,
		fmt.Sprintf("Purchase completed! Total: $%s (%d items)", totals.Amount.StringFixed(2), totals.ItemCount))
	s.cart.Clear(ctx)

	s.metrics.ObserveCheckout(time.Since(started))
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_ref":  receipt.OrderRef.String(),
		"item_count": receipt.ItemCount,
		"amount":     receipt.Amount.String(),
	})
	s.logg.Info(ctx, "checkout completed")

	return receipt, nil
}
