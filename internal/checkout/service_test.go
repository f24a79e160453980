package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tienda3x1/storefront/internal/cart"
	"github.com/tienda3x1/storefront/pkg/config"
	"github.com/tienda3x1/storefront/pkg/enums"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
)

type fakeLedger struct {
	mu     sync.Mutex
	lines  int
	totals cart.Totals
}

func (f *fakeLedger) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines
}

func (f *fakeLedger) Totals() cart.Totals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals
}

func (f *fakeLedger) Clear(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = 0
	f.totals = cart.Totals{Amount: decimal.Zero}
}

type captureNotifier struct {
	mu       sync.Mutex
	levels   []enums.NotificationLevel
	messages []string
}

func (c *captureNotifier) Notify(_ context.Context, level enums.NotificationLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels = append(c.levels, level)
	c.messages = append(c.messages, message)
}

func newTestService(t *testing.T, ledger *fakeLedger, delay time.Duration) (*Service, *captureNotifier) {
	t.Helper()
	notifier := &captureNotifier{}
	svc, err := NewService(ServiceParams{
		Cart:     ledger,
		Notifier: notifier,
		Config:   config.CheckoutConfig{ProcessingDelay: delay},
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, notifier
}

func TestExecuteEmptyCartNeverEntersProcessing(t *testing.T) {
	ledger := &fakeLedger{lines: 0}
	svc, notifier := newTestService(t, ledger, time.Hour)

	receipt, err := svc.Execute(context.Background())
	if receipt != nil {
		t.Fatal("expected no receipt for empty cart")
	}
	if !pkgerrors.Is(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected EMPTY_CART, got %v", err)
	}
	if svc.Processing() {
		t.Fatal("empty-cart checkout must not enter processing")
	}
	if len(notifier.levels) != 1 || notifier.levels[0] != enums.NotificationError {
		t.Fatalf("expected one error notification, got %v", notifier.levels)
	}
}

func TestExecuteClearsCartAndEmitsPreClearTotal(t *testing.T) {
	ledger := &fakeLedger{
		lines:  2,
		totals: cart.Totals{ItemCount: 5, Amount: decimal.RequireFromString("35")},
	}
	svc, notifier := newTestService(t, ledger, 5*time.Millisecond)

	receipt, err := svc.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if receipt.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", receipt.ItemCount)
	}
	if !receipt.Amount.Equal(decimal.RequireFromString("35")) {
		t.Fatalf("expected pre-clear amount 35, got %s", receipt.Amount)
	}
	if ledger.Len() != 0 {
		t.Fatal("expected cart to be cleared after success")
	}
	if svc.Processing() {
		t.Fatal("expected return to idle state")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.messages) != 1 || notifier.levels[0] != enums.NotificationSuccess {
		t.Fatalf("expected one success notification, got %v", notifier.messages)
	}
}

func TestExecuteRejectsOverlappingCheckout(t *testing.T) {
	ledger := &fakeLedger{
		lines:  1,
		totals: cart.Totals{ItemCount: 1, Amount: decimal.RequireFromString("10")},
	}
	svc, _ := newTestService(t, ledger, 100*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Execute(context.Background())
		done <- err
	}()

	// wait for the first checkout to enter processing
	deadline := time.Now().Add(time.Second)
	for !svc.Processing() {
		if time.Now().After(deadline) {
			t.Fatal("first checkout never entered processing")
		}
		time.Sleep(time.Millisecond)
	}

	_, err := svc.Execute(context.Background())
	if !pkgerrors.Is(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT for overlapping checkout, got %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	if svc.Processing() {
		t.Fatal("expected idle state after completion")
	}
}

func TestExecuteCancelledContextReturnsToIdleWithoutClearing(t *testing.T) {
	ledger := &fakeLedger{
		lines:  1,
		totals: cart.Totals{ItemCount: 1, Amount: decimal.RequireFromString("10")},
	}
	svc, _ := newTestService(t, ledger, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Execute(ctx)
		done <- err
	}()

	deadline := time.Now().Add(time.Second)
	for !svc.Processing() {
		if time.Now().After(deadline) {
			t.Fatal("checkout never entered processing")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-done; err == nil {
		t.Fatal("expected error from cancelled checkout")
	}
	if ledger.Len() != 1 {
		t.Fatal("failure path must not clear the cart")
	}
	if svc.Processing() {
		t.Fatal("expected idle state after failure")
	}
}
