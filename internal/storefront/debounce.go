package storefront

import (
	"sync"
	"time"
)

const defaultDebounce = 300 * time.Millisecond

// Debouncer gates search dispatch at the UI-wiring boundary so the filter
// pipeline is not recomputed on every keystroke. Only the last value within
// the window is dispatched; the pipeline itself stays synchronous.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	delay    time.Duration
	dispatch func(string)
}

// NewSearchDebouncer builds a debouncer calling dispatch after delay of
// inactivity. Non-positive delays fall back to the default window.
func NewSearchDebouncer(delay time.Duration, dispatch func(string)) *Debouncer {
	if delay <= 0 {
		delay = defaultDebounce
	}
	return &Debouncer{delay: delay, dispatch: dispatch}
}

// Trigger restarts the window with the given value.
func (d *Debouncer) Trigger(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.dispatch(text)
	})
}

// Stop cancels any pending dispatch.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
