// Package debounce coalesces rapid update requests into a single deferred
// action per quiet period.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used when none is configured.
const DefaultQuiet = 100 * time.Millisecond

// Debouncer owns at most one pending timer. Schedule replaces any pending
// action, so after a burst of calls only the most recent action fires, once
// the quiet period elapses with no further calls.
type Debouncer struct {
	quiet time.Duration

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// New creates a Debouncer with the given quiet period. A zero or negative
// value falls back to DefaultQuiet.
func New(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet}
}

// Quiet returns the configured quiet period.
func (d *Debouncer) Quiet() time.Duration {
	return d.quiet
}

// Schedule records fn as the pending action and (re)starts the quiet-period
// timer. Any previously pending action is discarded without running. It
// reports whether an earlier pending action was replaced.
func (d *Debouncer) Schedule(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := d.timer != nil
	d.stopLocked()

	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		if d.seq != seq {
			// Replaced or cancelled while this callback was in flight.
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})

	return replaced
}

// FlushNow discards any pending action and runs fn synchronously on the
// calling goroutine, bypassing the quiet period.
func (d *Debouncer) FlushNow(fn func()) {
	d.Cancel()
	fn()
}

// Cancel discards any pending action without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.stopLocked()
}

// Pending reports whether an action is waiting on the quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
