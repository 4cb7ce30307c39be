package scrollkeeper

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/scrollkeeper/scrollkeeper/internal/debounce"
	"github.com/scrollkeeper/scrollkeeper/internal/metrics"
	"github.com/scrollkeeper/scrollkeeper/store"
)

// Binding is the live association between one identifier and one attached
// element. It owns at most one pending write at a time: a new scroll
// notification or manual set replaces any write still waiting on the quiet
// period, and Detach cancels it outright.
type Binding struct {
	identifier string
	key        string
	store      store.Store
	ownsStore  bool
	debouncer  *debounce.Debouncer
	logger     *logrus.Entry

	mu          sync.Mutex
	el          Element
	unsubscribe func()
	ctx         context.Context
}

// Attach wires the binding to el. A previously stored offset is applied to
// the element first, then the element's resulting offset is written back to
// storage immediately so a record exists before any scroll notification is
// processed. Subsequent notifications feed debounced writes. ctx is retained
// for storage calls until Detach. Attaching while already attached detaches
// from the previous element first.
func (b *Binding) Attach(ctx context.Context, el Element) {
	if el == nil {
		b.logger.Debug("attach skipped, no element")
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.detachLocked()
	b.el = el
	b.ctx = ctx

	// Restore before seeding so the seed records the restored position.
	if off, ok, err := b.store.Get(ctx, b.key); err != nil {
		b.logger.WithError(err).Warn("reading stored offset")
		metrics.StorageErrorsTotal.WithLabelValues(b.identifier, "get").Inc()
	} else if ok {
		el.ScrollTo(off.Left, off.Top)
		metrics.RestoresTotal.WithLabelValues(b.identifier).Inc()
		b.logger.WithFields(logrus.Fields{
			"top":  off.Top,
			"left": off.Left,
		}).Debug("restored offset")
	}

	// Seed storage with the element's offset as it stands now. On a first
	// mount with no stored record this persists the element's default
	// position.
	off := el.ScrollOffset()
	b.debouncer.FlushNow(func() {
		b.write(ctx, off, "seed")
	})
	metrics.SeedWritesTotal.WithLabelValues(b.identifier).Inc()

	b.unsubscribe = el.OnScroll(b.onScroll)
	b.logger.Debug("attached")
}

// Detach unsubscribes from the element and cancels any pending write; no
// write reaches storage afterwards. Safe to call when unattached.
func (b *Binding) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detachLocked()
}

func (b *Binding) detachLocked() {
	if b.el == nil {
		return
	}
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.debouncer.Cancel()
	b.el = nil
	b.ctx = nil
	b.logger.Debug("detached")
}

// Close detaches the binding and releases its storage backend when the
// binding constructed it. Backends injected via Options.Store stay open,
// since they outlive individual bindings.
func (b *Binding) Close() error {
	b.Detach()
	if !b.ownsStore {
		return nil
	}
	return b.store.Close()
}

// SetScroll moves the element to (x, y) and persists the position through
// the same debounced path as organic scrolling. The persisted record is
// {top: y, left: x}. It is a no-op while the binding is unattached.
func (b *Binding) SetScroll(x, y float64) {
	b.mu.Lock()
	el, ctx := b.el, b.ctx
	b.mu.Unlock()
	if el == nil {
		b.logger.Debug("setScroll skipped, not attached")
		return
	}

	el.ScrollTo(x, y)
	b.scheduleWrite(ctx, store.Offset{Top: y, Left: x}, "manual")
}

// onScroll handles one scroll notification: capture the element's current
// offset and queue it behind the quiet period.
func (b *Binding) onScroll() {
	b.mu.Lock()
	el, ctx := b.el, b.ctx
	b.mu.Unlock()
	if el == nil {
		return
	}

	b.scheduleWrite(ctx, el.ScrollOffset(), "scroll")
}

func (b *Binding) scheduleWrite(ctx context.Context, off store.Offset, origin string) {
	replaced := b.debouncer.Schedule(func() {
		// The binding may have detached between the timer firing and this
		// callback running; a detached binding must not write.
		b.mu.Lock()
		detached := b.el == nil
		b.mu.Unlock()
		if detached {
			return
		}
		b.write(ctx, off, origin)
	})
	if replaced {
		metrics.CoalescedTotal.WithLabelValues(b.identifier).Inc()
	}
}

// write persists off, swallowing storage failures so the binding degrades to
// in-memory behavior.
func (b *Binding) write(ctx context.Context, off store.Offset, origin string) {
	if err := b.store.Set(ctx, b.key, off); err != nil {
		b.logger.WithError(err).WithField("origin", origin).Warn("persisting offset")
		metrics.StorageErrorsTotal.WithLabelValues(b.identifier, "set").Inc()
		return
	}
	if origin != "seed" {
		metrics.DebouncedWritesTotal.WithLabelValues(b.identifier).Inc()
	}
	b.logger.WithFields(logrus.Fields{
		"top":    off.Top,
		"left":   off.Left,
		"origin": origin,
	}).Debug("persisted offset")
}
