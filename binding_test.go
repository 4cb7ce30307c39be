package scrollkeeper_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/scrollkeeper/scrollkeeper"
	"github.com/scrollkeeper/scrollkeeper/store"
)

// fakeElement is an in-memory Element with inspectable ScrollTo calls and a
// helper to simulate user scrolling.
type fakeElement struct {
	mu        sync.Mutex
	off       store.Offset
	scrollTos [][2]float64
	subs      []func()
}

func (f *fakeElement) ScrollOffset() store.Offset {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.off
}

func (f *fakeElement) ScrollTo(x, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrollTos = append(f.scrollTos, [2]float64{x, y})
	f.off = store.Offset{Top: y, Left: x}
}

func (f *fakeElement) OnScroll(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.subs)
	f.subs = append(f.subs, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs[idx] = nil
	}
}

// scroll simulates a user scroll: move the offset and notify subscribers.
func (f *fakeElement) scroll(top, left float64) {
	f.mu.Lock()
	f.off = store.Offset{Top: top, Left: left}
	subs := make([]func(), len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, fn := range subs {
		if fn != nil {
			fn()
		}
	}
}

func (f *fakeElement) scrollToCalls() [][2]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][2]float64, len(f.scrollTos))
	copy(out, f.scrollTos)
	return out
}

// recordingStore wraps MemoryStore and records every Set so tests can count
// writes.
type recordingStore struct {
	*store.MemoryStore
	mu   sync.Mutex
	sets []store.Offset
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: store.NewMemoryStore()}
}

func (r *recordingStore) Set(ctx context.Context, key string, off store.Offset) error {
	r.mu.Lock()
	r.sets = append(r.sets, off)
	r.mu.Unlock()
	return r.MemoryStore.Set(ctx, key, off)
}

func (r *recordingStore) setCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

func (r *recordingStore) lastSet() store.Offset {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sets) == 0 {
		return store.Offset{}
	}
	return r.sets[len(r.sets)-1]
}

func newTestBinding(t *testing.T, identifier string, rs *recordingStore, debounce time.Duration) *scrollkeeper.Binding {
	t.Helper()
	b, err := scrollkeeper.Bind(identifier, scrollkeeper.Options{
		Store:        rs,
		DebounceTime: debounce,
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return b
}

func TestAttachSeedsCurrentOffsetImmediately(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	b := newTestBinding(t, "seed", rs, 50*time.Millisecond)
	defer b.Detach()

	b.Attach(ctx, &fakeElement{})

	// The seed write is synchronous: it must be visible before any quiet
	// period elapses.
	if got := rs.setCount(); got != 1 {
		t.Fatalf("expected exactly one seed write, got %d", got)
	}
	got, ok, err := rs.Get(ctx, store.Key("seed"))
	if err != nil || !ok {
		t.Fatalf("expected seeded record, got ok=%v err=%v", ok, err)
	}
	if got != (store.Offset{}) {
		t.Fatalf("expected default offset seeded, got %+v", got)
	}
}

func TestAttachRestoresStoredOffset(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	if err := rs.Set(ctx, store.Key("restore"), store.Offset{Top: 250, Left: 0}); err != nil {
		t.Fatalf("priming store: %v", err)
	}

	b := newTestBinding(t, "restore", rs, 50*time.Millisecond)
	defer b.Detach()

	el := &fakeElement{}
	b.Attach(ctx, el)

	// The stored {top, left} record is applied through the (x, y) scroll-to
	// convention: ScrollTo(left, top).
	calls := el.scrollToCalls()
	if len(calls) != 1 {
		t.Fatalf("expected one ScrollTo call, got %d", len(calls))
	}
	if calls[0] != [2]float64{0, 250} {
		t.Fatalf("expected ScrollTo(0, 250), got ScrollTo(%v, %v)", calls[0][0], calls[0][1])
	}

	// The seed then records the restored position.
	if got := rs.lastSet(); got != (store.Offset{Top: 250, Left: 0}) {
		t.Fatalf("expected seed to record restored offset, got %+v", got)
	}
}

func TestScrollNotificationsCoalesceToLastOffset(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	b := newTestBinding(t, "coalesce", rs, 40*time.Millisecond)
	defer b.Detach()

	el := &fakeElement{}
	b.Attach(ctx, el)

	for i := 1; i <= 5; i++ {
		el.scroll(float64(i*10), 0)
	}

	// Only the seed has been written so far; the burst is still inside the
	// quiet period.
	if got := rs.setCount(); got != 1 {
		t.Fatalf("expected only the seed write during the burst, got %d", got)
	}

	time.Sleep(120 * time.Millisecond)

	if got := rs.setCount(); got != 2 {
		t.Fatalf("expected exactly one debounced write after the burst, got %d total", got)
	}
	if got := rs.lastSet(); got != (store.Offset{Top: 50, Left: 0}) {
		t.Fatalf("expected last notification's offset persisted, got %+v", got)
	}
}

func TestSetScrollPersistsTranslatedOffset(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	b := newTestBinding(t, "manual", rs, 40*time.Millisecond)
	defer b.Detach()

	el := &fakeElement{}
	b.Attach(ctx, el)

	b.SetScroll(10, 30)

	// The element is moved synchronously with the caller's (x, y) values.
	calls := el.scrollToCalls()
	if len(calls) != 1 || calls[0] != [2]float64{10, 30} {
		t.Fatalf("expected ScrollTo(10, 30), got %v", calls)
	}

	time.Sleep(120 * time.Millisecond)

	// The persisted record uses the internal convention: top = y, left = x.
	if got := rs.lastSet(); got != (store.Offset{Top: 30, Left: 10}) {
		t.Fatalf("expected persisted {top:30 left:10}, got %+v", got)
	}
}

func TestSetScrollWhileUnattachedIsNoop(t *testing.T) {
	rs := newRecordingStore()
	b := newTestBinding(t, "unattached", rs, 40*time.Millisecond)

	b.SetScroll(10, 30)
	time.Sleep(120 * time.Millisecond)

	if got := rs.setCount(); got != 0 {
		t.Fatalf("expected no writes from an unattached binding, got %d", got)
	}
}

func TestDetachCancelsPendingWrite(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()
	b := newTestBinding(t, "detach", rs, 40*time.Millisecond)

	el := &fakeElement{}
	b.Attach(ctx, el)

	el.scroll(100, 0)
	b.Detach()

	time.Sleep(150 * time.Millisecond)

	if got := rs.setCount(); got != 1 {
		t.Fatalf("expected only the seed write to survive detach, got %d", got)
	}

	// Scroll notifications after detach are ignored too.
	el.scroll(200, 0)
	time.Sleep(100 * time.Millisecond)
	if got := rs.setCount(); got != 1 {
		t.Fatalf("expected no writes after detach, got %d", got)
	}
}

func TestDisabledPersistenceRestoresNothing(t *testing.T) {
	ctx := context.Background()
	b, err := scrollkeeper.Bind("disabled", scrollkeeper.Options{
		Persist:      scrollkeeper.PersistDisabled,
		DebounceTime: 40 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer b.Close()

	el := &fakeElement{off: store.Offset{Top: 7, Left: 7}}
	b.Attach(ctx, el)

	if calls := el.scrollToCalls(); len(calls) != 0 {
		t.Fatalf("expected no restore with persistence disabled, got %v", calls)
	}

	// Scrolling must not panic or block without a real backend.
	el.scroll(50, 0)
	time.Sleep(100 * time.Millisecond)
	b.Detach()
}

func TestBindValidatesOptions(t *testing.T) {
	if _, err := scrollkeeper.Bind("", scrollkeeper.Options{}); err == nil {
		t.Fatal("expected error for empty identifier")
	}
	if _, err := scrollkeeper.Bind("x", scrollkeeper.Options{DebounceTime: -time.Second}); err == nil {
		t.Fatal("expected error for negative debounce time")
	}
	if _, err := scrollkeeper.Bind("x", scrollkeeper.Options{Persist: "bogus"}); err == nil {
		t.Fatal("expected error for unknown persist mode")
	}
}

// The two literal scenarios from the behavioral contract, end to end.
func TestScrollRestorationScenario(t *testing.T) {
	ctx := context.Background()
	rs := newRecordingStore()

	b := newTestBinding(t, "test-key", rs, 200*time.Millisecond)
	el := &fakeElement{}
	b.Attach(ctx, el)

	// Attaching a zero-offset element persists {top:0, left:0} immediately.
	got, ok, err := rs.Get(ctx, store.Key("test-key"))
	if err != nil || !ok {
		t.Fatalf("expected immediate seed record, got ok=%v err=%v", ok, err)
	}
	if got != (store.Offset{}) {
		t.Fatalf("expected {top:0 left:0}, got %+v", got)
	}

	// The element scrolls to {top:100, left:0}; after 250ms the record has
	// caught up.
	el.scroll(100, 0)
	time.Sleep(250 * time.Millisecond)

	got, _, _ = rs.Get(ctx, store.Key("test-key"))
	if got != (store.Offset{Top: 100, Left: 0}) {
		t.Fatalf("expected {top:100 left:0} after quiet period, got %+v", got)
	}
	b.Detach()

	// A second binding with the same identifier restores via ScrollTo(0, 100).
	b2 := newTestBinding(t, "test-key", rs, 200*time.Millisecond)
	el2 := &fakeElement{}
	b2.Attach(ctx, el2)
	defer b2.Detach()

	calls := el2.scrollToCalls()
	if len(calls) != 1 || calls[0] != [2]float64{0, 100} {
		t.Fatalf("expected ScrollTo(0, 100) on remount, got %v", calls)
	}
}
