package main

import (
	"sync"

	"github.com/scrollkeeper/scrollkeeper/store"
)

// simElement is an in-memory scrollable element standing in for a real view.
// It satisfies scrollkeeper.Element.
type simElement struct {
	mu   sync.Mutex
	off  store.Offset
	subs map[int]func()
	next int
}

func newSimElement() *simElement {
	return &simElement{subs: make(map[int]func())}
}

func (e *simElement) ScrollOffset() store.Offset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.off
}

func (e *simElement) ScrollTo(x, y float64) {
	e.mu.Lock()
	e.off = store.Offset{Top: y, Left: x}
	e.mu.Unlock()
}

func (e *simElement) OnScroll(fn func()) func() {
	e.mu.Lock()
	id := e.next
	e.next++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// scrollBy simulates a user scroll: move the offset and fire a scroll
// notification to all subscribers.
func (e *simElement) scrollBy(dx, dy float64) {
	e.mu.Lock()
	e.off.Left += dx
	e.off.Top += dy
	subs := make([]func(), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
