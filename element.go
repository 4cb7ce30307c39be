package scrollkeeper

import "github.com/scrollkeeper/scrollkeeper/store"

// Element is the capability surface a scrollable element must provide. Any
// environment that can read an offset, apply one, and report scroll events
// can back a Binding; no real view layer is required.
type Element interface {
	// ScrollOffset returns the element's current offset.
	ScrollOffset() store.Offset
	// ScrollTo moves the element to the given position. Arguments follow
	// the (x, y) convention of the usual scroll-to primitive: x is the
	// left offset, y the top offset.
	ScrollTo(x, y float64)
	// OnScroll subscribes fn to the element's scroll notifications and
	// returns an unsubscribe handle.
	OnScroll(fn func()) (unsubscribe func())
}
