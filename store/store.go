// Package store provides storage backends for persisting scroll offsets.
package store

import (
	"context"
	"encoding/json"
)

// KeyPrefix namespaces scroll offset records from other users of the same
// backend.
const KeyPrefix = "scrollRestoration-"

// Key derives the storage key for a binding identifier.
func Key(identifier string) string {
	return KeyPrefix + identifier
}

// Offset is a scroll position in the element's own pixel space. No clamping
// is applied; values are stored as given.
type Offset struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Store is the interface for persisting scroll offsets.
type Store interface {
	// Get returns the offset stored under key. The boolean is false when
	// no record exists or the stored data is malformed.
	Get(ctx context.Context, key string) (Offset, bool, error)
	// Set stores the offset under key as a single atomic write.
	Set(ctx context.Context, key string, off Offset) error
	// Close releases any resources held by the store.
	Close() error
}

// compile-time checks
var (
	_ Store = (*NoopStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*BadgerStore)(nil)
)

// encodeOffset serializes an offset as its persisted JSON record.
func encodeOffset(off Offset) ([]byte, error) {
	return json.Marshal(off)
}

// decodeOffset parses a persisted record. Malformed data reads as absent
// rather than surfacing a parse error.
func decodeOffset(data []byte) (Offset, bool) {
	var off Offset
	if err := json.Unmarshal(data, &off); err != nil {
		return Offset{}, false
	}
	return off, true
}
