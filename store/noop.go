package store

import "context"

// NoopStore is the disabled variant: Get always reports absent and Set
// discards the offset. Bindings created without persistence use it so the
// rest of the pipeline never branches on whether persistence is on.
type NoopStore struct{}

// NewNoopStore creates a new no-op store.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (*NoopStore) Get(context.Context, string) (Offset, bool, error) {
	return Offset{}, false, nil
}

func (*NoopStore) Set(context.Context, string, Offset) error {
	return nil
}

func (*NoopStore) Close() error {
	return nil
}
