package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store on an embedded Badger database: offsets
// survive process restarts without requiring an external service.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// Get returns the offset stored under key. A missing key or a value that
// does not parse as an offset record reads as absent.
func (b *BadgerStore) Get(_ context.Context, key string) (Offset, bool, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return Offset{}, false, nil
	}
	if err != nil {
		return Offset{}, false, fmt.Errorf("badger get %s: %w", key, err)
	}

	off, ok := decodeOffset(data)
	return off, ok, nil
}

// Set stores the offset as a JSON record under key in a single transaction.
func (b *BadgerStore) Set(_ context.Context, key string, off Offset) error {
	data, err := encodeOffset(off)
	if err != nil {
		return fmt.Errorf("encoding offset for %s: %w", key, err)
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}); err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
