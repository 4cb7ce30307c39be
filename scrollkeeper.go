// Package scrollkeeper persists and restores the scroll offset of a single
// scrollable element across remounts. A Binding attaches to one element,
// restores the last stored offset, seeds storage with the element's current
// offset, and coalesces subsequent scroll notifications into debounced
// writes against the configured backend.
package scrollkeeper

import (
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/scrollkeeper/scrollkeeper/internal/debounce"
	"github.com/scrollkeeper/scrollkeeper/internal/metrics"
	"github.com/scrollkeeper/scrollkeeper/store"
)

// Offset is re-exported so callers that only need the public surface can
// avoid importing the store package.
type Offset = store.Offset

// PersistMode selects the storage backend variant.
type PersistMode string

const (
	// PersistDisabled keeps offsets in memory only; nothing is stored.
	PersistDisabled PersistMode = "disabled"
	// PersistRedis stores offsets on a Redis server (see Options.RedisURL).
	PersistRedis PersistMode = "redis"
	// PersistLocal stores offsets in an embedded Badger database on disk
	// (see Options.LocalPath).
	PersistLocal PersistMode = "local"
)

// Options configures a Binding.
type Options struct {
	// Persist selects the storage backend. Empty means PersistDisabled.
	Persist PersistMode `validate:"omitempty,oneof=disabled redis local"`
	// RedisURL is the server address for PersistRedis. Supports redis://
	// and rediss:// schemes.
	RedisURL string
	// LocalPath is the database directory for PersistLocal.
	LocalPath string
	// DebounceTime overrides the quiet period between the last scroll
	// notification and the persisted write. Zero uses the default.
	DebounceTime time.Duration `validate:"gte=0"`
	// Store, when set, overrides Persist with a caller-provided backend.
	// The caller keeps ownership: Close will not close it.
	Store store.Store
	// Logger receives diagnostic output. Nil discards it.
	Logger *logrus.Entry
	// Metrics, when set, registers the binding instrumentation collectors
	// with the given registerer.
	Metrics prometheus.Registerer
}

// Bind creates a Binding for identifier. The binding starts unattached; hand
// its Attach method to whatever owns the element's lifecycle and call
// SetScroll for manual overrides.
func Bind(identifier string, opts Options) (*Binding, error) {
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("validating options: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	logger = logger.WithFields(logrus.Fields{
		"component":  "binding",
		"binding_id": uuid.NewString()[:8],
		"identifier": identifier,
	})

	if opts.Metrics != nil {
		metrics.Register(opts.Metrics)
	}

	st := opts.Store
	ownsStore := false
	if st == nil {
		var err error
		st, err = newStore(opts, logger)
		if err != nil {
			return nil, err
		}
		ownsStore = true
	}

	return &Binding{
		identifier: identifier,
		key:        store.Key(identifier),
		store:      st,
		ownsStore:  ownsStore,
		debouncer:  debounce.New(opts.DebounceTime),
		logger:     logger,
	}, nil
}

// newStore builds the backend selected by opts.Persist.
func newStore(opts Options, logger *logrus.Entry) (store.Store, error) {
	switch opts.Persist {
	case PersistRedis:
		s, err := store.NewRedisStore(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("creating redis store: %w", err)
		}
		logger.Info("using redis store")
		return s, nil
	case PersistLocal:
		s, err := store.NewBadgerStore(opts.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("creating local store: %w", err)
		}
		logger.Info("using local badger store")
		return s, nil
	case PersistDisabled, "":
		return store.NewNoopStore(), nil
	default:
		return nil, fmt.Errorf("unknown persist mode %q", opts.Persist)
	}
}
