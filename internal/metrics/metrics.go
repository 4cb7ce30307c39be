// Package metrics exposes Prometheus instrumentation for scroll bindings.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RestoresTotal counts stored offsets applied to an element at attach time.
	RestoresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrollkeeper_restores_total",
		Help: "Stored offsets applied to an element at attach time.",
	}, []string{"identifier"})

	// SeedWritesTotal counts the synchronous writes performed at attach time.
	SeedWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrollkeeper_seed_writes_total",
		Help: "Synchronous seed writes performed at attach time.",
	}, []string{"identifier"})

	// DebouncedWritesTotal counts offset writes persisted after a quiet period.
	DebouncedWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrollkeeper_debounced_writes_total",
		Help: "Offset writes persisted after a quiet period elapsed.",
	}, []string{"identifier"})

	// CoalescedTotal counts scheduled writes replaced by a newer offset
	// before their timer fired.
	CoalescedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrollkeeper_coalesced_writes_total",
		Help: "Scheduled writes replaced by a newer offset before firing.",
	}, []string{"identifier"})

	// StorageErrorsTotal counts storage operations that failed and were
	// swallowed.
	StorageErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrollkeeper_storage_errors_total",
		Help: "Storage operations that failed and were swallowed.",
	}, []string{"identifier", "op"})
)

var registerOnce sync.Once

// Register registers all collectors with reg. Only the first call has an
// effect; later calls (e.g. from additional bindings sharing the process)
// are no-ops.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			RestoresTotal,
			SeedWritesTotal,
			DebouncedWritesTotal,
			CoalescedTotal,
			StorageErrorsTotal,
		)
	})
}
