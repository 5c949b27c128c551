// Package metrics defines the Prometheus instrumentation for the tracker
// stores and the persistence pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors shared by the stores and the persist worker.
type Metrics struct {
	// MutationsTotal counts store mutations by store and operation,
	// including the ones that matched nothing and were no-ops.
	MutationsTotal *prometheus.CounterVec

	// SavesTotal counts persistence writes by outcome
	// (ok, error, dropped).
	SavesTotal *prometheus.CounterVec
}

// New registers the tracker collectors on reg and returns them. Pass a
// private registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		MutationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_store_mutations_total",
				Help: "Total number of store mutation operations",
			},
			[]string{"store", "operation"},
		),
		SavesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_persistence_saves_total",
				Help: "Total number of persistence writes by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Nop returns metrics backed by unregistered collectors, for callers that
// do not care about instrumentation.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
