// Package metrics exposes Prometheus counters for the traversal engine.
// promauto registers them on the default registry; exposition is the
// embedder's responsibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TraversalsTotal counts traversal calls by algorithm.
	TraversalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphwalk_traversals_total",
			Help: "Total number of traversal calls, labeled by algorithm",
		},
		[]string{"kind"},
	)

	// EdgesScannedTotal counts edges consumed from backend streams.
	EdgesScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphwalk_edges_scanned_total",
			Help: "Total number of edges read from the backend",
		},
	)

	// SuperNodesSkippedTotal counts vertices suppressed as super-nodes.
	SuperNodesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphwalk_supernodes_skipped_total",
			Help: "Total number of vertices whose edges were dropped for exceeding the skip degree",
		},
	)

	// CapacityExceededTotal counts traversals aborted on capacity.
	CapacityExceededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphwalk_capacity_exceeded_total",
			Help: "Total number of traversals aborted after exhausting their capacity",
		},
	)
)
