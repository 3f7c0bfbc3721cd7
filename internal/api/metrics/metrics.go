// Package metrics defines and registers all custom Prometheus metrics for the
// grocery API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grocery"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationsTotal counts synchronizer operations.
// Labels:
//   - operation: e.g. "fetch_lists", "add_item", "share_list"
//   - result: "ok" or "error"
var StoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of list/item store operations, by outcome.",
	},
	[]string{"operation", "result"},
)

// StoreOperationDuration measures a store operation including backend round trips.
// Label:
//   - operation: as in StoreOperationsTotal
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of list/item store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts sign-in and sign-up attempts.
// Labels:
//   - action: "sign_in" or "sign_up"
//   - result: "ok" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and outcome.",
	},
	[]string{"action", "result"},
)

// ActiveWorkspaces tracks the number of authenticated clients held in memory.
var ActiveWorkspaces = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_workspaces",
		Help:      "Current number of live per-token workspaces.",
	},
)

// SerializerQueueDepth tracks the mutations queued or running in the serializer.
var SerializerQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "serializer_queue_depth",
		Help:      "Current number of mutations pending in the per-list serializer.",
	},
)

// Result renders err as a result label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// StoreObserver records synchronizer operations.
type StoreObserver struct{}

func (StoreObserver) ObserveOperation(operation string, elapsed time.Duration, err error) {
	StoreOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
	StoreOperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveAuth counts one authentication attempt.
func ObserveAuth(action string, err error) {
	AuthAttemptsTotal.WithLabelValues(action, Result(err)).Inc()
}
