package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreOpDuration measures how long store calls take, labelled by
// operation ("insert", "find_all", "search", ...).
var StoreOpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "store_op_duration_seconds",
		Help:    "Duration of document store operations in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	},
	[]string{"operation"},
)

// ObserveOp records one store call. Meant to be deferred:
//
//	defer metrics.ObserveOp("insert", time.Now())
func ObserveOp(operation string, start time.Time) {
	StoreOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
