// Package metrics defines the Prometheus collectors of the split service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitspending"

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	sharesCalculated    *prometheus.CounterVec
	calculationFailures *prometheus.CounterVec
	settlementTransfers prometheus.Counter
	settlementDuration  prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		sharesCalculated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_calculated_total",
			Help:      "Share calculations that succeeded, by split type.",
		}, []string{"split_type"}),
		calculationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculation_failures_total",
			Help:      "Share or settlement calculations that failed, by error kind.",
		}, []string{"kind"}),
		settlementTransfers: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_transfers_total",
			Help:      "Settlement transfers proposed by the settlement engine.",
		}),
		settlementDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_duration_seconds",
			Help:      "Time spent computing settlements for a trip.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
}

// SharesCalculated counts a successful share calculation.
func (m *Metrics) SharesCalculated(splitType string) {
	if m == nil {
		return
	}
	m.sharesCalculated.WithLabelValues(splitType).Inc()
}

// CalculationFailed counts a failed calculation of the given kind.
func (m *Metrics) CalculationFailed(kind string) {
	if m == nil {
		return
	}
	m.calculationFailures.WithLabelValues(kind).Inc()
}

// SettlementsComputed records one settlement run.
func (m *Metrics) SettlementsComputed(transfers int, took time.Duration) {
	if m == nil {
		return
	}
	m.settlementTransfers.Add(float64(transfers))
	m.settlementDuration.Observe(took.Seconds())
}
