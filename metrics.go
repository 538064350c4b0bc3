package axiom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ruleMetrics records per-rule pipeline statistics. A nil *ruleMetrics
// records nothing.
type ruleMetrics struct {
	// edges counts edges in each rule's stage output.
	// Labels: rule
	edges *prometheus.CounterVec

	// drops counts DropAll outcomes.
	// Labels: rule
	drops *prometheus.CounterVec

	// duration measures the time to apply and materialize one stage.
	// Labels: rule
	duration *prometheus.HistogramVec
}

func newRuleMetrics(reg prometheus.Registerer) *ruleMetrics {
	factory := promauto.With(reg)
	return &ruleMetrics{
		edges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axiom",
			Subsystem: "rule",
			Name:      "edges_total",
			Help:      "Total edges emitted per rule stage",
		}, []string{"rule"}),
		drops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axiom",
			Subsystem: "rule",
			Name:      "drops_total",
			Help:      "Total DropAll outcomes per rule",
		}, []string{"rule"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "axiom",
			Subsystem: "rule",
			Name:      "duration_seconds",
			Help:      "Rule stage duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"rule"}),
	}
}

func (m *ruleMetrics) observe(rule string, edges int, dropped bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.edges.WithLabelValues(rule).Add(float64(edges))
	if dropped {
		m.drops.WithLabelValues(rule).Inc()
	}
	m.duration.WithLabelValues(rule).Observe(elapsed.Seconds())
}
