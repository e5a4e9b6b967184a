package sctree

import "github.com/prometheus/client_golang/prometheus"

// Metrics records training progress. A nil *Metrics records nothing.
type Metrics struct {
	Nodes       *prometheus.CounterVec
	LeafSamples prometheus.Histogram
	Candidates  prometheus.Counter
}

// NewMetrics creates training metrics and registers them with reg, if reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sctree",
			Name:      "nodes_total",
			Help:      "Number of tree nodes finalized, by resulting state.",
		}, []string{"state"}),
		LeafSamples: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sctree",
			Name:      "leaf_samples",
			Help:      "Number of training samples reaching each leaf.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		Candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sctree",
			Name:      "candidates_total",
			Help:      "Number of candidate features evaluated.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Nodes, m.LeafSamples, m.Candidates)
	}
	return m
}

func (m *Metrics) node(state NodeState) {
	if m != nil {
		m.Nodes.WithLabelValues(state.String()).Inc()
	}
}

func (m *Metrics) leaf(numSamples int) {
	if m != nil {
		m.LeafSamples.Observe(float64(numSamples))
	}
}

func (m *Metrics) candidates(n int) {
	if m != nil {
		m.Candidates.Add(float64(n))
	}
}
