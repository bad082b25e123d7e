package script

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/haivivi/lincon/pkg/snapshot"
)

// Metrics records runner activity in Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	ops    *prometheus.CounterVec // by container and op
	grows  *prometheus.CounterVec // by container
	length *prometheus.GaugeVec   // by container
}

// NewMetrics creates the runner collectors and registers them with reg.
// Pass nil to create unregistered collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lincon",
			Subsystem: "script",
			Name:      "ops_total",
			Help:      "Total number of operations applied to containers",
		}, []string{"container", "op"}),

		grows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lincon",
			Subsystem: "script",
			Name:      "grows_total",
			Help:      "Total number of storage grow events",
		}, []string{"container"}),

		length: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lincon",
			Subsystem: "script",
			Name:      "length",
			Help:      "Container length after the most recent operation",
		}, []string{"container"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.ops, m.grows, m.length} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(kind snapshot.Kind, step Step) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(string(kind), step.Op).Inc()
	if step.Grew {
		m.grows.WithLabelValues(string(kind)).Inc()
	}
	m.length.WithLabelValues(string(kind)).Set(float64(step.Len))
}
