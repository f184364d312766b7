package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the canvas collectors.
type Metrics struct {
	events      *prometheus.CounterVec
	nodes       *prometheus.GaugeVec
	connections prometheus.Gauge
	sessions    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_graph_events_total",
				Help: "Graph mutations applied, by event type",
			},
			[]string{"event"},
		),
		nodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flowcanvas_nodes",
				Help: "Nodes currently on all canvases, by node type",
			},
			[]string{"type"},
		),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flowcanvas_connections",
			Help: "Connections currently on all canvases",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flowcanvas_sessions",
			Help: "Open editor sessions",
		}),
	}
	for _, c := range []prometheus.Collector{m.events, m.nodes, m.connections, m.sessions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Hooks records every graph mutation.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeAdded: func(_ context.Context, e *domain.NodeEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
			m.nodes.WithLabelValues(string(e.NodeType)).Inc()
		},
		OnNodeMoved: func(_ context.Context, e *domain.NodeEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
		},
		OnNodeUpdated: func(_ context.Context, e *domain.NodeEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
		},
		OnNodeDeleted: func(_ context.Context, e *domain.NodeEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
			m.nodes.WithLabelValues(string(e.NodeType)).Dec()
		},
		OnConnectionAdded: func(_ context.Context, e *domain.ConnectionEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
			m.connections.Inc()
		},
		OnConnectionRemoved: func(_ context.Context, e *domain.ConnectionEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
			m.connections.Dec()
		},
	}
}

// SessionOpened counts a new editor session.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed counts a closed editor session.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// Adopt counts a canvas that starts with nodes already on it.
func (m *Metrics) Adopt(snap domain.Snapshot) {
	for _, n := range snap.Nodes {
		m.nodes.WithLabelValues(string(n.Type)).Inc()
	}
	m.connections.Add(float64(len(snap.Connections)))
}

// Forget removes what a closed session still contributes to the gauges.
func (m *Metrics) Forget(snap domain.Snapshot) {
	for _, n := range snap.Nodes {
		m.nodes.WithLabelValues(string(n.Type)).Dec()
	}
	m.connections.Sub(float64(len(snap.Connections)))
}

// EventCounter exposes the counter for one event type.
func (m *Metrics) EventCounter(t domain.EventType) prometheus.Counter {
	return m.events.WithLabelValues(string(t))
}

// NodeGauge exposes the gauge for one node type.
func (m *Metrics) NodeGauge(t domain.NodeType) prometheus.Gauge {
	return m.nodes.WithLabelValues(string(t))
}

// ConnectionGauge exposes the live connection gauge.
func (m *Metrics) ConnectionGauge() prometheus.Gauge { return m.connections }

// SessionGauge exposes the open session gauge.
func (m *Metrics) SessionGauge() prometheus.Gauge { return m.sessions }
