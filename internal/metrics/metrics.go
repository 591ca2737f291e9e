// Package metrics exposes relay counters to prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "relay"

// Route labels.
const (
	RouteBroadcast = "broadcast"
	RouteUnicast   = "unicast"
	RouteIgnored   = "ignored"
)

// Drop reasons.
const (
	DropDecode           = "decode"
	DropUnknownRecipient = "unknown_recipient"
	DropBackpressure     = "backpressure"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	Connections    prometheus.Counter
	Disconnections prometheus.Counter
	Peers          prometheus.Gauge
	FramesRouted   *prometheus.CounterVec
	FramesDropped  *prometheus.CounterVec
}

// New builds the relay metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "peers",
			Name:      "connected_total",
			Help:      "Total number of registered connections",
		}),
		Disconnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "peers",
			Name:      "disconnected_total",
			Help:      "Total number of disconnect callbacks",
		}),
		Peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "peers",
			Name:      "live",
			Help:      "Number of currently registered peers",
		}),
		FramesRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "routed_total",
			Help:      "Inbound frames by routing decision",
		}, []string{"route"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "dropped_total",
			Help:      "Frames dropped by reason",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.Connections, m.Disconnections, m.Peers, m.FramesRouted, m.FramesDropped)
	}
	return m
}

func (m *Metrics) Connected(live int) {
	if m == nil {
		return
	}
	m.Connections.Inc()
	m.Peers.Set(float64(live))
}

func (m *Metrics) Disconnected(live int) {
	if m == nil {
		return
	}
	m.Disconnections.Inc()
	m.Peers.Set(float64(live))
}

func (m *Metrics) Routed(route string) {
	if m == nil {
		return
	}
	m.FramesRouted.WithLabelValues(route).Inc()
}

func (m *Metrics) Dropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.FramesDropped.WithLabelValues(reason).Add(float64(n))
}
