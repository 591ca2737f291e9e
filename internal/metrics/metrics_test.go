package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Connected(1)
	m.Connected(2)
	m.Disconnected(1)
	m.Routed(RouteBroadcast)
	m.Dropped(DropBackpressure, 3)
	m.Dropped(DropDecode, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Disconnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Peers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesRouted.WithLabelValues(RouteBroadcast)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FramesDropped.WithLabelValues(DropBackpressure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FramesDropped.WithLabelValues(DropDecode)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Connected(1)
		m.Disconnected(0)
		m.Routed(RouteUnicast)
		m.Dropped(DropDecode, 1)
	})
}
