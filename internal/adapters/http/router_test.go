package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkeye/Relay/internal/adapters/display"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(d Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Routes(d)(r)
	return r
}

func TestRoutes_Peers(t *testing.T) {
	board := display.NewBoard()
	board.UpdatePeers([]domain.Peer{{ID: 1, Name: "noname1"}, {ID: 2, Name: "Alice"}})
	r := newEngine(Deps{Peers: board})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/peers", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Peers []domain.Peer `json:"peers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []domain.Peer{{ID: 1, Name: "noname1"}, {ID: 2, Name: "Alice"}}, body.Peers)
}

func TestRoutes_Healthz(t *testing.T) {
	r := newEngine(Deps{Peers: display.NewBoard(), State: func() string { return "running" }})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"running"}`, w.Body.String())
}

func TestRoutes_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Connected(1)
	r := newEngine(Deps{Peers: display.NewBoard(), Gatherer: reg})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "relay_peers_connected_total 1")
}

func TestRoutes_MetricsDisabled(t *testing.T) {
	r := newEngine(Deps{Peers: display.NewBoard()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
