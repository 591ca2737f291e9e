package http

import (
	"net/http"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type PeerLister interface {
	Peers() []domain.Peer
}

type Deps struct {
	Peers    PeerLister
	State    func() string
	Gatherer prometheus.Gatherer
}

// Routes returns a mount function for the read-only API next to the relay.
func Routes(d Deps) func(r *gin.Engine) {
	return func(r *gin.Engine) {
		api := r.Group("/api")

		// GET /api/peers — latest peer snapshot
		api.GET("/peers", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"peers": d.Peers.Peers()})
		})

		r.GET("/healthz", func(c *gin.Context) {
			state := "unknown"
			if d.State != nil {
				state = d.State()
			}
			c.JSON(http.StatusOK, gin.H{"state": state})
		})

		if d.Gatherer != nil {
			r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
		}

		log.Info().Str("module", "adapters.http").Msg("api routes mounted")
	}
}
