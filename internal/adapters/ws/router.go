package ws

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRouter() *gin.Engine {
	if s.opts.Mode != "" {
		gin.SetMode(s.opts.Mode)
	}

	r := gin.New()
	if s.opts.Mode == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	if s.opts.StaticPath != "" {
		r.Static("/static", s.opts.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(s.opts.StaticPath + "/index.html")
		})
	}

	r.GET(s.opts.Path, s.handleUpgrade)
	for _, mount := range s.mounts {
		mount(r)
	}

	log.Info().Str("module", "adapters.ws").Str("path", s.opts.Path).Str("static", s.opts.StaticPath).Msg("router setup")
	return r
}
