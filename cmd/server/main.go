package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Relay/internal/adapters/display"
	httpapi "github.com/dkeye/Relay/internal/adapters/http"
	"github.com/dkeye/Relay/internal/adapters/ws"
	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/config"
	"github.com/dkeye/Relay/internal/metrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var (
		reg *prometheus.Registry
		m   *metrics.Metrics
	)
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	board := display.NewBoard()
	transport := ws.NewServer(ws.Options{
		Mode:       cfg.Mode,
		Path:       cfg.WSPath,
		StaticPath: cfg.StaticPath,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		WriteWait:  cfg.WriteWait,
		SendBuffer: cfg.SendBuffer,
	})
	relay := app.NewRelay(transport, display.Fanout{display.Log{Logger: log.Logger}, board}, m)

	deps := httpapi.Deps{
		Peers: board,
		State: func() string { return relay.State().String() },
	}
	if reg != nil {
		deps.Gatherer = reg
	}
	transport.Mount(httpapi.Routes(deps))

	status := relay.Start(cfg.Protocol, cfg.Port, cfg.TLS, cfg.CertFile(), cfg.KeyFile())
	log.Info().Int("port", cfg.Port).Int("status", status).Msg("start ws server")
	if status != app.StatusOK {
		log.Error().Int("status", status).Msg("start server failed")
		os.Exit(status)
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	relay.Quit()
	log.Info().Msg("Server exited")
}
