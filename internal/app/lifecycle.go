package app

import (
	"errors"

	"github.com/dkeye/Relay/internal/core"
	"github.com/rs/zerolog/log"
)

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Start statuses. Zero is success.
const (
	StatusOK             = 0
	StatusAlreadyRunning = 1
	StatusInvalidOptions = 2
	StatusTLSMaterial    = 3
	StatusBindFailed     = 4
	StatusTransportError = 5
)

// Start asks the transport to listen and returns a status code.
func (r *Relay) Start(protocol string, port int, tls bool, certPath, keyPath string) int {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if r.state == Running {
		log.Warn().Str("module", "app.relay").Msg("start while running refused")
		return StatusAlreadyRunning
	}

	err := r.transport.Start(core.StartOptions{
		Protocol: protocol,
		Port:     port,
		TLS:      tls,
		CertPath: certPath,
		KeyPath:  keyPath,
	})
	status := statusOf(err)
	if status != StatusOK {
		log.Error().Err(err).Str("module", "app.relay").Int("port", port).Int("status", status).Msg("start failed")
		return status
	}
	r.state = Running
	log.Info().Str("module", "app.relay").Str("protocol", protocol).Int("port", port).Bool("tls", tls).Msg("relay started")
	return StatusOK
}

// Quit stops the transport without waiting for live connections. The
// disconnects that follow are handled by the regular callbacks.
func (r *Relay) Quit() {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if r.state != Running {
		return
	}
	r.transport.Quit()
	r.state = Stopped
	log.Info().Str("module", "app.relay").Msg("relay stopped")
}

func (r *Relay) State() State {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.state
}

func statusOf(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, core.ErrAlreadyRunning):
		return StatusAlreadyRunning
	case errors.Is(err, core.ErrInvalidOptions):
		return StatusInvalidOptions
	case errors.Is(err, core.ErrTLSMaterial):
		return StatusTLSMaterial
	case errors.Is(err, core.ErrBind):
		return StatusBindFailed
	default:
		return StatusTransportError
	}
}
