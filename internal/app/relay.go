// Package app wires the registry, router and notifier to a transport.
package app

import (
	"errors"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/metrics"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay is the chat relay core. It implements no transport behaviour itself;
// the transport calls back into it for every connect, disconnect and frame.
type Relay struct {
	transport core.Transport
	registry  *core.Registry
	router    *Router
	notifier  *Notifier
	metrics   *metrics.Metrics

	// mu serializes transport callbacks so acks and peer lists go out in
	// the order the registry changed.
	mu sync.Mutex

	stateMu sync.Mutex
	state   State
}

// NewRelay registers the relay's callbacks on t. display and m may be nil.
func NewRelay(t core.Transport, display core.PeerDisplay, m *metrics.Metrics) *Relay {
	reg := core.NewRegistry()
	r := &Relay{
		transport: t,
		registry:  reg,
		router:    &Router{Registry: reg, Metrics: m},
		notifier:  &Notifier{Registry: reg, Display: display, Metrics: m},
		metrics:   m,
	}
	t.OnConnected(r.OnConnected)
	t.OnDisconnect(r.OnDisconnect)
	t.OnText(r.OnText)
	return r
}

func (r *Relay) Registry() *core.Registry { return r.registry }

func (r *Relay) OnConnected(conn core.SignalConnection, path, rawArgs string) domain.PeerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Info().Str("module", "app.relay").Str("path", path).Str("args", rawArgs).Msg("connected")
	p, added := r.registry.Register(conn, rawArgs)
	if !added {
		return p.ID
	}
	r.metrics.Connected(r.registry.Len())
	r.notifier.Welcome(conn, p.ID)
	r.notifier.Publish()
	return p.ID
}

func (r *Relay) OnDisconnect(id domain.PeerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Info().Str("module", "app.relay").Int64("id", int64(id)).Msg("disconnected")
	r.registry.Unregister(id)
	r.metrics.Disconnected(r.registry.Len())
	r.notifier.Publish()
}

func (r *Relay) OnText(id domain.PeerID, data core.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Debug().Str("module", "app.relay").Int64("from", int64(id)).Bytes("text", data).Msg("recv")
	res, err := r.router.Dispatch(id, data)
	var de *protocol.DecodeError
	switch {
	case err == nil:
		if len(res.Dropped) > 0 {
			log.Warn().Str("module", "app.relay").Int64("from", int64(id)).Int("dropped", len(res.Dropped)).Msg("chat not delivered to every recipient")
		}
	case errors.As(err, &de):
		log.Warn().Err(err).Str("module", "app.relay").Int64("from", int64(id)).Msg("bad frame dropped")
	case errors.Is(err, ErrUnknownRecipient):
		log.Warn().Str("module", "app.relay").Int64("from", int64(id)).Msg("conn id not found, chat dropped")
	case errors.Is(err, ErrIgnored):
		log.Debug().Str("module", "app.relay").Int64("from", int64(id)).Msg("non-chat frame ignored")
	default:
		log.Error().Err(err).Str("module", "app.relay").Int64("from", int64(id)).Msg("dispatch")
	}
}
