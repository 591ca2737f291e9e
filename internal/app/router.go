package app

import (
	"errors"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/metrics"
	"github.com/dkeye/Relay/internal/protocol"
)

var (
	// ErrUnknownRecipient means a unicast target is not registered.
	ErrUnknownRecipient = errors.New("unknown recipient")
	// ErrIgnored means the envelope type is not routed from peers.
	ErrIgnored = errors.New("envelope type not routed")
)

// Router relays chat envelopes between registered peers.
type Router struct {
	Registry *core.Registry
	Metrics  *metrics.Metrics
}

// Dispatch handles one inbound frame from sender. It sends synchronously and
// returns the delivery result; errors describe why nothing was sent.
func (rt *Router) Dispatch(sender domain.PeerID, data core.Frame) (core.PublishResult, error) {
	env, err := protocol.Decode(data)
	if err != nil {
		rt.Metrics.Dropped(metrics.DropDecode, 1)
		return core.PublishResult{}, err
	}
	if env.Type != protocol.TypeChat {
		rt.Metrics.Routed(metrics.RouteIgnored)
		return core.PublishResult{}, ErrIgnored
	}
	env.From = sender

	if env.IsBroadcast() {
		out, err := protocol.Encode(env)
		if err != nil {
			return core.PublishResult{}, err
		}
		res := rt.Registry.Broadcast(out)
		rt.Metrics.Routed(metrics.RouteBroadcast)
		rt.Metrics.Dropped(metrics.DropBackpressure, len(res.Dropped))
		return res, nil
	}

	conn, ok := rt.Registry.Lookup(env.To)
	if !ok {
		rt.Metrics.Dropped(metrics.DropUnknownRecipient, 1)
		return core.PublishResult{}, ErrUnknownRecipient
	}
	out, err := protocol.Encode(env)
	if err != nil {
		return core.PublishResult{}, err
	}
	rt.Metrics.Routed(metrics.RouteUnicast)
	if err := conn.TrySend(out); err != nil {
		rt.Metrics.Dropped(metrics.DropBackpressure, 1)
		return core.PublishResult{Dropped: []domain.PeerID{env.To}}, nil
	}
	return core.PublishResult{SendTo: 1}, nil
}
