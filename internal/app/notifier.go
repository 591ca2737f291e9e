package app

import (
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/metrics"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Notifier tells peers about identity and membership changes.
type Notifier struct {
	Registry *core.Registry
	Display  core.PeerDisplay
	Metrics  *metrics.Metrics
}

// Welcome sends the id acknowledgment to conn only.
func (n *Notifier) Welcome(conn core.SignalConnection, id domain.PeerID) {
	b, err := protocol.Encode(protocol.NewID(id))
	if err != nil {
		log.Error().Err(err).Str("module", "app.notifier").Msg("encode id")
		return
	}
	if err := conn.TrySend(b); err != nil {
		n.Metrics.Dropped(metrics.DropBackpressure, 1)
		log.Warn().Err(err).Str("module", "app.notifier").Int64("id", int64(id)).Msg("id ack not delivered")
	}
}

// Publish pushes the current peer list to every peer and to the display.
func (n *Notifier) Publish() {
	peers := n.Registry.Snapshot()
	b, err := protocol.Encode(protocol.NewPeers(peers))
	if err != nil {
		log.Error().Err(err).Str("module", "app.notifier").Msg("encode peers")
		return
	}
	res := n.Registry.Broadcast(b)
	n.Metrics.Dropped(metrics.DropBackpressure, len(res.Dropped))
	log.Debug().Str("module", "app.notifier").Int("peers", len(peers)).Int("sent_to", res.SendTo).Msg("peers published")

	if n.Display != nil {
		n.Display.UpdatePeers(peers)
	}
}
