// Package display holds presentation sinks for peer snapshots.
package display

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Log renders every snapshot as one JSON object per line.
type Log struct {
	Logger zerolog.Logger
}

func (d Log) UpdatePeers(peers []domain.Peer) {
	d.Logger.Info().Str("module", "adapters.display").Int("count", len(peers)).Msg("peers\n" + Render(peers))
}

// Render formats peers the way the peer list view shows them.
func Render(peers []domain.Peer) string {
	var sb strings.Builder
	for _, p := range peers {
		b, err := json.Marshal(p)
		if err != nil {
			continue
		}
		sb.Write(b)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Board keeps the latest snapshot for readers such as the HTTP API.
type Board struct {
	mu    sync.RWMutex
	peers []domain.Peer
}

func NewBoard() *Board {
	return &Board{peers: []domain.Peer{}}
}

func (b *Board) UpdatePeers(peers []domain.Peer) {
	cp := slices.Clone(peers)
	if cp == nil {
		cp = []domain.Peer{}
	}
	b.mu.Lock()
	b.peers = cp
	b.mu.Unlock()
}

// Peers returns a copy of the latest snapshot.
func (b *Board) Peers() []domain.Peer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.peers)
}

// Fanout forwards each snapshot to every sink in order.
type Fanout []core.PeerDisplay

func (f Fanout) UpdatePeers(peers []domain.Peer) {
	for _, d := range f {
		d.UpdatePeers(peers)
	}
}
