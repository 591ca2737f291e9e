// Package protocol encodes and decodes the relay's JSON control envelopes.
package protocol

import (
	"github.com/dkeye/Relay/internal/domain"
	"github.com/goccy/go-json"
)

type Type string

const (
	TypeID    Type = "id"
	TypePeers Type = "peers"
	TypeChat  Type = "chat"
)

// Envelope is one decoded frame. Which fields are meaningful depends on Type:
// ID for "id", Peers for "peers", To/From/Data/Extra for "chat".
type Envelope struct {
	Type Type

	ID    domain.PeerID
	Peers []domain.Peer

	To   domain.PeerID
	From domain.PeerID
	// Data holds application fields of a chat payload, without to/from.
	Data map[string]json.RawMessage
	// Extra holds top-level fields other than type and data.
	Extra map[string]json.RawMessage
}

func NewID(id domain.PeerID) *Envelope {
	return &Envelope{Type: TypeID, ID: id}
}

func NewPeers(peers []domain.Peer) *Envelope {
	return &Envelope{Type: TypePeers, Peers: peers}
}

// IsBroadcast reports whether a chat envelope targets every peer.
func (e *Envelope) IsBroadcast() bool {
	return e.To == domain.BroadcastID
}
