package core

import (
	"errors"

	"github.com/dkeye/Relay/internal/domain"
)

// Transport start failures. Adapters wrap these so the lifecycle can map
// them to status codes.
var (
	ErrAlreadyRunning = errors.New("transport already running")
	ErrInvalidOptions = errors.New("invalid transport options")
	ErrTLSMaterial    = errors.New("tls material unavailable")
	ErrBind           = errors.New("bind failed")
)

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SendTo  int
	Dropped []domain.PeerID
}

type StartOptions struct {
	Protocol string
	Port     int
	TLS      bool
	CertPath string
	KeyPath  string
}

type (
	ConnectFunc    func(conn SignalConnection, path, rawArgs string) domain.PeerID
	DisconnectFunc func(id domain.PeerID)
	TextFunc       func(id domain.PeerID, data Frame)
)

// Transport accepts connections and delivers frames. It owns every
// connection it hands to the callbacks and closes them itself.
type Transport interface {
	Start(opts StartOptions) error
	// Quit stops serving and does not wait for connections to wind down.
	Quit()

	OnConnected(ConnectFunc)
	OnDisconnect(DisconnectFunc)
	OnText(TextFunc)
}

// PeerDisplay is a presentation sink for membership snapshots.
type PeerDisplay interface {
	UpdatePeers(peers []domain.Peer)
}
