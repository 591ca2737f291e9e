package app

import (
	"sync"
	"testing"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []string
	err    error
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, string(f))
	return nil
}

// take returns and clears everything received so far.
func (c *fakeConn) take() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.frames
	c.frames = nil
	return out
}

type fakeTransport struct {
	startErr error
	starts   []core.StartOptions
	quits    int

	onConnected  core.ConnectFunc
	onDisconnect core.DisconnectFunc
	onText       core.TextFunc
}

func (t *fakeTransport) Start(opts core.StartOptions) error {
	t.starts = append(t.starts, opts)
	return t.startErr
}

func (t *fakeTransport) Quit()                              { t.quits++ }
func (t *fakeTransport) OnConnected(f core.ConnectFunc)     { t.onConnected = f }
func (t *fakeTransport) OnDisconnect(f core.DisconnectFunc) { t.onDisconnect = f }
func (t *fakeTransport) OnText(f core.TextFunc)             { t.onText = f }

func (t *fakeTransport) connect(rawArgs string) (*fakeConn, domain.PeerID) {
	c := &fakeConn{}
	return c, t.onConnected(c, "/ws", rawArgs)
}

type displaySpy struct {
	updates [][]domain.Peer
}

func (d *displaySpy) UpdatePeers(peers []domain.Peer) {
	d.updates = append(d.updates, peers)
}

func newTestRelay(t *testing.T) (*Relay, *fakeTransport, *displaySpy) {
	t.Helper()
	tr := &fakeTransport{}
	disp := &displaySpy{}
	r := NewRelay(tr, disp, nil)
	require.NotNil(t, tr.onConnected)
	require.NotNil(t, tr.onDisconnect)
	require.NotNil(t, tr.onText)
	return r, tr, disp
}
