package ws

import (
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/gorilla/websocket"
)

// Conn is one websocket endpoint. The transport owns it and is the only
// party that closes it; the relay core just sends through TrySend.
type Conn struct {
	key  string
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
	id     domain.PeerID
}

func newConn(key string, ws *websocket.Conn, buffer int) *Conn {
	if buffer < 2 {
		buffer = 2
	}
	return &Conn{
		key:  key,
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (c *Conn) ID() domain.PeerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

func (c *Conn) setID(id domain.PeerID) {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
}
