package ws

import (
	"context"
	"time"

	"github.com/dkeye/Relay/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writePump drains c.send. Whatever stops it also closes the socket, so the
// blocked read in readPump fails and the peer is unregistered.
func (s *Server) writePump(ctx context.Context, c *Conn) {
	ticker := time.NewTicker(s.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "adapters.ws").Str("conn_id", c.key).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "adapters.ws").Str("conn_id", c.key).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Str("conn_id", c.key).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(s.opts.WriteWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Debug().Err(err).Str("module", "adapters.ws").Str("conn_id", c.key).Msg("writePump ping failed")
				return
			}
		}
	}
}

// readPump delivers text frames until the socket fails, then reports the
// disconnect and releases the connection.
func (s *Server) readPump(cancel context.CancelFunc, c *Conn) {
	defer func() {
		log.Info().Str("module", "adapters.ws").Str("conn_id", c.key).Int64("id", int64(c.ID())).Msg("readPump closing")
		cancel()
		s.untrack(c)
		s.disconnectFn()(c.ID())
		c.Close()
	}()

	pongWait := s.opts.PingPeriod * 10 / 9
	c.conn.SetReadLimit(s.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "adapters.ws").Str("conn_id", c.key).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt != websocket.TextMessage {
			log.Debug().Str("module", "adapters.ws").Str("conn_id", c.key).Int("type", mt).Msg("non-text frame ignored")
			continue
		}
		s.textFn()(c.ID(), core.Frame(data))
	}
}
