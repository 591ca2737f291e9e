// Package ws is the websocket transport: it accepts connections, pumps
// frames and reports connect, disconnect and text events to its callbacks.
package ws

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Mode       string
	Path       string
	StaticPath string
	ReadLimit  int64
	PingPeriod time.Duration
	WriteWait  time.Duration
	SendBuffer int
}

func DefaultOptions() Options {
	return Options{
		Mode:       gin.ReleaseMode,
		Path:       "/ws",
		ReadLimit:  32768,
		PingPeriod: 54 * time.Second,
		WriteWait:  5 * time.Second,
		SendBuffer: 64,
	}
}

// Server implements core.Transport over gin and gorilla/websocket.
type Server struct {
	opts Options

	mu       sync.Mutex
	srv      *http.Server
	ln       net.Listener
	protocol string
	conns    map[string]*Conn
	mounts   []func(r *gin.Engine)

	onConnected  core.ConnectFunc
	onDisconnect core.DisconnectFunc
	onText       core.TextFunc
}

var _ core.Transport = (*Server)(nil)

func NewServer(opts Options) *Server {
	def := DefaultOptions()
	if opts.Path == "" {
		opts.Path = def.Path
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = def.ReadLimit
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = def.PingPeriod
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = def.WriteWait
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = def.SendBuffer
	}
	return &Server{
		opts:  opts,
		conns: make(map[string]*Conn),
	}
}

// Mount registers extra routes next to the websocket endpoint. Routes take
// effect on the next Start.
func (s *Server) Mount(fn func(r *gin.Engine)) {
	s.mu.Lock()
	s.mounts = append(s.mounts, fn)
	s.mu.Unlock()
}

func (s *Server) OnConnected(f core.ConnectFunc) {
	s.mu.Lock()
	s.onConnected = f
	s.mu.Unlock()
}

func (s *Server) OnDisconnect(f core.DisconnectFunc) {
	s.mu.Lock()
	s.onDisconnect = f
	s.mu.Unlock()
}

func (s *Server) OnText(f core.TextFunc) {
	s.mu.Lock()
	s.onText = f
	s.mu.Unlock()
}

// Start binds the port and serves in the background. Bind and TLS problems
// are reported synchronously.
func (s *Server) Start(opts core.StartOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return core.ErrAlreadyRunning
	}
	if opts.Protocol == "" {
		return fmt.Errorf("%w: empty protocol", core.ErrInvalidOptions)
	}
	if opts.Port < 0 || opts.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", core.ErrInvalidOptions, opts.Port)
	}
	switch s.opts.Mode {
	case "", gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("%w: unknown mode %q", core.ErrInvalidOptions, s.opts.Mode)
	}

	var tlsCfg *tls.Config
	if opts.TLS {
		cert, err := tls.LoadX509KeyPair(opts.CertPath, opts.KeyPath)
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrTLSMaterial, err)
		}
		tlsCfg = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.Port))
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrBind, err)
	}
	if tlsCfg != nil {
		ln = tls.NewListener(ln, tlsCfg)
	}

	s.protocol = opts.Protocol
	srv := &http.Server{
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.srv, s.ln = srv, ln

	go func() {
		log.Info().Str("module", "adapters.ws").Str("addr", ln.Addr().String()).Bool("tls", opts.TLS).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("module", "adapters.ws").Msg("server error")
		}
	}()
	return nil
}

// Quit stops accepting and closes every live websocket. It does not wait for
// the pumps; their disconnect callbacks fire as each socket winds down.
func (s *Server) Quit() {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	conns := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if srv == nil {
		return
	}
	if err := srv.Close(); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("server close")
	}
	for _, c := range conns {
		c.Close()
	}
	log.Info().Str("module", "adapters.ws").Int("closed", len(conns)).Msg("transport stopped")
}

// Addr is the bound address while running, nil otherwise.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) handleUpgrade(c *gin.Context) {
	s.mu.Lock()
	upgrader := websocket.Upgrader{
		CheckOrigin:  func(r *http.Request) bool { return true },
		Subprotocols: []string{s.protocol},
	}
	s.mu.Unlock()

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("ws upgrade")
		return
	}

	conn := newConn(uuid.NewString(), ws, s.opts.SendBuffer)
	if !s.track(conn) {
		log.Warn().Str("module", "adapters.ws").Str("conn_id", conn.key).Msg("connection after quit rejected")
		conn.Close()
		return
	}
	log.Info().Str("module", "adapters.ws").Str("conn_id", conn.key).Str("remote", c.ClientIP()).Msg("new WS connection")

	conn.setID(s.connectFn()(conn, c.Request.URL.Path, c.Request.URL.RawQuery))

	ctx, cancel := context.WithCancel(context.Background())
	go s.writePump(ctx, conn)
	go s.readPump(cancel, conn)
}

func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return false
	}
	s.conns[c.key] = c
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c.key)
	s.mu.Unlock()
}

func (s *Server) connectFn() core.ConnectFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onConnected == nil {
		return func(core.SignalConnection, string, string) domain.PeerID { return 0 }
	}
	return s.onConnected
}

func (s *Server) disconnectFn() core.DisconnectFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onDisconnect == nil {
		return func(domain.PeerID) {}
	}
	return s.onDisconnect
}

func (s *Server) textFn() core.TextFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onText == nil {
		return func(domain.PeerID, core.Frame) {}
	}
	return s.onText
}
