package core

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

type record struct {
	conn SignalConnection
	peer domain.Peer
}

// Registry is a threadsafe identity -> connection table.
// It never closes adapter-owned resources.
type Registry struct {
	mu     sync.RWMutex
	lastID domain.PeerID
	byID   map[domain.PeerID]*record
	byConn map[SignalConnection]domain.PeerID
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[domain.PeerID]*record),
		byConn: make(map[SignalConnection]domain.PeerID),
	}
}

// Register allocates the next id for conn and stores it under the name taken
// from rawArgs. A connection that is already registered keeps its record and
// added is false.
func (r *Registry) Register(conn SignalConnection, rawArgs string) (p domain.Peer, added bool) {
	name := ParseArgs(rawArgs)["name"]

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byConn[conn]; ok {
		log.Warn().Str("module", "core.registry").Int64("id", int64(id)).Msg("connection already registered")
		return r.byID[id].peer, false
	}
	r.lastID++
	p = domain.NewPeer(r.lastID, name)
	r.byID[p.ID] = &record{conn: conn, peer: p}
	r.byConn[conn] = p.ID
	log.Info().Str("module", "core.registry").Int64("id", int64(p.ID)).Str("name", p.Name).Msg("peer registered")
	return p, true
}

// Unregister drops id and reports whether it was present.
func (r *Registry) Unregister(id domain.PeerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byConn, rec.conn)
	delete(r.byID, id)
	log.Info().Str("module", "core.registry").Int64("id", int64(id)).Msg("peer unregistered")
	return true
}

func (r *Registry) Lookup(id domain.PeerID) (SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return rec.conn, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Snapshot lists every live peer once, ordered by id.
func (r *Registry) Snapshot() []domain.Peer {
	r.mu.RLock()
	out := make([]domain.Peer, 0, len(r.byID))
	for _, rec := range r.byID {
		out = append(out, rec.peer)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b domain.Peer) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Broadcast offers data to every live connection.
func (r *Registry) Broadcast(data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for id, rec := range r.byID {
		if err := rec.conn.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.registry").Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
