package core

import (
	"sync"
	"testing"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_IDsAreMonotonic(t *testing.T) {
	r := NewRegistry()

	a, _ := r.Register(&fakeConn{}, "")
	b, _ := r.Register(&fakeConn{}, "name=Alice")
	require.True(t, r.Unregister(b.ID))
	c, _ := r.Register(&fakeConn{}, "")

	assert.Equal(t, domain.Peer{ID: 1, Name: "noname1"}, a)
	assert.Equal(t, domain.Peer{ID: 2, Name: "Alice"}, b)
	assert.Equal(t, domain.Peer{ID: 3, Name: "noname3"}, c)
}

func TestRegistry_SameConnectionRegisteredOnce(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{}

	first, added := r.Register(conn, "name=x")
	require.True(t, added)
	second, added := r.Register(conn, "name=y")

	assert.False(t, added)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Register(&fakeConn{}, "")
	b, _ := r.Register(&fakeConn{}, "")

	assert.True(t, r.Unregister(a.ID))
	assert.False(t, r.Unregister(a.ID))
	assert.False(t, r.Unregister(99))

	assert.Equal(t, []domain.Peer{b}, r.Snapshot())
}

func TestRegistry_SnapshotSortedByID(t *testing.T) {
	r := NewRegistry()
	for range 20 {
		r.Register(&fakeConn{}, "")
	}
	r.Unregister(7)

	snap := r.Snapshot()
	require.Len(t, snap, 19)
	for i := 1; i < len(snap); i++ {
		assert.Less(t, snap[i-1].ID, snap[i].ID)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{}
	p, _ := r.Register(conn, "")

	got, ok := r.Lookup(p.ID)
	require.True(t, ok)
	assert.Same(t, conn, got)

	r.Unregister(p.ID)
	_, ok = r.Lookup(p.ID)
	assert.False(t, ok)
}

func TestRegistry_BroadcastReportsDropped(t *testing.T) {
	r := NewRegistry()
	ok1, ok2 := &fakeConn{}, &fakeConn{}
	slow := &fakeConn{err: ErrBackpressure}
	r.Register(ok1, "")
	slowPeer, _ := r.Register(slow, "")
	r.Register(ok2, "")

	res := r.Broadcast(Frame("x"))

	assert.Equal(t, 2, res.SendTo)
	assert.Equal(t, []domain.PeerID{slowPeer.ID}, res.Dropped)
	assert.Equal(t, 1, ok1.count())
	assert.Equal(t, 1, ok2.count())
}

func TestRegistry_ConcurrentRegisterUniqueIDs(t *testing.T) {
	r := NewRegistry()
	const n = 100
	ids := make(chan domain.PeerID, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _ := r.Register(&fakeConn{}, "")
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.PeerID]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		assert.True(t, id >= 1 && id <= n)
	}
	assert.Len(t, seen, n)
}
