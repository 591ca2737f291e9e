// Package domain contains entity without logic, just meta-data
package domain

import "strconv"

// PeerID identifies a live connection. Ids start at 1 and are never reused
// within a process.
type PeerID int64

// BroadcastID is the chat recipient meaning "every peer".
const BroadcastID PeerID = -1

const defaultNamePrefix = "noname"

type Peer struct {
	ID   PeerID `json:"id"`
	Name string `json:"name"`
}

// NewPeer falls back to the generated name when none was requested.
func NewPeer(id PeerID, name string) Peer {
	if name == "" {
		name = DefaultName(id)
	}
	return Peer{ID: id, Name: name}
}

func DefaultName(id PeerID) string {
	return defaultNamePrefix + strconv.FormatInt(int64(id), 10)
}
