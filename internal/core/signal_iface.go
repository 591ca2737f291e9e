package core

import "errors"

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is a raw text payload.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the core only sends through it and never closes it.
// Implementations must be comparable (adapters hand out pointers).
type SignalConnection interface {
	TrySend(Frame) error
}
