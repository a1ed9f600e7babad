package core

// Frame is a raw payload delivered to a connection as-is.
type Frame []byte

// SessionID identifies one live transport connection. Assigned by the
// transport layer, ephemeral, gone when the connection closes.
type SessionID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it. TrySend must never
// block, so state mutations can fan out without stalling on slow peers.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
