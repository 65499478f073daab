package transport

import (
	"context"
	"errors"

	"pendu/internal/protocol"
)

// Transport-fatal errors. These are surfaced to the caller as-is and never
// silently retried; a human must re-initiate the connection.
var (
	// ErrSignaling means the signaling relay is unreachable or rejected us
	ErrSignaling = errors.New("signaling relay error")
	// ErrPeerUnreachable means the remote identity does not exist
	ErrPeerUnreachable = errors.New("peer unreachable")
	// ErrConnectionTimeout means joining did not complete within the deadline
	ErrConnectionTimeout = errors.New("connection timed out")
)

// Status is the coarse connection state of a peer
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

// MessageHandler receives a validated inbound message and the id of the
// peer that sent it
type MessageHandler func(msg *protocol.Message, fromID string)

// DisconnectHandler is notified when a peer's channel closes
type DisconnectHandler func(peerID string)

// Transport wraps a peer-to-peer data channel in a star topology: the host
// accepts channels from every guest, guests hold a single channel to the
// host. Delivery is reliable and ordered per channel; there is no ordering
// guarantee across channels.
//
// Handler registration is single-slot: registering again replaces the
// previous handler. Messages arriving before any handler is registered are
// buffered (bounded) and flushed in arrival order on registration, which
// closes the race between channel establishment and handler setup.
type Transport interface {
	// CreateRoom allocates a local identity, opens a listening channel and
	// resolves once the identity is confirmed by the signaling relay
	CreateRoom(ctx context.Context) (localID string, err error)

	// JoinRoom opens a direct channel to the remote identity, enforcing a
	// hard timeout. Partial state is torn down before a failure surfaces.
	JoinRoom(ctx context.Context, remoteID string) error

	// Send broadcasts to all currently open channels, silently skipping
	// channels that are not open yet. Fire-and-forget: reliability is
	// handled one layer up by idempotent message design.
	Send(msg *protocol.Message)

	OnMessage(handler MessageHandler)
	OnDisconnect(handler DisconnectHandler)

	LocalID() string
	Status() Status

	// Close tears down every channel and the local identity
	Close()
}
