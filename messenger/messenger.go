// Package messenger defines the cross-server message protocol consumed by
// the teleport core: the wire-level Message value and the Messenger
// contract a concrete transport (Redis pub/sub, plugin messaging, ...)
// must fulfil. Delivery is neither ordered nor guaranteed; every caller
// bounds its await with a context deadline and supplies its own fallback.
package messenger

import (
	"context"

	"github.com/PseudoResonance/HuskHomes/user"
)

// Messenger relays typed messages between cluster members. Requests are
// addressed by username; the executor is the locally connected player the
// request is issued on behalf of.
type Messenger interface {
	// FindPlayer performs a cluster-wide existence check for the given
	// username. It returns the canonical username and true if some member
	// of the cluster reports the player online, or false if no member
	// claims them before ctx expires. A transport fault is returned as an
	// error distinct from a negative result.
	FindPlayer(ctx context.Context, executor user.OnlineUser, username string) (string, bool, error)

	// Send relays a message to the cluster member hosting the message's
	// target player and waits for that member's reply. The await is
	// bounded by ctx; once sent, the request itself is fire-and-forget at
	// the transport level.
	Send(ctx context.Context, executor user.OnlineUser, msg Message) (Message, error)

	// Close releases the transport's resources.
	Close() error
}

// Handler is the inbound side of the protocol: the node hosting a
// message's target answers requests addressed to it. A transport calls
// LocalPlayer to decide whether this node should claim a FIND_PLAYER
// broadcast, and HandleMessage to produce the reply payload for a
// relayed request. HandleMessage returning false means this node cannot
// serve the request and no reply is sent.
type Handler interface {
	LocalPlayer(username string) (string, bool)
	HandleMessage(msg Message) (Payload, bool)
}
