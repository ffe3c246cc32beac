package messenger

import (
	"github.com/PseudoResonance/HuskHomes/position"
)

// MessageType tags the purpose of a cross-server message.
type MessageType string

const (
	// PositionRequest asks the cluster member hosting the target player to
	// reply with that player's current position.
	PositionRequest MessageType = "POSITION_REQUEST"
)

// RelayType hints how a message should be delivered by the relay.
type RelayType string

const (
	// RelayMessage delivers to the single member hosting the target player.
	RelayMessage RelayType = "MESSAGE"

	// RelayBroadcast delivers to every member of the cluster.
	RelayBroadcast RelayType = "BROADCAST"
)

// Payload carries the typed body of a message. Fields are absent unless
// the message type defines them; a successful POSITION_REQUEST reply
// carries Position, and its absence means the position is unavailable.
type Payload struct {
	Position *position.Position `json:"position,omitempty"`
}

// EmptyPayload is the payload of a request that carries no body.
func EmptyPayload() Payload {
	return Payload{}
}

// PositionPayload wraps a position for a reply.
func PositionPayload(pos position.Position) Payload {
	return Payload{Position: &pos}
}

// Message is the cross-server wire value. The field set and JSON names
// are fixed; implementations that interoperate over the same relay must
// preserve them exactly. Transport-level framing (correlation IDs and
// the like) lives in the transport's own envelope, not here.
type Message struct {
	Type           MessageType `json:"messageType"`
	SenderUsername string      `json:"senderUsername"`
	TargetUsername string      `json:"targetUsername"`
	Payload        Payload     `json:"payload"`
	RelayType      RelayType   `json:"relayType"`
	ClusterID      string      `json:"clusterId"`
}
