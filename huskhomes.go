// Package huskhomes wires the teleport-resolution core into a runnable
// cluster node: process settings, the registry of locally connected
// players, and the network messenger used for cross-server lookups.
package huskhomes

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/PseudoResonance/HuskHomes/messenger"
	redismsg "github.com/PseudoResonance/HuskHomes/messenger/redis"
	"github.com/PseudoResonance/HuskHomes/settings"
	"github.com/PseudoResonance/HuskHomes/teleport"
	"github.com/PseudoResonance/HuskHomes/user"
)

var _ teleport.Provider = (*Node)(nil)
var _ messenger.Handler = (*Node)(nil)

// Node is one cluster member. It implements teleport.Provider for the
// builder and locators, and messenger.Handler to answer requests that
// other members address to players connected here.
type Node struct {
	settings  settings.Settings
	hasConfig bool
	registry  *Registry
	messenger messenger.Messenger
	log       zerolog.Logger
}

// New constructs a node. Settings default to the environment unless
// overridden with WithSettings. When cross-server mode is enabled and no
// messenger is supplied, a Redis messenger is started from the settings.
func New(opts ...Option) (*Node, error) {
	node := &Node{
		registry: NewRegistry(),
		log:      zerolog.New(os.Stdout).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(node)
	}
	if !node.hasConfig {
		cfg, err := settings.Load()
		if err != nil {
			return nil, err
		}
		node.settings = cfg
	}
	node.log = node.log.With().Str("server", node.settings.ServerName).Logger()

	if node.messenger == nil && node.settings.CrossServer {
		m, err := redismsg.New(node.settings, node)
		if err != nil {
			return nil, err
		}
		node.messenger = m
	}
	return node, nil
}

// Close shuts down the node's messenger, if any.
func (n *Node) Close() error {
	if n.messenger == nil {
		return nil
	}
	return n.messenger.Close()
}

// Registry returns the registry of players connected to this node.
func (n *Node) Registry() *Registry {
	return n.registry
}

// Teleport stages a new teleport triggered by executor.
func (n *Node) Teleport(executor user.OnlineUser) *teleport.Builder {
	return teleport.NewBuilder(n, executor)
}

// FindLocalPlayer implements teleport.Provider.
func (n *Node) FindLocalPlayer(username string) (user.OnlineUser, bool) {
	return n.registry.Find(username)
}

// Settings implements teleport.Provider.
func (n *Node) Settings() settings.Settings {
	return n.settings
}

// Messenger implements teleport.Provider.
func (n *Node) Messenger() messenger.Messenger {
	return n.messenger
}

// LocalPlayer implements messenger.Handler: this node claims a cluster
// existence query only for players connected to it.
func (n *Node) LocalPlayer(username string) (string, bool) {
	player, ok := n.registry.Find(username)
	if !ok {
		return "", false
	}
	return player.User().Username, true
}

// HandleMessage implements messenger.Handler, answering requests relayed
// to players connected to this node.
func (n *Node) HandleMessage(msg messenger.Message) (messenger.Payload, bool) {
	switch msg.Type {
	case messenger.PositionRequest:
		player, ok := n.registry.Find(msg.TargetUsername)
		if !ok {
			// Some other member hosts the target; its node will reply.
			return messenger.Payload{}, false
		}
		return messenger.PositionPayload(player.Position()), true
	default:
		n.log.Warn().Str("messageType", string(msg.Type)).Msg("Dropping message of unknown type")
		return messenger.Payload{}, false
	}
}
