package huskhomes

import (
	"github.com/rs/zerolog"

	"github.com/PseudoResonance/HuskHomes/messenger"
	"github.com/PseudoResonance/HuskHomes/settings"
)

// Option augments how a Node is constructed.
type Option func(*Node)

// WithSettings supplies settings directly instead of loading them from
// the environment.
func WithSettings(cfg settings.Settings) Option {
	return func(n *Node) {
		n.settings = cfg
		n.hasConfig = true
	}
}

// WithMessenger supplies the cluster messenger to use. If omitted and
// cross-server mode is enabled, a Redis messenger is constructed from
// the settings.
func WithMessenger(m messenger.Messenger) Option {
	return func(n *Node) {
		n.messenger = m
	}
}

// WithLogger replaces the node's default stdout logger.
func WithLogger(log zerolog.Logger) Option {
	return func(n *Node) {
		n.log = log
	}
}
