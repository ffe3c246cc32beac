package teleport

import (
	"github.com/PseudoResonance/HuskHomes/messenger"
	"github.com/PseudoResonance/HuskHomes/settings"
	"github.com/PseudoResonance/HuskHomes/user"
)

// Provider supplies the process-local facilities the teleport core
// consumes: the registry of connected players, the live settings, and
// the cluster messenger. The registry is read-only from this package's
// perspective.
type Provider interface {
	// FindLocalPlayer resolves a username against the players connected to
	// this process. The lookup is case-insensitive.
	FindLocalPlayer(username string) (user.OnlineUser, bool)

	// Settings returns the current process settings. Read at call time;
	// never cached by this package.
	Settings() settings.Settings

	// Messenger returns the cluster message client used for cross-server
	// resolution. Only consulted when cross-server mode is enabled.
	Messenger() messenger.Messenger
}
