package user

import (
	"github.com/google/uuid"

	"github.com/PseudoResonance/HuskHomes/position"
)

// User identifies a player known to the network, locally connected or not.
// It is a plain immutable value.
type User struct {
	UUID     uuid.UUID `json:"uuid"`
	Username string    `json:"username"`

	// Placeholder marks a user synthesized from a cluster-wide name lookup.
	// The existence protocol does not carry identity, so the UUID of a
	// placeholder is freshly generated and is NOT stable across repeated
	// resolutions of the same remote username. Identity-equality logic must
	// not rely on it.
	Placeholder bool `json:"-"`
}

// New returns a fully-identified user.
func New(id uuid.UUID, username string) User {
	return User{UUID: id, Username: username}
}

// NewPlaceholder returns a user known by name only, with a freshly
// generated local-scope identity.
func NewPlaceholder(username string) User {
	return User{UUID: uuid.New(), Username: username, Placeholder: true}
}

// OnlineUser is a player connected to this process. Its position can be
// read directly, with no cluster resolution, and its session can be
// observed by warmup logic.
type OnlineUser interface {
	// User returns the identity of the connected player.
	User() User

	// Position returns the player's current in-world position.
	Position() position.Position
}
