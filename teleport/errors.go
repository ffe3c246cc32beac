package teleport

import "github.com/rotisserie/eris"

// Failure taxonomy surfaced by locators and terminal builder operations.
// NotFound errors are user-facing outcomes, not bugs; anything else that
// escapes a build is either an invalid combination for the requested
// teleport kind or an unexpected transport fault, wrapped with its cause.
var (
	// ErrNotFound is returned by the player locator when a username cannot
	// be resolved locally or anywhere in the cluster.
	ErrNotFound = eris.New("player could not be found")

	// ErrTeleporterNotFound reports that the "who moves" side of a build
	// failed to resolve.
	ErrTeleporterNotFound = eris.New("teleporter could not be found")

	// ErrTargetNotFound reports that the "where to" side of a build failed
	// to resolve, including soft position misses on remote members.
	ErrTargetNotFound = eris.New("teleport target could not be found")

	// ErrInvalidTeleporter reports a timed teleport whose teleporter is not
	// connected to this process. The warmup phase has to observe the
	// teleporter's session for movement and disconnects, which is only
	// possible for a local player.
	ErrInvalidTeleporter = eris.New("timed teleports require a locally connected teleporter")

	// ErrNoTarget reports a build attempted before any target was set.
	ErrNoTarget = eris.New("teleport target was not set")
)
