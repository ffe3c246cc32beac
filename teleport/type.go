package teleport

// Type selects the sub-kind of a teleport. The builder threads it
// through untouched; execution logic branches on it.
type Type string

const (
	// TypeTeleport moves the teleporter to the target position.
	TypeTeleport Type = "TELEPORT"

	// TypeTeleportHere moves the teleporter to the executor ("bring here"
	// semantics); the executor's position is the target.
	TypeTeleportHere Type = "TELEPORT_HERE"
)
