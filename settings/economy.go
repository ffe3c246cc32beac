package settings

// EconomyAction names a monetary precondition checked against the
// executor of a teleport before it may proceed. The deduction itself is
// performed by the economy integration, outside this module.
type EconomyAction string

const (
	EconomyTeleport       EconomyAction = "TELEPORT"
	EconomyTimedTeleport  EconomyAction = "TIMED_TELEPORT"
	EconomyRandomTeleport EconomyAction = "RANDOM_TELEPORT"
	EconomySetHome        EconomyAction = "SET_HOME"
	EconomyBackCommand    EconomyAction = "BACK_COMMAND"
)

// DefaultEconomyCosts is the per-action cost table applied when the
// economy integration does not supply its own.
var DefaultEconomyCosts = map[EconomyAction]float64{
	EconomyTeleport:       0,
	EconomyTimedTeleport:  0,
	EconomyRandomTeleport: 25,
	EconomySetHome:        50,
	EconomyBackCommand:    0,
}
