package position

// Location is a point in a world, local to whatever server hosts it.
type Location struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
	World string  `json:"world"`
}

// Position is a Location pinned to the cluster member that owns it.
type Position struct {
	Location
	Server string `json:"server"`
}

// New pins a location to a server.
func New(loc Location, server string) Position {
	return Position{Location: loc, Server: server}
}
