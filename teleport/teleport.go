// Package teleport implements the cross-server teleport-resolution
// pipeline: locators that resolve usernames to users and positions,
// locally or across the cluster, and a builder that joins those
// resolutions into an immutable teleport request.
package teleport

import (
	"sort"

	"github.com/PseudoResonance/HuskHomes/position"
	"github.com/PseudoResonance/HuskHomes/settings"
	"github.com/PseudoResonance/HuskHomes/user"
)

// Teleport is a fully-resolved, immediate teleport request. It is
// immutable once built; ownership passes to the execution layer.
type Teleport struct {
	// Teleporter is who physically moves. May be a remote placeholder.
	Teleporter user.User
	// Executor is who triggered the teleport. Economy actions are checked
	// against the executor, never the teleporter.
	Executor user.OnlineUser
	// Target is where the teleporter is going.
	Target position.Position
	// Type is the sub-kind requested by the caller.
	Type Type
	// EconomyActions are the monetary preconditions to check before
	// executing, in deterministic order.
	EconomyActions []settings.EconomyAction
}

// TimedTeleport is a teleport gated behind a warmup delay. Its
// teleporter is always a player connected to this process, so the warmup
// countdown can watch the session for movement and disconnects.
type TimedTeleport struct {
	Teleporter     user.OnlineUser
	Executor       user.OnlineUser
	Target         position.Position
	Type           Type
	WarmupSeconds  int
	EconomyActions []settings.EconomyAction
}

func sortedActions(set map[settings.EconomyAction]struct{}) []settings.EconomyAction {
	if len(set) == 0 {
		return nil
	}
	actions := make([]settings.EconomyAction, 0, len(set))
	for action := range set {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
