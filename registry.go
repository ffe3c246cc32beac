package huskhomes

import (
	"strings"
	"sync"

	"github.com/PseudoResonance/HuskHomes/user"
)

// Registry tracks the players connected to this process. Lookups are
// case-insensitive. The teleport core only ever reads it; the game
// integration drives Join and Quit from its session events.
type Registry struct {
	mu      sync.RWMutex
	players map[string]user.OnlineUser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: map[string]user.OnlineUser{}}
}

// Join records a player as connected to this process.
func (r *Registry) Join(player user.OnlineUser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[strings.ToLower(player.User().Username)] = player
}

// Quit removes a player from the registry.
func (r *Registry) Quit(player user.OnlineUser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, strings.ToLower(player.User().Username))
}

// Find resolves a username to a connected player.
func (r *Registry) Find(username string) (user.OnlineUser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.players[strings.ToLower(username)]
	return player, ok
}

// Len reports how many players are connected.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
