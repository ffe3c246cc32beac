package teleport_test

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/PseudoResonance/HuskHomes/messenger"
	"github.com/PseudoResonance/HuskHomes/position"
	"github.com/PseudoResonance/HuskHomes/settings"
	"github.com/PseudoResonance/HuskHomes/user"
)

// fakePlayer is a locally connected player for tests.
type fakePlayer struct {
	identity user.User
	pos      position.Position
}

func newFakePlayer(username string, pos position.Position) *fakePlayer {
	return &fakePlayer{identity: user.New(uuid.New(), username), pos: pos}
}

func (p *fakePlayer) User() user.User             { return p.identity }
func (p *fakePlayer) Position() position.Position { return p.pos }

// fakeMessenger scripts the cluster's behavior and counts round trips so
// ordering invariants can be asserted.
type fakeMessenger struct {
	findPlayer func(ctx context.Context, username string) (string, bool, error)
	send       func(ctx context.Context, msg messenger.Message) (messenger.Message, error)

	findCalls atomic.Int64
	sendCalls atomic.Int64
}

func (m *fakeMessenger) FindPlayer(ctx context.Context, _ user.OnlineUser, username string) (string, bool, error) {
	m.findCalls.Add(1)
	if m.findPlayer == nil {
		return "", false, nil
	}
	return m.findPlayer(ctx, username)
}

func (m *fakeMessenger) Send(ctx context.Context, _ user.OnlineUser, msg messenger.Message) (messenger.Message, error) {
	m.sendCalls.Add(1)
	if m.send == nil {
		return messenger.Message{}, context.DeadlineExceeded
	}
	return m.send(ctx, msg)
}

func (m *fakeMessenger) Close() error { return nil }

// fakeProvider is a process-local view for tests: a handful of online
// players, settings, and a scripted messenger.
type fakeProvider struct {
	players   map[string]user.OnlineUser
	settings  settings.Settings
	messenger *fakeMessenger
}

func newFakeProvider(cfg settings.Settings, players ...user.OnlineUser) *fakeProvider {
	p := &fakeProvider{
		players:   map[string]user.OnlineUser{},
		settings:  cfg,
		messenger: &fakeMessenger{},
	}
	for _, player := range players {
		p.players[strings.ToLower(player.User().Username)] = player
	}
	return p
}

func (p *fakeProvider) FindLocalPlayer(username string) (user.OnlineUser, bool) {
	player, ok := p.players[strings.ToLower(username)]
	return player, ok
}

func (p *fakeProvider) Settings() settings.Settings    { return p.settings }
func (p *fakeProvider) Messenger() messenger.Messenger { return p.messenger }

func localSettings() settings.Settings {
	cfg := settings.Default()
	cfg.ServerName = "S1"
	cfg.CrossServer = false
	return cfg
}

func crossServerSettings() settings.Settings {
	cfg := localSettings()
	cfg.CrossServer = true
	return cfg
}

func overworld(x, y, z float64, server string) position.Position {
	return position.New(position.Location{X: x, Y: y, Z: z, World: "overworld"}, server)
}
