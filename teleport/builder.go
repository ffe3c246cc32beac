package teleport

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/PseudoResonance/HuskHomes/position"
	"github.com/PseudoResonance/HuskHomes/settings"
	"github.com/PseudoResonance/HuskHomes/user"
)

// outcome is the result of one asynchronous resolution. ok=false with a
// nil error is a soft miss (position unavailable); err is a hard failure.
type outcome[T any] struct {
	value T
	ok    bool
	err   error
}

// resolution is a one-shot asynchronous computation. The producing
// goroutine writes a single outcome into a buffered channel and exits,
// so an abandoned resolution never leaks. Awaiting memoizes the outcome
// so a resolution can be joined more than once.
type resolution[T any] struct {
	ch chan outcome[T]

	mu   sync.Mutex
	done bool
	out  outcome[T]
}

// resolved returns an already-completed resolution.
func resolved[T any](value T) *resolution[T] {
	return &resolution[T]{done: true, out: outcome[T]{value: value, ok: true}}
}

// schedule starts fn on its own goroutine immediately and returns the
// pending resolution.
func schedule[T any](fn func() outcome[T]) *resolution[T] {
	r := &resolution[T]{ch: make(chan outcome[T], 1)}
	go func() {
		r.ch <- fn()
	}()
	return r
}

// await blocks until the resolution completes or ctx expires.
func (r *resolution[T]) await(ctx context.Context) outcome[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return r.out
	}
	select {
	case out := <-r.ch:
		r.done = true
		r.out = out
		return out
	case <-ctx.Done():
		var zero T
		return outcome[T]{value: zero, err: eris.Wrap(ctx.Err(), "resolution interrupted")}
	}
}

// Builder accumulates the configuration of a teleport and resolves it
// into exactly one of a Teleport, a TimedTeleport, or a typed failure.
//
// A builder is a single-owner staging object: mutators are not safe for
// concurrent use, and terminal operations snapshot the configuration so
// later mutation cannot affect an in-flight build. Username mutators
// schedule their resolution at call time; the work overlaps whatever the
// caller does before joining.
type Builder struct {
	provider Provider
	locator  Locator
	executor user.OnlineUser

	teleporter *resolution[Teleporter]
	target     *resolution[position.Position]

	typ            Type
	economyActions map[settings.EconomyAction]struct{}
}

// NewBuilder stages a teleport triggered by executor. The teleporter
// defaults to the executor, the type to TypeTeleport, and the economy
// action set to empty; the target starts unset.
func NewBuilder(provider Provider, executor user.OnlineUser) *Builder {
	return &Builder{
		provider:       provider,
		locator:        NewLocator(provider),
		executor:       executor,
		teleporter:     resolved(Teleporter{User: executor.User(), Online: executor}),
		typ:            TypeTeleport,
		economyActions: map[settings.EconomyAction]struct{}{},
	}
}

// SetTeleporter sets who moves as an already-resolved user. A bare User
// is not locally observable; use SetOnlineTeleporter for a player
// connected to this process.
func (b *Builder) SetTeleporter(teleporter user.User) *Builder {
	b.teleporter = resolved(Teleporter{User: teleporter})
	return b
}

// SetOnlineTeleporter sets who moves as a player connected to this
// process.
func (b *Builder) SetOnlineTeleporter(teleporter user.OnlineUser) *Builder {
	b.teleporter = resolved(Teleporter{User: teleporter.User(), Online: teleporter})
	return b
}

// SetTeleporterName sets who moves by username and schedules its
// resolution: local presence first, then a cluster-wide lookup when
// cross-server mode is enabled.
func (b *Builder) SetTeleporterName(username string) *Builder {
	executor := b.executor
	locator := b.locator
	b.teleporter = schedule(func() outcome[Teleporter] {
		teleporter, err := locator.findTeleporter(context.Background(), executor, username)
		if err != nil {
			return outcome[Teleporter]{err: err}
		}
		return outcome[Teleporter]{value: teleporter, ok: true}
	})
	return b
}

// SetTarget sets the destination as an already-resolved position.
func (b *Builder) SetTarget(target position.Position) *Builder {
	b.target = resolved(target)
	return b
}

// SetTargetLocation sets the destination as a location on this server.
func (b *Builder) SetTargetLocation(location position.Location) *Builder {
	b.target = resolved(position.New(location, b.provider.Settings().ServerName))
	return b
}

// SetTargetName sets the destination as the position of a player,
// possibly on another cluster member, and schedules its resolution.
func (b *Builder) SetTargetName(username string) *Builder {
	executor := b.executor
	locator := b.locator
	b.target = schedule(func() outcome[position.Position] {
		pos, ok, err := locator.FindPosition(context.Background(), executor, username)
		return outcome[position.Position]{value: pos, ok: ok, err: err}
	})
	return b
}

// SetType sets the teleport sub-kind.
func (b *Builder) SetType(typ Type) *Builder {
	b.typ = typ
	return b
}

// SetEconomyActions adds economy actions to check against the executor.
// Additive; duplicates collapse.
func (b *Builder) SetEconomyActions(actions ...settings.EconomyAction) *Builder {
	for _, action := range actions {
		b.economyActions[action] = struct{}{}
	}
	return b
}

// Build joins the teleporter and target resolutions and constructs an
// immediate Teleport. Either resolution failing fails the build; no
// partial request is ever returned.
func (b *Builder) Build(ctx context.Context) (*Teleport, error) {
	teleporter, target, err := b.join(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create teleport")
		return nil, err
	}
	return &Teleport{
		Teleporter:     teleporter.User,
		Executor:       b.executor,
		Target:         target,
		Type:           b.typ,
		EconomyActions: sortedActions(b.economyActions),
	}, nil
}

// BuildTimed joins the resolutions and constructs a warmup-gated
// TimedTeleport. The warmup duration is read from settings at call time.
// A teleporter that is not connected to this process fails the build
// with ErrInvalidTeleporter regardless of the target outcome.
func (b *Builder) BuildTimed(ctx context.Context) (*TimedTeleport, error) {
	warmup := b.provider.Settings().TeleportWarmupSeconds
	teleporter, target, err := b.join(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create timed teleport")
		return nil, err
	}
	if !teleporter.Local() {
		err := eris.Wrapf(ErrInvalidTeleporter, "%q is not connected to this server", teleporter.User.Username)
		log.Error().Err(err).Msg("Failed to create timed teleport")
		return nil, err
	}
	return &TimedTeleport{
		Teleporter:     teleporter.Online,
		Executor:       b.executor,
		Target:         target,
		Type:           b.typ,
		WarmupSeconds:  warmup,
		EconomyActions: sortedActions(b.economyActions),
	}, nil
}

// join fans in the two independent resolutions. Both are awaited before
// any failure is reported so the outcome is deterministic whichever side
// finishes first; teleporter failures take precedence.
func (b *Builder) join(ctx context.Context) (Teleporter, position.Position, error) {
	teleporter, target := b.teleporter, b.target
	if target == nil {
		return Teleporter{}, position.Position{}, eris.Wrap(ErrNoTarget, "build attempted with no target")
	}

	teleporterOut := teleporter.await(ctx)
	targetOut := target.await(ctx)

	if teleporterOut.err != nil {
		if eris.Is(teleporterOut.err, ErrNotFound) {
			return Teleporter{}, position.Position{}, eris.Wrap(ErrTeleporterNotFound, teleporterOut.err.Error())
		}
		return Teleporter{}, position.Position{}, eris.Wrap(teleporterOut.err, "failed to resolve teleporter")
	}
	if targetOut.err != nil {
		return Teleporter{}, position.Position{}, eris.Wrap(targetOut.err, "failed to resolve target")
	}
	if !targetOut.ok {
		return Teleporter{}, position.Position{}, eris.Wrap(ErrTargetNotFound, "target position is unavailable")
	}
	return teleporterOut.value, targetOut.value, nil
}
