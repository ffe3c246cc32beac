package teleport

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/PseudoResonance/HuskHomes/messenger"
	"github.com/PseudoResonance/HuskHomes/position"
	"github.com/PseudoResonance/HuskHomes/user"
)

// RequestTimeout bounds every cross-server round trip made during
// resolution. On expiry the call site resolves to its not-found outcome;
// the in-flight request itself is not cancelled at the transport level.
const RequestTimeout = 3 * time.Second

// Teleporter is the resolved "who moves" side of a teleport: either a
// live local session or a remote user known by identity only.
type Teleporter struct {
	User user.User
	// Online is the teleporter's local session, non-nil only when the
	// teleporter is connected to this process.
	Online user.OnlineUser
}

// Local reports whether the teleporter's session is observable here.
func (t Teleporter) Local() bool {
	return t.Online != nil
}

// Locator resolves usernames to users and positions on behalf of an
// executor, checking local presence first and falling back to the
// cluster when cross-server mode is enabled.
type Locator struct {
	provider Provider
}

// NewLocator returns a locator backed by the given provider.
func NewLocator(provider Provider) Locator {
	return Locator{provider: provider}
}

// FindUser resolves a username to a User. Absence is a hard failure:
// a username unknown both locally and cluster-wide yields ErrNotFound.
func (l Locator) FindUser(ctx context.Context, executor user.OnlineUser, username string) (user.User, error) {
	teleporter, err := l.findTeleporter(ctx, executor, username)
	if err != nil {
		return user.User{}, err
	}
	return teleporter.User, nil
}

// findTeleporter is FindUser keeping hold of the local session when
// there is one, so timed builds can validate observability.
func (l Locator) findTeleporter(ctx context.Context, executor user.OnlineUser, username string) (Teleporter, error) {
	if online, ok := l.provider.FindLocalPlayer(username); ok {
		return Teleporter{User: online.User(), Online: online}, nil
	}
	if !l.provider.Settings().CrossServer {
		return Teleporter{}, eris.Wrapf(ErrNotFound, "%q is not connected to this server", username)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	found, ok, err := l.provider.Messenger().FindPlayer(ctx, executor, username)
	if err != nil {
		if isTimeout(err) {
			return Teleporter{}, eris.Wrapf(ErrNotFound, "%q could not be found on the cluster in time", username)
		}
		return Teleporter{}, eris.Wrapf(err, "cluster lookup for %q failed", username)
	}
	if !ok {
		return Teleporter{}, eris.Wrapf(ErrNotFound, "%q is not connected anywhere on the cluster", username)
	}
	// The existence protocol does not carry identity, so a remote user
	// gets a placeholder UUID. See user.User.Placeholder.
	return Teleporter{User: user.NewPlaceholder(found)}, nil
}

// FindPosition resolves a username to the player's current position.
// Absence is a soft outcome here: a username that cannot be located, or
// whose position cannot be obtained in time, yields ok=false with no
// error. Only unexpected transport faults from the existence query are
// returned as errors.
func (l Locator) FindPosition(ctx context.Context, executor user.OnlineUser, username string) (position.Position, bool, error) {
	if online, ok := l.provider.FindLocalPlayer(username); ok {
		return online.Position(), true, nil
	}
	settings := l.provider.Settings()
	if !settings.CrossServer {
		return position.Position{}, false, nil
	}

	// The existence query must succeed before a position request is sent.
	findCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	found, ok, err := l.provider.Messenger().FindPlayer(findCtx, executor, username)
	if err != nil {
		if isTimeout(err) {
			return position.Position{}, false, nil
		}
		return position.Position{}, false, eris.Wrapf(err, "cluster lookup for %q failed", username)
	}
	if !ok {
		return position.Position{}, false, nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	reply, err := l.provider.Messenger().Send(sendCtx, executor, messenger.Message{
		Type:           messenger.PositionRequest,
		SenderUsername: executor.User().Username,
		TargetUsername: found,
		Payload:        messenger.EmptyPayload(),
		RelayType:      messenger.RelayMessage,
		ClusterID:      settings.ClusterID,
	})
	if err != nil {
		// A remote position miss is not fatal to the overall resolution.
		log.Debug().Err(err).Str("username", found).Msg("position request yielded no reply")
		return position.Position{}, false, nil
	}
	if reply.Payload.Position == nil {
		return position.Position{}, false, nil
	}
	return *reply.Payload.Position, true, nil
}

func isTimeout(err error) bool {
	return eris.Is(eris.Cause(err), context.DeadlineExceeded) || eris.Is(eris.Cause(err), context.Canceled)
}
