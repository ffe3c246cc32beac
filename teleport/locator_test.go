package teleport_test

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/PseudoResonance/HuskHomes/assert"
	"github.com/PseudoResonance/HuskHomes/messenger"
	"github.com/PseudoResonance/HuskHomes/teleport"
)

func TestFindUserLocalNeverHitsTheCluster(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	bob := newFakePlayer("Bob", overworld(5, 70, 5, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice, bob)
	locator := teleport.NewLocator(provider)

	found, err := locator.FindUser(context.Background(), alice, "bob")
	assert.NilError(t, err)
	assert.Equal(t, found, bob.User())
	assert.Equal(t, provider.messenger.findCalls.Load(), int64(0))
}

func TestFindUserCrossServerDisabled(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(localSettings(), alice)
	locator := teleport.NewLocator(provider)

	_, err := locator.FindUser(context.Background(), alice, "Ghost")
	assert.ErrorIs(t, err, teleport.ErrNotFound)
	assert.Equal(t, provider.messenger.findCalls.Load(), int64(0))
}

func TestFindUserClusterMiss(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice)
	provider.messenger.findPlayer = func(_ context.Context, _ string) (string, bool, error) {
		return "", false, nil
	}
	locator := teleport.NewLocator(provider)

	_, err := locator.FindUser(context.Background(), alice, "Ghost")
	assert.ErrorIs(t, err, teleport.ErrNotFound)
}

func TestFindUserClusterHitSynthesizesPlaceholder(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice)
	provider.messenger.findPlayer = func(_ context.Context, username string) (string, bool, error) {
		return username, true, nil
	}
	locator := teleport.NewLocator(provider)

	found, err := locator.FindUser(context.Background(), alice, "Bob")
	assert.NilError(t, err)
	assert.Equal(t, found.Username, "Bob")
	assert.True(t, found.Placeholder)

	// Placeholder identities are not stable across resolutions; the
	// protocol does not carry the remote UUID.
	again, err := locator.FindUser(context.Background(), alice, "Bob")
	assert.NilError(t, err)
	assert.Assert(t, found.UUID != again.UUID)
}

func TestFindUserTransportFaultPropagates(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice)
	fault := eris.New("connection reset")
	provider.messenger.findPlayer = func(_ context.Context, _ string) (string, bool, error) {
		return "", false, fault
	}
	locator := teleport.NewLocator(provider)

	_, err := locator.FindUser(context.Background(), alice, "Bob")
	assert.ErrorIs(t, err, fault)
}

func TestFindPositionLocal(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	bob := newFakePlayer("Bob", overworld(5, 70, 5, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice, bob)
	locator := teleport.NewLocator(provider)

	pos, ok, err := locator.FindPosition(context.Background(), alice, "Bob")
	assert.NilError(t, err)
	assert.True(t, ok)
	assert.Equal(t, pos, bob.Position())
	assert.Equal(t, provider.messenger.findCalls.Load(), int64(0))
	assert.Equal(t, provider.messenger.sendCalls.Load(), int64(0))
}

func TestFindPositionCrossServerDisabledIsSoftMiss(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(localSettings(), alice)
	locator := teleport.NewLocator(provider)

	_, ok, err := locator.FindPosition(context.Background(), alice, "Ghost")
	assert.NilError(t, err)
	assert.False(t, ok)
}

func TestFindPositionExistenceMissSkipsPositionRequest(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice)
	provider.messenger.findPlayer = func(_ context.Context, _ string) (string, bool, error) {
		return "", false, nil
	}
	locator := teleport.NewLocator(provider)

	_, ok, err := locator.FindPosition(context.Background(), alice, "Ghost")
	assert.NilError(t, err)
	assert.False(t, ok)
	// The position request is only sent after a positive existence reply.
	assert.Equal(t, provider.messenger.sendCalls.Load(), int64(0))
}

func TestFindPositionRemoteRoundTrip(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice)
	bobPos := overworld(100, 64, -20, "S2")
	provider.messenger.findPlayer = func(_ context.Context, username string) (string, bool, error) {
		return username, true, nil
	}
	var sent messenger.Message
	provider.messenger.send = func(_ context.Context, msg messenger.Message) (messenger.Message, error) {
		sent = msg
		reply := msg
		reply.SenderUsername, reply.TargetUsername = msg.TargetUsername, msg.SenderUsername
		reply.Payload = messenger.PositionPayload(bobPos)
		return reply, nil
	}
	locator := teleport.NewLocator(provider)

	pos, ok, err := locator.FindPosition(context.Background(), alice, "Bob")
	assert.NilError(t, err)
	assert.True(t, ok)
	assert.Equal(t, pos, bobPos)

	// The outbound request carries the fixed wire shape.
	assert.Equal(t, sent.Type, messenger.PositionRequest)
	assert.Equal(t, sent.SenderUsername, "Alice")
	assert.Equal(t, sent.TargetUsername, "Bob")
	assert.Equal(t, sent.RelayType, messenger.RelayMessage)
	assert.Equal(t, sent.ClusterID, provider.settings.ClusterID)
	assert.Nil(t, sent.Payload.Position)
}

func TestFindPositionReplyWithoutPositionIsSoftMiss(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice)
	provider.messenger.findPlayer = func(_ context.Context, username string) (string, bool, error) {
		return username, true, nil
	}
	provider.messenger.send = func(_ context.Context, msg messenger.Message) (messenger.Message, error) {
		return msg, nil // successful reply, no position field
	}
	locator := teleport.NewLocator(provider)

	_, ok, err := locator.FindPosition(context.Background(), alice, "Bob")
	assert.NilError(t, err)
	assert.False(t, ok)
}

func TestFindPositionRoundTripTimeoutIsSoftMiss(t *testing.T) {
	alice := newFakePlayer("Alice", overworld(0, 70, 0, "S1"))
	provider := newFakeProvider(crossServerSettings(), alice)
	provider.messenger.findPlayer = func(_ context.Context, username string) (string, bool, error) {
		return username, true, nil
	}
	provider.messenger.send = func(_ context.Context, _ messenger.Message) (messenger.Message, error) {
		return messenger.Message{}, context.DeadlineExceeded
	}
	locator := teleport.NewLocator(provider)

	_, ok, err := locator.FindPosition(context.Background(), alice, "Bob")
	assert.NilError(t, err)
	assert.False(t, ok)
}
