// Package redis implements the cluster messenger on Redis pub/sub.
//
// Every member of a cluster subscribes to one channel scoped by the
// cluster ID. Requests and replies travel as JSON envelopes; the
// envelope carries the transport framing (correlation ID, kind) while
// the inner messenger.Message keeps the protocol's exact wire shape.
// Delivery is fire-and-forget: a request with no reply simply times out
// on the requester's context.
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/PseudoResonance/HuskHomes/codec"
	"github.com/PseudoResonance/HuskHomes/messenger"
	"github.com/PseudoResonance/HuskHomes/settings"
	"github.com/PseudoResonance/HuskHomes/user"
)

var _ messenger.Messenger = (*Messenger)(nil)

type envelopeKind string

const (
	kindFindPlayer      envelopeKind = "FIND_PLAYER"
	kindFindPlayerReply envelopeKind = "FIND_PLAYER_REPLY"
	kindMessage         envelopeKind = "MESSAGE"
	kindMessageReply    envelopeKind = "MESSAGE_REPLY"
)

// envelope is the transport frame around protocol traffic. Correlation
// IDs live here so the inner Message wire shape stays fixed.
type envelope struct {
	ID      uuid.UUID          `json:"id"`
	Kind    envelopeKind       `json:"kind"`
	Sender  string             `json:"sender"`
	Target  string             `json:"target,omitempty"`
	Found   string             `json:"found,omitempty"`
	Message *messenger.Message `json:"message,omitempty"`
}

// Messenger relays protocol messages between cluster members over a
// shared Redis pub/sub channel.
type Messenger struct {
	client  *redis.Client
	pubsub  *redis.PubSub
	handler messenger.Handler
	server  string
	cluster string
	channel string

	mu      sync.Mutex
	pending map[uuid.UUID]chan envelope
}

// New connects to Redis, subscribes to the cluster channel, and starts
// the dispatch loop. The handler answers requests addressed to players
// hosted by this node.
func New(cfg settings.Settings, handler messenger.Handler) (*Messenger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})
	m := &Messenger{
		client:  client,
		handler: handler,
		server:  cfg.ServerName,
		cluster: cfg.ClusterID,
		channel: fmt.Sprintf("huskhomes:%s", cfg.ClusterID),
		pending: map[uuid.UUID]chan envelope{},
	}

	ctx := context.Background()
	m.pubsub = client.Subscribe(ctx, m.channel)
	// Confirm the subscription before any request can be published, so a
	// node never misses replies to its own traffic.
	if _, err := m.pubsub.Receive(ctx); err != nil {
		_ = client.Close()
		return nil, eris.Wrapf(err, "failed to subscribe to %q", m.channel)
	}
	go m.run()
	log.Info().Str("channel", m.channel).Str("server", m.server).Msg("Connected to Redis messenger")
	return m, nil
}

// FindPlayer implements messenger.Messenger. The query is broadcast to
// the cluster; only the member hosting the player claims it. No claim
// before ctx expires means the player is nowhere on the cluster.
func (m *Messenger) FindPlayer(ctx context.Context, _ user.OnlineUser, username string) (string, bool, error) {
	reply, err := m.request(ctx, envelope{
		ID:     uuid.New(),
		Kind:   kindFindPlayer,
		Sender: m.server,
		Target: username,
	})
	if err != nil {
		if eris.Is(eris.Cause(err), context.DeadlineExceeded) || eris.Is(eris.Cause(err), context.Canceled) {
			return "", false, nil
		}
		return "", false, err
	}
	return reply.Found, reply.Found != "", nil
}

// Send implements messenger.Messenger.
func (m *Messenger) Send(ctx context.Context, _ user.OnlineUser, msg messenger.Message) (messenger.Message, error) {
	reply, err := m.request(ctx, envelope{
		ID:      uuid.New(),
		Kind:    kindMessage,
		Sender:  m.server,
		Message: &msg,
	})
	if err != nil {
		return messenger.Message{}, err
	}
	if reply.Message == nil {
		return messenger.Message{}, eris.New("reply envelope carried no message")
	}
	return *reply.Message, nil
}

// Close stops the dispatch loop and releases the Redis connections.
func (m *Messenger) Close() error {
	log.Info().Str("channel", m.channel).Msg("Closing Redis messenger")
	if err := m.pubsub.Close(); err != nil {
		return eris.Wrap(err, "")
	}
	return eris.Wrap(m.client.Close(), "")
}

// request publishes an envelope and awaits its correlated reply under ctx.
func (m *Messenger) request(ctx context.Context, env envelope) (envelope, error) {
	replyCh := make(chan envelope, 1)
	m.mu.Lock()
	m.pending[env.ID] = replyCh
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.pending, env.ID)
		m.mu.Unlock()
	}()

	if err := m.publish(ctx, env); err != nil {
		return envelope{}, err
	}
	select {
	case reply := <-replyCh:
		return reply, nil
	case <-ctx.Done():
		return envelope{}, eris.Wrap(ctx.Err(), "no reply before deadline")
	}
}

func (m *Messenger) publish(ctx context.Context, env envelope) error {
	bz, err := codec.Encode(env)
	if err != nil {
		return err
	}
	if err := m.client.Publish(ctx, m.channel, bz).Err(); err != nil {
		return eris.Wrap(err, "failed to publish to cluster channel")
	}
	return nil
}

func (m *Messenger) run() {
	for raw := range m.pubsub.Channel() {
		env, err := codec.Decode[envelope]([]byte(raw.Payload))
		if err != nil {
			log.Error().Err(err).Msg("Dropping undecodable envelope")
			continue
		}
		switch env.Kind {
		case kindFindPlayer, kindMessage:
			go m.serve(env)
		case kindFindPlayerReply, kindMessageReply:
			m.deliver(env)
		default:
			log.Warn().Str("kind", string(env.Kind)).Msg("Dropping envelope of unknown kind")
		}
	}
}

// serve answers an inbound request if this node's handler claims it.
// Requests this node cannot serve are dropped; the owning member replies.
func (m *Messenger) serve(env envelope) {
	switch env.Kind {
	case kindFindPlayer:
		username, ok := m.handler.LocalPlayer(env.Target)
		if !ok {
			return
		}
		m.respond(envelope{ID: env.ID, Kind: kindFindPlayerReply, Sender: m.server, Found: username})
	case kindMessage:
		if env.Message == nil {
			return
		}
		if env.Message.ClusterID != m.cluster {
			log.Warn().Str("clusterId", env.Message.ClusterID).Msg("Dropping message for foreign cluster")
			return
		}
		payload, ok := m.handler.HandleMessage(*env.Message)
		if !ok {
			return
		}
		reply := messenger.Message{
			Type:           env.Message.Type,
			SenderUsername: env.Message.TargetUsername,
			TargetUsername: env.Message.SenderUsername,
			Payload:        payload,
			RelayType:      env.Message.RelayType,
			ClusterID:      env.Message.ClusterID,
		}
		m.respond(envelope{ID: env.ID, Kind: kindMessageReply, Sender: m.server, Message: &reply})
	}
}

func (m *Messenger) respond(env envelope) {
	if err := m.publish(context.Background(), env); err != nil {
		log.Error().Err(err).Msg("Failed to publish reply")
	}
}

// deliver hands a reply to the request awaiting it, if it is still
// awaited. Late replies are dropped.
func (m *Messenger) deliver(env envelope) {
	m.mu.Lock()
	replyCh, ok := m.pending[env.ID]
	m.mu.Unlock()
	if !ok {
		return
	}
	select {
	case replyCh <- env:
	default:
	}
}
