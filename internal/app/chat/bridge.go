/*
Package chat contains the core logic for realtime message delivery.

This file defines the Bridge, which relays outbound frames between server
processes over a shared Redis pub/sub topic so that a recipient connected to
another process still receives its messages.
*/
package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dmchat/internal/pkg/logx"
)

// localSender is the part of the Registry the bridge listener needs.
type localSender interface {
	TrySendLocal(userID string, payload []byte) bool
}

// Bridge connects this process to the shared broadcast topic.
//
// Delivery through the bridge is at-most-once and best-effort: Publish is
// fire-and-forget with no confirmation, no retry, and no ordering guarantee
// relative to other publishes. Every subscribed process receives every
// envelope; the one holding the target's connection writes it out, the others
// find no local match and drop it silently.
//
// If the broker is unreachable when the bridge is constructed, the bridge runs
// in degraded local-only mode: publishes are dropped with a warning and no
// background reconnect is attempted.
type Bridge struct {
	rdb      redis.UniversalClient
	local    localSender
	topic    string
	degraded bool

	logger zerolog.Logger
}

// NewBridge connects to the broker at the given addresses and returns a ready
// Bridge. A single address selects a single-node client, several addresses a
// cluster client. A broker that cannot be reached does not fail construction;
// the bridge degrades to local-only delivery with a logged warning.
func NewBridge(addrs []string, topic string, local localSender) *Bridge {
	logger := logx.Logger().With().Str("component", "bridge").Str("topic", topic).Logger()

	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: addrs,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b := &Bridge{
		rdb:    rdb,
		local:  local,
		topic:  topic,
		logger: logger,
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).
			Strs("addrs", addrs).
			Msg("Broadcast broker unreachable. Running in local-only delivery mode.")
		b.degraded = true
	}

	return b
}

// Degraded reports whether the bridge is running without a broker connection.
func (b *Bridge) Degraded() bool {
	return b.degraded
}

// Publish sends the envelope to the broadcast topic. It is fire-and-forget:
// publish errors are logged and the frame is lost.
func (b *Bridge) Publish(env Envelope) {
	if b.degraded {
		b.logger.Warn().
			Str("target_user_id", env.TargetUserID).
			Msg("Dropping cross-process frame, bridge is in local-only mode.")
		return
	}

	payload, err := json.Marshal(env)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to marshal broadcast envelope.")
		return
	}

	if err := b.rdb.Publish(context.Background(), b.topic, payload).Err(); err != nil {
		b.logger.Error().Err(err).
			Str("target_user_id", env.TargetUserID).
			Msg("Failed to publish broadcast envelope.")
	}
}

// Run subscribes to the broadcast topic and forwards inbound envelopes to the
// local registry until ctx is cancelled. A malformed envelope is logged and
// skipped, never fatal to the loop. Run returns immediately in degraded mode.
func (b *Bridge) Run(ctx context.Context) {
	if b.degraded {
		return
	}

	pubsub := b.rdb.Subscribe(ctx, b.topic)
	defer pubsub.Close()

	b.logger.Info().Msg("Broadcast listener started.")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Broadcast listener stopped.")
			return

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn().Msg("Broadcast subscription channel closed.")
				return
			}
			b.handleEnvelope([]byte(msg.Payload))
		}
	}
}

// handleEnvelope parses one envelope from the topic and attempts local
// delivery. A miss means another process owns the target's connection (or the
// user is offline) and is dropped silently.
func (b *Bridge) handleEnvelope(payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		b.logger.Warn().Err(err).Msg("Dropping malformed broadcast envelope.")
		return
	}

	if env.TargetUserID == "" {
		b.logger.Warn().Msg("Dropping broadcast envelope without target user.")
		return
	}

	b.local.TrySendLocal(env.TargetUserID, []byte(env.Message))
}

// Close releases the broker connection.
func (b *Bridge) Close() error {
	return b.rdb.Close()
}
