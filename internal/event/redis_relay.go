package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisChannelPrefix = "postboard:room:"

// RedisRelay publishes through Redis pub/sub so that every server instance
// delivers the message to its own local subscribers of the room.
// Local subscribers are served before the message goes out, and the relay drops
// its own messages when they come back from Redis.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
	origin string
}

var _ Publisher = (*RedisRelay)(nil)

func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{
		client: client,
		hub:    hub,
		origin: uuid.NewString(),
	}
}

func (r *RedisRelay) Publish(ctx context.Context, room string, msg Message) error {
	envelope, err := NewEnvelope(room, msg)
	if err != nil {
		return err
	}
	r.hub.Deliver(envelope)

	envelope.Origin = r.origin
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	if err = r.client.Publish(ctx, redisChannelPrefix+room, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	return nil
}

// Run forwards messages from Redis to the local hub until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, redisChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to redis: %w", err)
	}
	log.Info().Str("pattern", redisChannelPrefix+"*").Msg("redis event relay started ✅")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (r *RedisRelay) forward(channel string, payload []byte) {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("dropping malformed relay message")
		return
	}
	if envelope.Origin == r.origin {
		return
	}
	if _, err := envelope.Decode(); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("dropping unknown relay message")
		return
	}

	envelope.Origin = ""
	envelope.Room = strings.TrimPrefix(channel, redisChannelPrefix)
	r.hub.Deliver(envelope)
}
