package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	amqpExchange         = "postboard.events"
	amqpRoutingKeyPrefix = "room."
)

// AMQPRelay is the RabbitMQ counterpart of RedisRelay. Each instance binds an
// exclusive queue to a topic exchange and feeds its local hub from it.
type AMQPRelay struct {
	publishCh *amqp.Channel
	consumeCh *amqp.Channel
	hub       *Hub
	origin    string
}

var _ Publisher = (*AMQPRelay)(nil)

func NewAMQPRelay(conn *amqp.Connection, hub *Hub) (*AMQPRelay, error) {
	publishCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	consumeCh, err := conn.Channel()
	if err != nil {
		publishCh.Close()
		return nil, fmt.Errorf("failed to open consume channel: %w", err)
	}

	err = publishCh.ExchangeDeclare(
		amqpExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		publishCh.Close()
		consumeCh.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", amqpExchange, err)
	}

	return &AMQPRelay{
		publishCh: publishCh,
		consumeCh: consumeCh,
		hub:       hub,
		origin:    uuid.NewString(),
	}, nil
}

func (r *AMQPRelay) Publish(ctx context.Context, room string, msg Message) error {
	envelope, err := NewEnvelope(room, msg)
	if err != nil {
		return err
	}
	r.hub.Deliver(envelope)

	envelope.Origin = r.origin
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	err = r.publishCh.PublishWithContext(ctx,
		amqpExchange,
		amqpRoutingKeyPrefix+room,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %s: %w", amqpExchange, err)
	}

	return nil
}

// Run consumes the instance queue and forwards messages to the local hub until ctx is done.
func (r *AMQPRelay) Run(ctx context.Context) error {
	q, err := r.consumeCh.QueueDeclare(
		"",
		false,
		true,
		true,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare relay queue: %w", err)
	}

	if err = r.consumeCh.QueueBind(q.Name, amqpRoutingKeyPrefix+"#", amqpExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind relay queue: %w", err)
	}

	deliveries, err := r.consumeCh.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume relay queue: %w", err)
	}
	log.Info().Str("exchange", amqpExchange).Str("queue", q.Name).Msg("amqp event relay started ✅")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			r.forward(d.RoutingKey, d.Body)
		}
	}
}

func (r *AMQPRelay) forward(routingKey string, body []byte) {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Msg("dropping malformed relay message")
		return
	}
	if envelope.Origin == r.origin {
		return
	}
	if _, err := envelope.Decode(); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Msg("dropping unknown relay message")
		return
	}

	envelope.Origin = ""
	r.hub.Deliver(envelope)
}

// Close releases both channels. The connection is owned by the caller.
func (r *AMQPRelay) Close() error {
	if err := r.publishCh.Close(); err != nil {
		return err
	}
	return r.consumeCh.Close()
}
