// Package eventstream implements the durable event stream: the master
// publishes every accepted delta, with its monotonic sequence number, onto
// a single durable subject; replicas tail it with a push consumer and apply
// each delta exactly as it arrives.
//
// Built over github.com/rabbitmq/amqp091-go (pkg/mrabbitmq.RabbitMQConnection)
// as a durable fanout exchange. RabbitMQ has no broker-side
// replay-from-offset concept for a fanout exchange, so "deliver only what's
// new" is approximated at the client: a replica declares its own exclusive
// queue and binds it to the exchange only at consumer-creation time, after
// it has already read a snapshot, so the broker never delivers anything
// published before that bind -- and every delivered delta still carries a
// Sequence the replica filters against its snapshot's sequence.
package eventstream

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/rustperms/rustperms/pkg/mlog"
	"github.com/rustperms/rustperms/pkg/mrabbitmq"
	"github.com/rustperms/rustperms/pkg/rperrors"
)

// ExchangeName is the single durable subject every delta is published to.
const ExchangeName = "rustperms.deltas"

// Envelope is the message carried on the stream: a delta plus the
// publish-order sequence number a replica uses to filter stale redelivery
// across the snapshot/stream bootstrap race.
type Envelope struct {
	Sequence        uint64 `msgpack:"sequence"`
	SerializedDelta string `msgpack:"serialized_delta"`
}

// Publisher publishes accepted deltas onto the exchange. Used exclusively
// by the master; at-least-once is achieved by publishing as
// a persistent message after the delta has already committed to the
// relational store (see pkg/rustperms/reflector and internal/master).
type Publisher struct {
	Conn   *mrabbitmq.RabbitMQConnection
	Logger mlog.Logger
}

// NewPublisher returns a Publisher backed by conn, declaring the durable
// fanout exchange deltas are published to.
func NewPublisher(ctx context.Context, conn *mrabbitmq.RabbitMQConnection, logger mlog.Logger) (*Publisher, error) {
	ch, err := conn.GetChannel(ctx)
	if err != nil {
		return nil, err
	}

	if err := ch.ExchangeDeclare(ExchangeName, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_event_stream")
	}

	return &Publisher{Conn: conn, Logger: logger}, nil
}

// Publish sends serializedDelta with sequence seq as a persistent message,
// so the broker retains it across restarts until every durable queue bound
// to the exchange has consumed and acked it (at-least-once delivery).
func (p *Publisher) Publish(ctx context.Context, seq uint64, serializedDelta string) error {
	ch, err := p.Conn.GetChannel(ctx)
	if err != nil {
		return err
	}

	body, err := msgpack.Marshal(Envelope{Sequence: seq, SerializedDelta: serializedDelta})
	if err != nil {
		return rperrors.ValidateInternalError(err, "rustperms_event_stream")
	}

	err = ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp091.Publishing{
		ContentType:  "application/msgpack",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		p.Logger.Errorf("eventstream: publish failed for sequence %d: %v", seq, err)
		return rperrors.ValidateInternalError(err, "rustperms_event_stream")
	}

	return nil
}

// Handler processes one delivered envelope. Returning a non-nil error
// nacks and requeues the delivery; a nil error acks it.
type Handler func(ctx context.Context, env Envelope) error

// Consumer tails the exchange from the moment it was created (see package
// doc). Used by replicas.
type Consumer struct {
	Conn      *mrabbitmq.RabbitMQConnection
	Logger    mlog.Logger
	QueueName string
}

// NewConsumer declares a fresh exclusive queue bound to the exchange and
// returns a Consumer for it. Call this only after the replica has already
// read its bootstrap snapshot, per the "deliver new" approximation
// documented on the package.
func NewConsumer(ctx context.Context, conn *mrabbitmq.RabbitMQConnection, replicaID string, logger mlog.Logger) (*Consumer, error) {
	ch, err := conn.GetChannel(ctx)
	if err != nil {
		return nil, err
	}

	if err := ch.ExchangeDeclare(ExchangeName, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_event_stream")
	}

	queueName := "rustperms.replica." + replicaID
	queue, err := ch.QueueDeclare(queueName, false, true, true, false, nil)
	if err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_event_stream")
	}

	if err := ch.QueueBind(queue.Name, "", ExchangeName, false, nil); err != nil {
		return nil, rperrors.ValidateInternalError(err, "rustperms_event_stream")
	}

	return &Consumer{Conn: conn, Logger: logger, QueueName: queue.Name}, nil
}

// Run tails the queue until ctx is cancelled, applying h to every delivery
// and acking only on success. Deliveries h rejects are nacked with requeue,
// matching the stream's at-least-once, explicit-ack contract.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	ch, err := c.Conn.GetChannel(ctx)
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.QueueName, "", false, true, false, false, nil)
	if err != nil {
		return rperrors.ValidateInternalError(err, "rustperms_event_stream")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			var env Envelope
			if err := msgpack.Unmarshal(d.Body, &env); err != nil {
				c.Logger.Errorf("eventstream: malformed delivery, dropping: %v", err)
				_ = d.Ack(false)

				continue
			}

			if err := h(ctx, env); err != nil {
				c.Logger.Errorf("eventstream: handler failed for sequence %d, requeuing: %v", env.Sequence, err)
				_ = d.Nack(false, true)

				continue
			}

			_ = d.Ack(false)
		}
	}
}
