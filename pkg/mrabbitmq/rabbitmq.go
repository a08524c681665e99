// Package mrabbitmq is the connection hub for the durable event stream's
// broker: one long-lived connection and channel per node, shared by the
// publish side (master) and the consume side (replicas).
package mrabbitmq

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/rustperms/rustperms/pkg/mlog"
)

// RabbitMQConnection holds a singleton connection and channel to the broker.
type RabbitMQConnection struct {
	ConnectionStringSource string
	Logger                 mlog.Logger

	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// Connect dials the broker and opens the shared channel.
func (rc *RabbitMQConnection) Connect(_ context.Context) error {
	conn, err := amqp091.Dial(rc.ConnectionStringSource)
	if err != nil {
		rc.Logger.Errorf("mrabbitmq: dial failed: %v", err)

		return fmt.Errorf("mrabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		rc.Logger.Errorf("mrabbitmq: open channel failed: %v", err)
		conn.Close()

		return fmt.Errorf("mrabbitmq: open channel: %w", err)
	}

	rc.conn = conn
	rc.channel = ch

	return nil
}

// GetChannel returns the shared channel, connecting first if needed.
func (rc *RabbitMQConnection) GetChannel(ctx context.Context) (*amqp091.Channel, error) {
	if rc.channel == nil || rc.channel.IsClosed() {
		if err := rc.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return rc.channel, nil
}

// HealthCheck reports whether the broker connection is currently usable.
func (rc *RabbitMQConnection) HealthCheck() bool {
	return rc.conn != nil && !rc.conn.IsClosed() &&
		rc.channel != nil && !rc.channel.IsClosed()
}
