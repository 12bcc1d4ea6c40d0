package queue

import (
	"context"
	"errors"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// AMQPConsumer forwards send deltas from a RabbitMQ queue onto the
// in-process bus.
type AMQPConsumer struct {
	URL       string
	QueueName string
	Bus       Queue
	Log       *zap.Logger
}

// Run consumes until ctx is done or the broker closes the channel.
func (c *AMQPConsumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		c.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	c.Log.Info("consuming send updates", zap.String("queue", q.Name))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("amqp delivery channel closed")
			}
			c.Handle(d)
		}
	}
}

// Handle publishes one delivery. Malformed bodies are acked and dropped;
// a bus failure requeues the delivery.
func (c *AMQPConsumer) Handle(d amqp.Delivery) {
	deltas, err := DecodeDeltas(d.Body)
	if err != nil {
		c.Log.Warn("dropping invalid send update", zap.Error(err))
		_ = d.Ack(false)
		return
	}
	for _, delta := range deltas {
		if err := c.Bus.Publish(TopicSendUpdates, delta); err != nil {
			c.Log.Error("failed to publish send update", zap.String("send_id", delta.ID), zap.Error(err))
			_ = d.Nack(false, true)
			return
		}
	}
	_ = d.Ack(false)
}
