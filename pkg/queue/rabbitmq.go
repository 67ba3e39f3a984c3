package queue

import (
	"context"
	"fmt"
	"time"

	"recipe-blog/pkg/config"
	"recipe-blog/pkg/logger"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ModerationExchange  = "moderation"
	ModerationQueueName = "moderation_queue"
)

// Routing keys of moderation events.
const (
	EventCommentSubmitted = "comment_submitted"
	EventCommentApproved  = "comment_approved"
	EventCommentRemoved   = "comment_removed"
	EventPostPublished    = "post_published"
)

// ReviewEvents are the routing keys bound to the moderation queue. Outcome
// events (approved, removed) are published by the moderation service itself
// and stay off its own queue.
var ReviewEvents = []string{EventCommentSubmitted, EventPostPublished}

type ModerationEvent struct {
	Type       string    `json:"type"`
	PostID     string    `json:"post_id"`
	CommentID  string    `json:"comment_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

// topologyChannel is the part of *amqp.Channel used to declare the exchange
// and queue.
type topologyChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	QueueUnbind(name, key, exchange string, args amqp.Table) error
}

func declareTopology(channel topologyChannel) error {
	err := channel.ExchangeDeclare(
		ModerationExchange, // name
		"direct",           // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		ModerationQueueName, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range ReviewEvents {
		if err := channel.QueueBind(ModerationQueueName, key, ModerationExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}
	// Queues declared by older releases also carried the outcome keys.
	for _, key := range []string{EventCommentApproved, EventCommentRemoved} {
		if err := channel.QueueUnbind(ModerationQueueName, key, ModerationExchange, nil); err != nil {
			return fmt.Errorf("failed to unbind queue from %s: %w", key, err)
		}
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishModerationEvent publishes event with its Type as routing key.
func (c *Client) PublishModerationEvent(ctx context.Context, event ModerationEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		ModerationExchange, // exchange
		event.Type,         // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish %s for post_id=%s: %v", event.Type, event.PostID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("[RABBITMQ] Published %s: %s", event.Type, string(body))
	return nil
}

// ConsumeModerationEvents delivers events to handler until the channel closes.
// Messages the handler fails on are requeued; undecodable ones are dropped.
func (c *Client) ConsumeModerationEvents(handler func(event ModerationEvent) error) error {
	msgs, err := c.channel.Consume(
		ModerationQueueName, // queue
		"",                  // consumer
		false,               // auto-ack
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,                 // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from %s", ModerationQueueName)

	go func() {
		for msg := range msgs {
			var event ModerationEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal moderation event: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for %s (post_id=%s): %v", event.Type, event.PostID, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

// QueueLength returns the number of messages waiting in the moderation queue.
func (c *Client) QueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(ModerationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
