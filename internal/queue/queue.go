package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/streamtube/streamtube/internal/config"
	"github.com/streamtube/streamtube/pkg/models"
)

const (
	CleanupQueueName = "asset_cleanup"
	ExchangeName     = "streamtube"
)

// Queue carries fire-and-forget asset-cleanup tasks from the API to the
// worker. Nothing on the request path waits for a cleanup to complete.
type Queue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// New creates a new queue client
func New(cfg config.QueueConfig) (*Queue, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Vhost)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange
	err = channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		CleanupQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Bind queue to exchange
	err = channel.QueueBind(
		CleanupQueueName,
		CleanupQueueName,
		ExchangeName,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &Queue{
		conn:    conn,
		channel: channel,
	}, nil
}

// Close closes the queue connection
func (q *Queue) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// PublishCleanup publishes an asset-cleanup task
func (q *Queue) PublishCleanup(ctx context.Context, task *models.CleanupTask) error {
	if task.RequestedAt.IsZero() {
		task.RequestedAt = time.Now()
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal cleanup task: %w", err)
	}

	err = q.channel.PublishWithContext(ctx,
		ExchangeName,
		CleanupQueueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish cleanup task: %w", err)
	}

	return nil
}

// ConsumeCleanup starts consuming cleanup tasks. Handler errors are the
// handler's problem to log; tasks are acked either way because cleanup is
// best-effort and a stale object is preferable to a poison message.
func (q *Queue) ConsumeCleanup(ctx context.Context, handler func(*models.CleanupTask) error) error {
	err := q.channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := q.channel.Consume(
		CleanupQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var task models.CleanupTask
				if err := json.Unmarshal(msg.Body, &task); err != nil {
					msg.Nack(false, false)
					continue
				}

				_ = handler(&task)
				msg.Ack(false)
			}
		}
	}()

	return nil
}

// Depth returns the number of pending cleanup tasks
func (q *Queue) Depth() (int, error) {
	info, err := q.channel.QueueInspect(CleanupQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return info.Messages, nil
}
