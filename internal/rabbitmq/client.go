package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/config"
	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/messaging/payloads"
	"github.com/GoArmGo/ContentGenius/internal/metrics"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client publishes generation jobs and consumes them on the worker side.
// Failed jobs are parked in a TTL retry queue that dead-letters back into
// the main queue, so every redelivery waits RetryBackoff.
type Client struct {
	conn      *amqp.Connection
	publishCh *amqp.Channel
	consumeCh *amqp.Channel
	publishMu sync.Mutex

	queueName      string
	retryQueueName string
	maxAttempts    int
	retryBackoff   time.Duration
	concurrency    int

	inFlight sync.WaitGroup
	logger   *slog.Logger
}

// NewClient connects to the broker and declares the job and retry queues.
func NewClient(cfg config.RabbitMQConfig, logger *slog.Logger) (*Client, error) {
	c := newClient(cfg, logger)

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: connect: %w", err)
	}
	c.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open publish channel: %w", err)
	}
	c.publishCh = ch

	if err := c.declareTopology(ch); err != nil {
		c.Close()
		return nil, err
	}

	logger.Info("connected to RabbitMQ",
		"queue", c.queueName,
		"retry_queue", c.retryQueueName,
		"max_attempts", c.maxAttempts,
	)
	return c, nil
}

func newClient(cfg config.RabbitMQConfig, logger *slog.Logger) *Client {
	concurrency := cfg.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		queueName:      cfg.QueueName,
		retryQueueName: cfg.QueueName + ".retry",
		maxAttempts:    maxAttempts,
		retryBackoff:   cfg.RetryBackoff,
		concurrency:    concurrency,
		logger:         logger,
	}
}

func (c *Client) declareTopology(ch *amqp.Channel) error {
	q, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue %s: %w", c.queueName, err)
	}

	_, err = ch.QueueDeclare(c.retryQueueName, true, false, false, false, amqp.Table{
		"x-message-ttl":             c.retryBackoff.Milliseconds(),
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": c.queueName,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue %s: %w", c.retryQueueName, err)
	}

	c.logger.Info("queues declared", "queue", q.Name, "messages", q.Messages)
	return nil
}

// Close stops consuming, waits for in-flight jobs and closes the connection.
func (c *Client) Close() error {
	if c.consumeCh != nil {
		if err := c.consumeCh.Close(); err != nil {
			c.logger.Warn("failed to close consume channel", "error", err)
		}
	}
	c.inFlight.Wait()

	if c.publishCh != nil {
		if err := c.publishCh.Close(); err != nil {
			c.logger.Warn("failed to close publish channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("rabbitmq: close connection: %w", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
	return nil
}

// PublishGenerationJob implements ports.GenerationJobPublisher.
func (c *Client) PublishGenerationJob(ctx context.Context, payload payloads.GenerationJobPayload) error {
	return c.publish(ctx, c.queueName, payload)
}

func (c *Client) publish(ctx context.Context, queue string, payload payloads.GenerationJobPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal payload: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	err = c.publishCh.PublishWithContext(publishCtx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish to %s: %w", queue, err)
	}

	c.logger.Debug("job published",
		"queue", queue,
		"generation_id", payload.GenerationID,
		"attempt", payload.Attempt,
	)
	return nil
}

// StartConsumingGenerationJobs implements ports.GenerationJobConsumer. It
// returns once the consumer is registered; deliveries are dispatched in the
// background with at most WorkerConcurrency jobs in flight.
func (c *Client) StartConsumingGenerationJobs(ctx context.Context, handler ports.GenerationJobHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: open consume channel: %w", err)
	}
	if err := ch.Qos(c.concurrency, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("rabbitmq: set prefetch: %w", err)
	}
	msgs, err := ch.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("rabbitmq: register consumer on %s: %w", c.queueName, err)
	}
	c.consumeCh = ch

	c.logger.Info("consumer registered", "queue", c.queueName, "concurrency", c.concurrency)

	limiter := make(chan struct{}, c.concurrency)
	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("delivery channel closed, stopping consumer")
					return
				}
				select {
				case limiter <- struct{}{}:
				case <-ctx.Done():
					_ = msg.Nack(false, true)
					return
				}
				c.inFlight.Add(1)
				go func(msg amqp.Delivery) {
					defer c.inFlight.Done()
					defer func() { <-limiter }()
					// jobs already started run to completion during shutdown
					c.dispatch(context.WithoutCancel(ctx), msg, handler)
				}(msg)
			}
		}
	}()

	return nil
}

func (c *Client) dispatch(ctx context.Context, msg amqp.Delivery, handler ports.GenerationJobHandler) {
	d := c.process(ctx, msg.Body, handler)

	switch d.action {
	case actionAck:
		if err := msg.Ack(false); err != nil {
			c.logger.Error("failed to ack delivery", "error", err)
		}
	case actionRetry:
		if err := c.publish(ctx, c.retryQueueName, d.next); err != nil {
			c.logger.Error("failed to schedule retry, requeueing", "generation_id", d.next.GenerationID, "error", err)
			_ = msg.Nack(false, true)
			return
		}
		metrics.JobRetries.WithLabelValues(d.next.Type).Inc()
		if err := msg.Ack(false); err != nil {
			c.logger.Error("failed to ack delivery", "error", err)
		}
	case actionRequeue:
		_ = msg.Nack(false, true)
	case actionDrop:
		_ = msg.Nack(false, false)
	}
}

type action int

const (
	actionAck action = iota
	actionRetry
	actionRequeue
	actionDrop
)

type decision struct {
	action action
	next   payloads.GenerationJobPayload
}

// process runs one message body through handler and decides what happens
// to the delivery.
func (c *Client) process(ctx context.Context, body []byte, handler ports.GenerationJobHandler) decision {
	var payload payloads.GenerationJobPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("undecodable job dropped", "error", err, "body", string(body))
		return decision{action: actionDrop}
	}
	if err := payload.Validate(); err != nil {
		c.logger.Error("invalid job dropped", "error", err, "body", string(body))
		return decision{action: actionDrop}
	}

	log := c.logger.With("generation_id", payload.GenerationID, "attempt", payload.Attempt)
	start := time.Now()

	err := safeHandle(ctx, handler, payload)
	if err == nil {
		log.Info("job processed", "duration_ms", time.Since(start).Milliseconds())
		return decision{action: actionAck}
	}

	if payload.Attempt < c.maxAttempts {
		log.Warn("job failed, scheduling retry", "error", err, "backoff", c.retryBackoff)
		return decision{action: actionRetry, next: payload.NextAttempt()}
	}

	log.Error("job failed on final attempt", "error", err)
	if ferr := handler.FailGenerationJob(ctx, payload, err); ferr != nil {
		log.Error("failed to record permanent failure", "error", ferr)
		return decision{action: actionRequeue}
	}
	return decision{action: actionAck}
}

func safeHandle(ctx context.Context, handler ports.GenerationJobHandler, payload payloads.GenerationJobPayload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rabbitmq: handler panic: %v", r)
		}
	}()
	return handler.HandleGenerationJob(ctx, payload)
}
