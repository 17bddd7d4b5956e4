package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// DefaultExchange is the topic exchange domain events are published to.
const DefaultExchange = "devcamper.events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger

	// amqp.Channel is not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// NewClient connects to RabbitMQ, opens a channel and declares the topic exchange.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log := logger.Named("RabbitMQ")
	log.Info("RabbitMQ client connected", zap.String("exchange", cfg.Exchange))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   log,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish marshals payload to JSON and publishes it with the given routing key.
func (c *Client) Publish(ctx context.Context, routingKey string, payload any) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", routingKey, err)
	}

	c.mu.Lock()
	err = c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", routingKey, err)
	}

	c.logger.Debug("Event published", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// Consume binds a durable queue to the exchange with bindingKey and hands
// every delivery to handler until ctx is cancelled. Deliveries whose handler
// fails are nacked without requeue so a poison message cannot loop forever.
func (c *Client) Consume(ctx context.Context, queue, bindingKey string, handler func(amqp.Delivery) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	q, err := c.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := c.channel.QueueBind(q.Name, bindingKey, c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consuming events", zap.String("queue", q.Name), zap.String("binding_key", bindingKey))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := handler(msg); err != nil {
					c.logger.Warn("Error processing event", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
					if nackErr := msg.Nack(false, false); nackErr != nil {
						c.logger.Error("Error nacking event", zap.Uint64("tag", msg.DeliveryTag), zap.Error(nackErr))
					}
					continue
				}
				if ackErr := msg.Ack(false); ackErr != nil {
					c.logger.Error("Error acking event", zap.Uint64("tag", msg.DeliveryTag), zap.Error(ackErr))
				}
			}
		}
	}()

	return nil
}

// AuditHandler returns a handler that logs every event it receives.
func AuditHandler(logger *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		if !json.Valid(msg.Body) {
			return fmt.Errorf("event %s has a non-JSON body", msg.RoutingKey)
		}
		logger.Info("Audit event",
			zap.String("routing_key", msg.RoutingKey),
			zap.Time("published_at", msg.Timestamp),
			zap.ByteString("payload", msg.Body),
		)
		return nil
	}
}
