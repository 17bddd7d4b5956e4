package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes JSON events on a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(url, appName string, logger *zap.Logger) (*NATSPublisher, error) {
	log := logger.Named("NATSPublisher")
	opts := []nats.Option{
		nats.Name(appName + " publisher"),
		nats.Timeout(10 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("Connected to NATS", zap.String("url", conn.ConnectedUrl()))
	return &NATSPublisher{conn: conn, logger: log}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal data for subject %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}
	p.logger.Debug("Message published", zap.String("subject", subject), zap.Int("data_size_bytes", len(data)))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
