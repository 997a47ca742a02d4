package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"upload-gate/internal/config"
	"upload-gate/internal/core/port"
)

// Consumer consumes bucket notifications from a JetStream stream
type Consumer struct {
	logger  *slog.Logger
	conn    *nats.Conn
	js      jetstream.JetStream
	config  config.NATSConfig
	consume jetstream.ConsumeContext
}

// NewConsumer creates a new consumer
func NewConsumer(cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {

	opts := []nats.Option{
		nats.Name(cfg.ConsumerName),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// Subscribe attaches a durable consumer and dispatches every message to handler.
// Handler errors are Nak'd so the server redelivers up to MaxDeliver times.
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	consumerCfg := jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: n.config.Subject,
		AckWait:       10 * time.Second,
		MaxDeliver:    5,
		BackOff:       []time.Duration{100 * time.Millisecond, 200 * time.Millisecond},
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerCfg)
	if err != nil {
		return err
	}

	consume, err := cons.Consume(func(msg jetstream.Msg) {
		if handleErr := handler.HandleMessage(ctx, msg.Data()); handleErr != nil {
			n.logger.Warn("failed to handle message", "subject", msg.Subject(), "error", handleErr)
			if nakErr := msg.Nak(); nakErr != nil {
				n.logger.Error("failed to nak message", "error", nakErr)
			}
			return
		}
		if ackErr := msg.Ack(); ackErr != nil {
			n.logger.Error("failed to ack message", "error", ackErr)
		}
	})
	if err != nil {
		return err
	}

	n.consume = consume
	n.logger.Info("NATS subscription started", "stream", n.config.StreamName, "subject", n.config.Subject)
	return nil
}

// Close graceful shutdown
func (n *Consumer) Close() error {
	if n.consume != nil {
		n.consume.Drain()
	}

	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
