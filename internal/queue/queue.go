package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"joke-bot/internal/config"
	"joke-bot/internal/models"
	"joke-bot/pkg/logger"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const fetchWait = 500 * time.Millisecond

var (
	ErrNotConnected = errors.New("nats connection is closed")

	// ErrUndeliverable marks a handler failure that redelivery cannot fix.
	ErrUndeliverable = errors.New("delivery can never succeed")
)

type NATS struct {
	conn      *nats.Conn
	jetstream nats.JetStreamContext
	cfg       config.NATSConfig
}

func New(cfg config.NATSConfig) (*NATS, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("joke-bot"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to get JetStream: %w", err)
	}

	return &NATS{
		conn:      conn,
		jetstream: js,
		cfg:       cfg,
	}, nil
}

func (n *NATS) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}

// EnsureStream creates the delivery stream unless it already exists.
func (n *NATS) EnsureStream(ctx context.Context) error {
	_, err := n.jetstream.StreamInfo(n.cfg.StreamName, nats.Context(ctx))
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", n.cfg.StreamName, err)
	}

	_, err = n.jetstream.AddStream(&nats.StreamConfig{
		Name:     n.cfg.StreamName,
		Subjects: []string{n.cfg.Subject},
		Storage:  nats.FileStorage,
	}, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", n.cfg.StreamName, err)
	}

	logger.Info("Created delivery stream",
		logger.String("stream", n.cfg.StreamName),
		logger.String("subject", n.cfg.Subject),
	)
	return nil
}

// DeliveryMessage is one digest addressed to one platform.
type DeliveryMessage struct {
	ID        string          `json:"id"`
	Platform  models.Platform `json:"platform"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewDeliveryMessage(platform models.Platform, text string) *DeliveryMessage {
	return &DeliveryMessage{
		ID:        uuid.NewString(),
		Platform:  platform,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

func (n *NATS) PublishDelivery(ctx context.Context, msg *DeliveryMessage) error {
	if n.conn == nil || n.conn.IsClosed() {
		return ErrNotConnected
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	// The message id lets JetStream drop duplicates of a retried publish.
	_, err = n.jetstream.Publish(n.cfg.Subject, data, nats.MsgId(msg.ID), nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to publish delivery: %w", err)
	}

	logger.Debug("Delivery published to queue",
		logger.String("id", msg.ID),
		logger.String("platform", string(msg.Platform)),
	)

	return nil
}

// ConsumeDeliveries pulls deliveries until ctx is done. Messages the handler
// accepts are acked and failed ones are nacked for redelivery. Undecodable
// messages, and those the handler rejects with ErrUndeliverable, are
// terminated.
func (n *NATS) ConsumeDeliveries(ctx context.Context, handler func(context.Context, *DeliveryMessage) error) error {
	sub, err := n.jetstream.PullSubscribe(
		n.cfg.Subject,
		n.cfg.Consumer,
		nats.BindStream(n.cfg.StreamName),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to deliveries: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fetchCtx, cancel := context.WithTimeout(ctx, fetchWait)
		msgs, err := sub.Fetch(10, nats.Context(fetchCtx))
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout) {
				continue
			}
			return fmt.Errorf("failed to fetch deliveries: %w", err)
		}

		for _, msg := range msgs {
			var delivery DeliveryMessage
			if err := json.Unmarshal(msg.Data, &delivery); err != nil {
				logger.Error("Failed to unmarshal delivery message",
					logger.Err(err),
				)
				msg.Term()
				continue
			}

			if err := handler(ctx, &delivery); err != nil {
				logger.Error("Failed to deliver message",
					logger.Err(err),
					logger.String("id", delivery.ID),
					logger.String("platform", string(delivery.Platform)),
				)
				if errors.Is(err, ErrUndeliverable) {
					msg.Term()
				} else {
					msg.Nak()
				}
				continue
			}

			msg.Ack()
		}
	}
}
