package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"commerce-service/pkg/metrics"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends persistent JSON messages. AMQP channels are not safe for
// concurrent publishing, so calls are serialized.
type Publisher struct {
	mu  sync.Mutex
	ch  publishChannel
	log *zap.Logger
}

// NewPublisher creates a Publisher on ch.
func NewPublisher(ch publishChannel, log *zap.Logger) *Publisher {
	return &Publisher{ch: ch, log: log}
}

// Publish marshals payload as JSON and publishes it to exchange with routingKey.
func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordEventPublished(routingKey, err)
		return fmt.Errorf("marshal %s payload: %w", routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         routingKey,
		Body:         body,
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
	p.mu.Unlock()

	metrics.RecordEventPublished(routingKey, err)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", routingKey, exchange, err)
	}

	p.log.Debug("event published",
		zap.String("exchange", exchange),
		zap.String("routing_key", routingKey),
		zap.String("message_id", msg.MessageId))
	return nil
}
