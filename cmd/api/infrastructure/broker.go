package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"commerce-service/internal/adapter/messaging/rabbitmq"
	"commerce-service/internal/config"
)

// NewBroker connects to RabbitMQ and declares the exchanges, queues and bindings.
func NewBroker(cfg *config.Config, l *zap.Logger) (*rabbitmq.Broker, error) {
	broker, err := rabbitmq.Dial(cfg.RabbitMQ.URL, l)
	if err != nil {
		return nil, err
	}

	ch, err := broker.Channel()
	if err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("failed to open topology channel: %w", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareTopology(ch); err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("failed to declare topology: %w", err)
	}

	return broker, nil
}

// BrokerHealth adapts Broker.Healthy to a health check.
func BrokerHealth(b *rabbitmq.Broker) func(ctx context.Context) error {
	return func(context.Context) error {
		if !b.Healthy() {
			return errors.New("rabbitmq connection closed")
		}
		return nil
	}
}
