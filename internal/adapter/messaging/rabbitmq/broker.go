package rabbitmq

import (
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Broker owns the AMQP connection and hands out channels.
type Broker struct {
	mu   sync.Mutex
	conn *amqp.Connection
	log  *zap.Logger
}

// Dial connects to the broker at url and logs when the connection drops.
func Dial(url string, log *zap.Logger) (*Broker, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: amqp.Table{"connection_name": "commerce-service"},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	b := &Broker{conn: conn, log: log}
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if err, ok := <-closed; ok && err != nil {
			log.Error("rabbitmq connection closed", zap.String("reason", err.Reason), zap.Int("code", err.Code))
		}
	}()

	log.Info("connected to rabbitmq")
	return b, nil
}

// Channel opens a new channel on the connection.
func (b *Broker) Channel() (*amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil || b.conn.IsClosed() {
		return nil, errors.New("rabbitmq connection is closed")
	}
	return b.conn.Channel()
}

// Healthy reports whether the connection is open.
func (b *Broker) Healthy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil && !b.conn.IsClosed()
}

// Close closes the connection and every channel opened on it.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}
	b.log.Info("closing rabbitmq connection")
	return b.conn.Close()
}
