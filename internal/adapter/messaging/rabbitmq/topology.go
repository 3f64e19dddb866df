// Package rabbitmq implements event publishing and consumption over AMQP 0-9-1.
package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"commerce-service/internal/domain/event"
)

// Binding routes messages with RoutingKey from Exchange into Queue.
type Binding struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// Exchanges are the topic exchanges the service publishes to.
var Exchanges = []string{
	event.OrderExchange,
	event.InventoryExchange,
	event.NotificationExchange,
}

// Bindings is the queue topology consumed by the service.
var Bindings = []Binding{
	{Exchange: event.OrderExchange, Queue: event.OrderCreatedQueue, RoutingKey: event.OrderCreatedKey},
	{Exchange: event.OrderExchange, Queue: event.OrderStatusChangedQueue, RoutingKey: event.OrderStatusChangedKey},
	{Exchange: event.InventoryExchange, Queue: event.InventoryUpdateQueue, RoutingKey: event.InventoryUpdateKey},
	{Exchange: event.InventoryExchange, Queue: event.LowStockAlertQueue, RoutingKey: event.LowStockAlertKey},
	{Exchange: event.NotificationExchange, Queue: event.EmailNotificationQueue, RoutingKey: event.EmailNotificationKey},
}

type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// DeclareTopology declares durable topic exchanges and queues and binds them.
// Declarations are idempotent, so it is safe to run on every start.
func DeclareTopology(ch declarer) error {
	for _, ex := range Exchanges {
		if err := ch.ExchangeDeclare(ex, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex, err)
		}
	}
	for _, b := range Bindings {
		if _, err := ch.QueueDeclare(b.Queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.Queue, err)
		}
		if err := ch.QueueBind(b.Queue, b.RoutingKey, b.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.Queue, b.Exchange, err)
		}
	}
	return nil
}
