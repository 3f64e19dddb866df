package rabbitmq

import (
	"context"

	"commerce-service/internal/domain/event"
)

// Listeners handles every consumed event type.
type Listeners interface {
	OrderCreated(ctx context.Context, e event.OrderEvent) error
	OrderStatusChanged(ctx context.Context, e event.OrderEvent) error
	InventoryUpdated(ctx context.Context, e event.InventoryEvent) error
	LowStockAlert(ctx context.Context, e event.InventoryEvent) error
	SendEmail(ctx context.Context, n event.EmailNotification) error
}

// Subscriptions maps each queue of the topology to its listener.
func Subscriptions(l Listeners) []Subscription {
	return []Subscription{
		{Queue: event.OrderCreatedQueue, Handler: JSON(l.OrderCreated)},
		{Queue: event.OrderStatusChangedQueue, Handler: JSON(l.OrderStatusChanged)},
		{Queue: event.InventoryUpdateQueue, Handler: JSON(l.InventoryUpdated)},
		{Queue: event.LowStockAlertQueue, Handler: JSON(l.LowStockAlert)},
		{Queue: event.EmailNotificationQueue, Handler: JSON(l.SendEmail)},
	}
}
