// Package notification reacts to order and inventory events: it turns order
// events into customer emails, audits stock changes and raises procurement
// alerts for low stock.
package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"commerce-service/internal/domain/event"
)

// Email event types
const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// Publisher sends a JSON payload to an exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, payload any) error
}

// Sender delivers an email notification.
type Sender interface {
	Send(ctx context.Context, n event.EmailNotification) error
}

// Service implements the event listeners.
type Service struct {
	publisher Publisher
	sender    Sender
	critical  int
	log       *zap.Logger
}

// New creates a notification Service. Low-stock alerts at or below
// criticalThreshold are classified as critical.
func New(p Publisher, s Sender, criticalThreshold int, log *zap.Logger) *Service {
	return &Service{publisher: p, sender: s, critical: criticalThreshold, log: log}
}

// OrderCreated queues an order confirmation email for the customer.
func (s *Service) OrderCreated(ctx context.Context, e event.OrderEvent) error {
	s.log.Info("processing order created event",
		zap.String("order_number", e.OrderNumber),
		zap.String("customer_email", e.CustomerEmail))

	return s.queueEmail(ctx, event.EmailNotification{
		RecipientEmail: e.CustomerEmail,
		Subject:        "Order Confirmation - " + e.OrderNumber,
		Message: fmt.Sprintf("Your order %s has been created successfully. Total amount: $%s",
			e.OrderNumber, e.TotalAmount.StringFixed(2)),
		EventType: EventOrderCreated,
	})
}

// OrderStatusChanged queues a status update email for the customer.
func (s *Service) OrderStatusChanged(ctx context.Context, e event.OrderEvent) error {
	s.log.Info("processing order status change event",
		zap.String("order_number", e.OrderNumber),
		zap.String("status", e.Status))

	msg := fmt.Sprintf("Your order %s status has been updated to: %s", e.OrderNumber, e.Status)
	switch e.Status {
	case "SHIPPED":
		msg += ". Your order is on its way!"
	case "DELIVERED":
		msg += ". Thank you for your business!"
	case "CANCELLED":
		msg += ". If you have any questions, please contact support."
	}

	return s.queueEmail(ctx, event.EmailNotification{
		RecipientEmail: e.CustomerEmail,
		Subject:        "Order Update - " + e.OrderNumber,
		Message:        msg,
		EventType:      EventOrderStatusChanged,
	})
}

func (s *Service) queueEmail(ctx context.Context, n event.EmailNotification) error {
	if n.RecipientEmail == "" {
		s.log.Warn("skipping email without recipient", zap.String("subject", n.Subject))
		return nil
	}
	if err := s.publisher.Publish(ctx, event.NotificationExchange, event.EmailNotificationKey, n); err != nil {
		s.log.Error("failed to queue email notification", zap.String("subject", n.Subject), zap.Error(err))
		return err
	}
	s.log.Info("email notification queued", zap.String("subject", n.Subject))
	return nil
}

// InventoryUpdated writes an audit record of a stock change.
func (s *Service) InventoryUpdated(_ context.Context, e event.InventoryEvent) error {
	fields := []zap.Field{
		zap.String("audit", "INVENTORY_CHANGE"),
		zap.Int64("product_id", e.ProductID),
		zap.String("product", e.ProductName),
		zap.String("sku", e.SKU),
		zap.String("operation", string(e.Operation)),
		zap.Int("new", e.NewQuantity),
		zap.String("reason", e.Reason),
		zap.Time("event_time", e.EventTime),
	}
	if e.OldQuantity != nil {
		fields = append(fields, zap.Int("old", *e.OldQuantity))
	}
	s.log.Info("inventory change", fields...)
	return nil
}

// LowStockAlert builds a procurement alert for the product and logs it.
// Stock at or below the critical threshold is logged as critical.
func (s *Service) LowStockAlert(_ context.Context, e event.InventoryEvent) error {
	alert := s.procurementAlert(e)

	s.log.Warn("low stock alert",
		zap.Int64("product_id", alert.ProductID),
		zap.String("sku", alert.SKU),
		zap.Int("current_stock", alert.CurrentStock),
		zap.String("alert_type", alert.AlertType),
		zap.String("message", alert.Message))

	if alert.AlertType == event.AlertCriticalStock {
		s.log.Error("CRITICAL: product has reached critical stock level",
			zap.String("sku", alert.SKU),
			zap.Int("current_stock", alert.CurrentStock))
	}
	return nil
}

func (s *Service) procurementAlert(e event.InventoryEvent) event.ProcurementAlert {
	alertType := event.AlertLowStock
	if e.NewQuantity <= s.critical {
		alertType = event.AlertCriticalStock
	}
	return event.ProcurementAlert{
		ProductID:    e.ProductID,
		ProductName:  e.ProductName,
		SKU:          e.SKU,
		CurrentStock: e.NewQuantity,
		AlertType:    alertType,
		Message: fmt.Sprintf("Urgent: Product %s (%s) is running low. Only %d units remaining.",
			e.ProductName, e.SKU, e.NewQuantity),
	}
}

// SendEmail delivers a queued email notification.
func (s *Service) SendEmail(ctx context.Context, n event.EmailNotification) error {
	s.log.Info("processing email notification",
		zap.String("subject", n.Subject),
		zap.String("recipient", n.RecipientEmail))
	return s.sender.Send(ctx, n)
}
