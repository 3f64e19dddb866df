// Package event holds the payloads exchanged over the message broker.
package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchanges, queues and routing keys of the broker topology.
const (
	OrderExchange        = "order.exchange"
	InventoryExchange    = "inventory.exchange"
	NotificationExchange = "notification.exchange"

	OrderCreatedQueue       = "order.created.queue"
	OrderStatusChangedQueue = "order.status.changed.queue"
	InventoryUpdateQueue    = "inventory.update.queue"
	LowStockAlertQueue      = "low.stock.alert.queue"
	EmailNotificationQueue  = "email.notification.queue"

	OrderCreatedKey       = "order.created"
	OrderStatusChangedKey = "order.status.changed"
	InventoryUpdateKey    = "inventory.update"
	LowStockAlertKey      = "low.stock.alert"
	EmailNotificationKey  = "email.notification"
)

// Operation is the kind of stock change an InventoryEvent reports.
type Operation string

const (
	OperationDecrease      Operation = "DECREASE"
	OperationIncrease      Operation = "INCREASE"
	OperationSet           Operation = "SET"
	OperationLowStockAlert Operation = "LOW_STOCK_ALERT"
)

// OrderEvent is published when an order is created or changes status.
type OrderEvent struct {
	OrderID       int64           `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerID    int64           `json:"customerId"`
	CustomerEmail string          `json:"customerEmail"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	EventTime     time.Time       `json:"eventTime"`
}

// InventoryEvent is published on every stock change and low-stock alert.
type InventoryEvent struct {
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	SKU         string    `json:"sku"`
	OldQuantity *int      `json:"oldQuantity,omitempty"`
	NewQuantity int       `json:"newQuantity"`
	Operation   Operation `json:"operation"`
	Reason      string    `json:"reason"`
	EventTime   time.Time `json:"eventTime"`
}

// EmailNotification asks the notification listener to send an email.
type EmailNotification struct {
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	EventType      string `json:"eventType"`
}

// ProcurementAlert is raised for products that need restocking.
type ProcurementAlert struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"currentStock"`
	AlertType    string `json:"alertType"`
	Message      string `json:"message"`
}

// Alert types
const (
	AlertLowStock      = "LOW_STOCK"
	AlertCriticalStock = "CRITICAL_STOCK"
)
