package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// IsTerminal reports whether no further status change is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order is a customer purchase with its line items.
type Order struct {
	ID              int64
	OrderNumber     string
	CustomerID      int64
	CustomerEmail   string
	Status          Status
	TotalAmount     decimal.Decimal
	ShippingCost    decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	ShippingAddress string
	Notes           string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	Items           []Item
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Item is one order line.
type Item struct {
	ID             int64
	OrderID        int64
	ProductID      int64
	ProductName    string
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
}

// CalculateSubtotal returns unitPrice*quantity - discount.
func (i Item) CalculateSubtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Sub(i.DiscountAmount)
}

// CalculateTotal returns the sum of item subtotals plus shipping and tax, minus the order discount.
func (o Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	return total.Add(o.ShippingCost).Add(o.TaxAmount).Sub(o.DiscountAmount)
}

// DailySales aggregates orders created on one calendar day.
type DailySales struct {
	Date       time.Time
	OrderCount int64
	Revenue    decimal.Decimal
}

// StatusCount is the number of orders in a status and their average total.
type StatusCount struct {
	Status        Status
	Count         int64
	AverageAmount decimal.Decimal
}

// ProductSales aggregates sold quantity and revenue for a product.
type ProductSales struct {
	ProductID   int64
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
}
