package order

import (
	"time"

	"github.com/shopspring/decimal"

	domain "commerce-service/internal/domain/order"
)

// CreateOrderRequest represents the request payload for placing an order.
type CreateOrderRequest struct {
	CustomerID      int64           `json:"customerId" validate:"required,gt=0"`
	ShippingAddress string          `json:"shippingAddress" validate:"max=500"`
	Notes           string          `json:"notes" validate:"max=500"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Items           []ItemRequest   `json:"orderItems" validate:"required,min=1,dive"`
}

// ItemRequest is one requested order line. The unit price is always taken
// from the current product price.
type ItemRequest struct {
	ProductID      int64           `json:"productId" validate:"required,gt=0"`
	Quantity       int             `json:"quantity" validate:"required,min=1"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// Order is the order DTO returned to API clients.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerID      int64           `json:"customerId"`
	CustomerEmail   string          `json:"customerEmail,omitempty"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	OrderDate       time.Time       `json:"orderDate"`
	ShippedAt       *time.Time      `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Version         int64           `json:"version"`
	Items           []Item          `json:"items"`
}

// Item is one order line of the Order DTO.
type Item struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"productId"`
	ProductName    string          `json:"productName,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// DailySales is one row of the daily sales report.
type DailySales struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// Revenue is the delivered revenue over a period.
type Revenue struct {
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status        string          `json:"status"`
	Count         int64           `json:"count"`
	AverageAmount decimal.Decimal `json:"averageAmount"`
}

// ProductSales is one row of the top products report.
type ProductSales struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// FromDomain converts a domain order to its DTO.
func FromDomain(o domain.Order) Order {
	out := Order{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		CustomerEmail:   o.CustomerEmail,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingCost:    o.ShippingCost,
		TaxAmount:       o.TaxAmount,
		DiscountAmount:  o.DiscountAmount,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		OrderDate:       o.CreatedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
		Items:           make([]Item, len(o.Items)),
	}
	for i, it := range o.Items {
		out.Items[i] = Item{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
			Subtotal:       it.Subtotal,
		}
	}
	return out
}

// FromDomainList converts a slice of domain orders.
func FromDomainList(orders []domain.Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = FromDomain(o)
	}
	return out
}
