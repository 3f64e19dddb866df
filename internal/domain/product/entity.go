package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a product.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusDiscontinued:
		return Status(s), true
	}
	return "", false
}

// Product represents a sellable item with its stock level.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	Category      string
	StockQuantity int
	SKU           string // Unique across products
	WeightKg      *decimal.Decimal
	Status        Status
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategoryAverage is the mean price of the products in a category.
type CategoryAverage struct {
	Category     string
	AveragePrice decimal.Decimal
}

// StockChange records a product's stock level before and after a mutation.
type StockChange struct {
	Product     Product // Product as it is after the change
	OldQuantity int
}

// Filter narrows active products by category and price range.
type Filter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
