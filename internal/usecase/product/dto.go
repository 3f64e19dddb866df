package product

import (
	"time"

	"github.com/shopspring/decimal"

	domain "commerce-service/internal/domain/product"
)

// CreateProductRequest represents the request payload for creating a new product.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,min=2,max=100"`
	Description   string           `json:"description" validate:"max=1000"`
	SKU           string           `json:"sku" validate:"max=50"`
	Price         decimal.Decimal  `json:"price"`
	Category      string           `json:"category" validate:"required,max=50"`
	StockQuantity int              `json:"stockQuantity" validate:"gte=0"`
	WeightKg      *decimal.Decimal `json:"weightKg"`
	Status        string           `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
}

// UpdateProductRequest applies only the fields that are set.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category" validate:"omitempty,max=50"`
	WeightKg    *decimal.Decimal `json:"weightKg"`
	Status      *string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
}

// FilterRequest narrows active products by category and price range.
type FilterRequest struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Product is the product DTO returned to API clients.
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	Category      string           `json:"category"`
	StockQuantity int              `json:"stockQuantity"`
	SKU           string           `json:"sku"`
	WeightKg      *decimal.Decimal `json:"weightKg,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Version       int64            `json:"version"`
}

// CategoryAverage is the mean price of active products in a category.
type CategoryAverage struct {
	Category     string          `json:"category"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// FromDomain converts a domain product to its DTO.
func FromDomain(p domain.Product) Product {
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		WeightKg:      p.WeightKg,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// FromDomainList converts a slice of domain products.
func FromDomainList(products []domain.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = FromDomain(p)
	}
	return out
}
