package inventory

import (
	"context"

	"commerce-service/internal/domain/event"
	domain "commerce-service/internal/domain/product"
	"commerce-service/internal/usecase/product"
)

// Usecase defines the stock management operations.
type Usecase interface {
	GetStock(ctx context.Context, productID int64) (*StockLevel, error)
	Reserve(ctx context.Context, productID int64, qty int, reason string) (*StockLevel, error)
	Release(ctx context.Context, productID int64, qty int, reason string) error
	UpdateStock(ctx context.Context, productID int64, qty int, reason string) (*StockLevel, error)
	LowStock(ctx context.Context) ([]product.Product, error)
	SweepLowStock(ctx context.Context) (int, error)
	PublishStockChanges(ctx context.Context, changes []domain.StockChange, op event.Operation, reason string)
}
