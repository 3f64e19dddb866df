package product

import (
	"context"

	"commerce-service/internal/domain/page"
)

// Usecase defines the interface for product business logic operations.
type Usecase interface {
	CreateProduct(ctx context.Context, in CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, in UpdateProductRequest) (*Product, error)
	UpdateProductStatus(ctx context.Context, id int64, status string) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)
	ListProducts(ctx context.Context, req page.Request) (page.Page[Product], error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	ListByStatus(ctx context.Context, status string) ([]Product, error)
	SearchActive(ctx context.Context, name string, req page.Request) (page.Page[Product], error)
	FilterActive(ctx context.Context, f FilterRequest, req page.Request) (page.Page[Product], error)
	Categories(ctx context.Context) ([]string, error)
	AveragePriceByCategory(ctx context.Context) ([]CategoryAverage, error)
	BestSelling(ctx context.Context, limit int) ([]Product, error)
}
