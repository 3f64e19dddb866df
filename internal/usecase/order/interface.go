package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"commerce-service/internal/domain/page"
)

// Usecase defines the interface for order business logic operations.
type Usecase interface {
	CreateOrder(ctx context.Context, in CreateOrderRequest) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*Order, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*Order, error)
	ListOrders(ctx context.Context, req page.Request) (page.Page[Order], error)
	OrdersByCustomer(ctx context.Context, customerID int64, req page.Request) (page.Page[Order], error)
	OrdersByDateRange(ctx context.Context, start, end time.Time, req page.Request) (page.Page[Order], error)
	HighValueOrders(ctx context.Context, minAmount decimal.Decimal) ([]Order, error)
	DailySales(ctx context.Context, since time.Time) ([]DailySales, error)
	Revenue(ctx context.Context, start, end time.Time) (*Revenue, error)
	StatusStatistics(ctx context.Context, since time.Time) ([]StatusCount, error)
	TopSellingProducts(ctx context.Context, since time.Time, limit int) ([]ProductSales, error)
}
