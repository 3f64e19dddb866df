package customer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"commerce-service/internal/domain/page"
)

// Usecase defines the interface for customer business logic operations.
type Usecase interface {
	CreateCustomer(ctx context.Context, in CreateCustomerRequest) (*Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in UpdateCustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	SearchCustomers(ctx context.Context, name string, req page.Request) (page.Page[Customer], error)
	ListCustomers(ctx context.Context, req page.Request) (page.Page[Customer], error)
	ListCustomersByType(ctx context.Context, customerType string) ([]Customer, error)
	ActiveCustomers(ctx context.Context, start, end time.Time, minOrders int) ([]Customer, error)
	HighValueCustomers(ctx context.Context, minAmount decimal.Decimal, since time.Time) ([]Customer, error)
	CustomersByTotalSpending(ctx context.Context, total decimal.Decimal) ([]Customer, error)
	CountNewCustomersSince(ctx context.Context, since time.Time) (int64, error)
	CustomerOrderCount(ctx context.Context, id int64) (int64, error)
}
