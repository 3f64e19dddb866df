package handler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"commerce-service/internal/domain/event"
	"commerce-service/internal/domain/page"
	domainproduct "commerce-service/internal/domain/product"
	"commerce-service/internal/usecase/customer"
	"commerce-service/internal/usecase/inventory"
	"commerce-service/internal/usecase/order"
	"commerce-service/internal/usecase/product"
)

// MockCustomerUsecase is a mock implementation of customer.Usecase
type MockCustomerUsecase struct {
	mock.Mock
}

func (m *MockCustomerUsecase) CreateCustomer(ctx context.Context, in customer.CreateCustomerRequest) (*customer.Customer, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) UpdateCustomer(ctx context.Context, id int64, in customer.UpdateCustomerRequest) (*customer.Customer, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) DeleteCustomer(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerUsecase) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) GetCustomerByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) SearchCustomers(ctx context.Context, name string, req page.Request) (page.Page[customer.Customer], error) {
	args := m.Called(ctx, name, req)
	return args.Get(0).(page.Page[customer.Customer]), args.Error(1)
}

func (m *MockCustomerUsecase) ListCustomers(ctx context.Context, req page.Request) (page.Page[customer.Customer], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(page.Page[customer.Customer]), args.Error(1)
}

func (m *MockCustomerUsecase) ListCustomersByType(ctx context.Context, customerType string) ([]customer.Customer, error) {
	args := m.Called(ctx, customerType)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) ActiveCustomers(ctx context.Context, start, end time.Time, minOrders int) ([]customer.Customer, error) {
	args := m.Called(ctx, start, end, minOrders)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) HighValueCustomers(ctx context.Context, minAmount decimal.Decimal, since time.Time) ([]customer.Customer, error) {
	args := m.Called(ctx, minAmount, since)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) CustomersByTotalSpending(ctx context.Context, total decimal.Decimal) ([]customer.Customer, error) {
	args := m.Called(ctx, total)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerUsecase) CountNewCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerUsecase) CustomerOrderCount(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductUsecase is a mock implementation of product.Usecase
type MockProductUsecase struct {
	mock.Mock
}

func (m *MockProductUsecase) CreateProduct(ctx context.Context, in product.CreateProductRequest) (*product.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductUsecase) UpdateProduct(ctx context.Context, id int64, in product.UpdateProductRequest) (*product.Product, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductUsecase) UpdateProductStatus(ctx context.Context, id int64, status string) (*product.Product, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductUsecase) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductUsecase) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductUsecase) GetProductBySKU(ctx context.Context, sku string) (*product.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductUsecase) ListProducts(ctx context.Context, req page.Request) (page.Page[product.Product], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(page.Page[product.Product]), args.Error(1)
}

func (m *MockProductUsecase) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductUsecase) ListByStatus(ctx context.Context, status string) ([]product.Product, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductUsecase) SearchActive(ctx context.Context, name string, req page.Request) (page.Page[product.Product], error) {
	args := m.Called(ctx, name, req)
	return args.Get(0).(page.Page[product.Product]), args.Error(1)
}

func (m *MockProductUsecase) FilterActive(ctx context.Context, f product.FilterRequest, req page.Request) (page.Page[product.Product], error) {
	args := m.Called(ctx, f, req)
	return args.Get(0).(page.Page[product.Product]), args.Error(1)
}

func (m *MockProductUsecase) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductUsecase) AveragePriceByCategory(ctx context.Context) ([]product.CategoryAverage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]product.CategoryAverage), args.Error(1)
}

func (m *MockProductUsecase) BestSelling(ctx context.Context, limit int) ([]product.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]product.Product), args.Error(1)
}

// MockInventoryUsecase is a mock implementation of inventory.Usecase
type MockInventoryUsecase struct {
	mock.Mock
}

func (m *MockInventoryUsecase) GetStock(ctx context.Context, productID int64) (*inventory.StockLevel, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLevel), args.Error(1)
}

func (m *MockInventoryUsecase) Reserve(ctx context.Context, productID int64, qty int, reason string) (*inventory.StockLevel, error) {
	args := m.Called(ctx, productID, qty, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLevel), args.Error(1)
}

func (m *MockInventoryUsecase) Release(ctx context.Context, productID int64, qty int, reason string) error {
	return m.Called(ctx, productID, qty, reason).Error(0)
}

func (m *MockInventoryUsecase) UpdateStock(ctx context.Context, productID int64, qty int, reason string) (*inventory.StockLevel, error) {
	args := m.Called(ctx, productID, qty, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLevel), args.Error(1)
}

func (m *MockInventoryUsecase) LowStock(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockInventoryUsecase) SweepLowStock(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryUsecase) PublishStockChanges(ctx context.Context, changes []domainproduct.StockChange, op event.Operation, reason string) {
	m.Called(ctx, changes, op, reason)
}

// MockOrderUsecase is a mock implementation of order.Usecase
type MockOrderUsecase struct {
	mock.Mock
}

func (m *MockOrderUsecase) CreateOrder(ctx context.Context, in order.CreateOrderRequest) (*order.Order, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderUsecase) UpdateOrderStatus(ctx context.Context, id int64, status string) (*order.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderUsecase) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderUsecase) GetOrderByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderUsecase) ListOrders(ctx context.Context, req page.Request) (page.Page[order.Order], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(page.Page[order.Order]), args.Error(1)
}

func (m *MockOrderUsecase) OrdersByCustomer(ctx context.Context, customerID int64, req page.Request) (page.Page[order.Order], error) {
	args := m.Called(ctx, customerID, req)
	return args.Get(0).(page.Page[order.Order]), args.Error(1)
}

func (m *MockOrderUsecase) OrdersByDateRange(ctx context.Context, start, end time.Time, req page.Request) (page.Page[order.Order], error) {
	args := m.Called(ctx, start, end, req)
	return args.Get(0).(page.Page[order.Order]), args.Error(1)
}

func (m *MockOrderUsecase) HighValueOrders(ctx context.Context, minAmount decimal.Decimal) ([]order.Order, error) {
	args := m.Called(ctx, minAmount)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderUsecase) DailySales(ctx context.Context, since time.Time) ([]order.DailySales, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]order.DailySales), args.Error(1)
}

func (m *MockOrderUsecase) Revenue(ctx context.Context, start, end time.Time) (*order.Revenue, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Revenue), args.Error(1)
}

func (m *MockOrderUsecase) StatusStatistics(ctx context.Context, since time.Time) ([]order.StatusCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]order.StatusCount), args.Error(1)
}

func (m *MockOrderUsecase) TopSellingProducts(ctx context.Context, since time.Time, limit int) ([]order.ProductSales, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]order.ProductSales), args.Error(1)
}
