package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"commerce-service/internal/domain/customer"
	"commerce-service/internal/domain/event"
	domain "commerce-service/internal/domain/order"
	"commerce-service/internal/domain/page"
	"commerce-service/internal/domain/product"
	apperrors "commerce-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, []product.StockChange, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Order), args.Get(1).([]product.StockChange), args.Error(2)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, o *domain.Order, releaseStock bool) (*domain.Order, []product.StockChange, error) {
	args := m.Called(ctx, o, releaseStock)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	changes, _ := args.Get(1).([]product.StockChange)
	return args.Get(0).(*domain.Order), changes, args.Error(2)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, req page.Request) (page.Page[domain.Order], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(page.Page[domain.Order]), args.Error(1)
}

func (m *MockRepository) ListByCustomer(ctx context.Context, customerID int64, req page.Request) (page.Page[domain.Order], error) {
	args := m.Called(ctx, customerID, req)
	return args.Get(0).(page.Page[domain.Order]), args.Error(1)
}

func (m *MockRepository) ListByDateRange(ctx context.Context, start, end time.Time, req page.Request) (page.Page[domain.Order], error) {
	args := m.Called(ctx, start, end, req)
	return args.Get(0).(page.Page[domain.Order]), args.Error(1)
}

func (m *MockRepository) ListHighValue(ctx context.Context, minAmount decimal.Decimal) ([]domain.Order, error) {
	args := m.Called(ctx, minAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockRepository) DailySales(ctx context.Context, since time.Time) ([]domain.DailySales, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailySales), args.Error(1)
}

func (m *MockRepository) Revenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRepository) StatusCounts(ctx context.Context, since time.Time) ([]domain.StatusCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockRepository) TopSellingProducts(ctx context.Context, since time.Time, limit int) ([]domain.ProductSales, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductSales), args.Error(1)
}

type MockCustomers struct {
	mock.Mock
}

func (m *MockCustomers) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockStockEvents struct {
	mock.Mock
}

func (m *MockStockEvents) PublishStockChanges(ctx context.Context, changes []product.StockChange, op event.Operation, reason string) {
	m.Called(ctx, changes, op, reason)
}

// MockPublisher is a mock implementation of the Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, exchange, routingKey string, payload any) error {
	return m.Called(ctx, exchange, routingKey, payload).Error(0)
}

type passThroughBreaker struct{}

func (passThroughBreaker) Execute(_ string, fn func() (any, error)) (any, error) { return fn() }

type openBreaker struct{}

func (openBreaker) Execute(name string, _ func() (any, error)) (any, error) {
	return nil, apperrors.NewUnavailableError(name, errors.New("circuit breaker is open"))
}

type mocks struct {
	repo      *MockRepository
	customers *MockCustomers
	products  *MockProducts
	stock     *MockStockEvents
	pub       *MockPublisher
}

func setupTestService(t *testing.T, b Breaker) (*Service, mocks) {
	m := mocks{
		repo:      new(MockRepository),
		customers: new(MockCustomers),
		products:  new(MockProducts),
		stock:     new(MockStockEvents),
		pub:       new(MockPublisher),
	}
	return New(m.repo, m.customers, m.products, m.stock, m.pub, b, zaptest.NewLogger(t)), m
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	jane     = &customer.Customer{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	keyboard = &product.Product{ID: 10, Name: "Keyboard", SKU: "ACC-1", Price: dec("49.99"), StockQuantity: 20, Status: product.StatusActive}
	mouse    = &product.Product{ID: 11, Name: "Mouse", SKU: "ACC-2", Price: dec("19.50"), StockQuantity: 5, Status: product.StatusActive}
)

// ==================== CREATE ORDER TESTS ====================

func TestCreateOrder_Success(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	m.customers.On("GetByID", ctx, int64(1)).Return(jane, nil)
	m.products.On("GetByID", ctx, int64(10)).Return(keyboard, nil)
	m.products.On("GetByID", ctx, int64(11)).Return(mouse, nil)

	changes := []product.StockChange{
		{Product: product.Product{ID: 10, StockQuantity: 18}, OldQuantity: 20},
		{Product: product.Product{ID: 11, StockQuantity: 4}, OldQuantity: 5},
	}
	saved := &domain.Order{
		ID:            100,
		OrderNumber:   "ORDER-ABCD1234",
		CustomerID:    1,
		CustomerEmail: jane.Email,
		Status:        domain.StatusPending,
		TotalAmount:   dec("124.48"),
		Items:         []domain.Item{{ProductID: 10, Quantity: 2}, {ProductID: 11, Quantity: 1}},
	}
	var persisted *domain.Order
	m.repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*domain.Order) }).
		Return(saved, changes, nil)
	m.stock.On("PublishStockChanges", ctx, changes, event.OperationDecrease, mock.MatchedBy(func(r string) bool {
		return len(r) > len("Order: ") && r[:7] == "Order: "
	})).Return()
	m.pub.On("Publish", ctx, event.OrderExchange, event.OrderCreatedKey, mock.MatchedBy(func(e event.OrderEvent) bool {
		return e.OrderID == 100 && e.Status == "CREATED" && e.CustomerEmail == "jane@example.com" && e.TotalAmount.Equal(dec("124.48"))
	})).Return(nil)

	out, err := svc.CreateOrder(ctx, CreateOrderRequest{
		CustomerID:   1,
		ShippingCost: dec("5.00"),
		Items: []ItemRequest{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 1},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, domain.StatusPending, persisted.Status)
	assert.Regexp(t, `^ORDER-[0-9A-F]{8}$`, persisted.OrderNumber)
	assert.True(t, persisted.Items[0].UnitPrice.Equal(dec("49.99")), "unit price comes from the product")
	assert.True(t, persisted.Items[0].Subtotal.Equal(dec("99.98")))
	assert.True(t, persisted.TotalAmount.Equal(dec("124.48")))
	assert.Equal(t, int64(100), out.ID)
	assert.True(t, out.TotalAmount.Equal(dec("124.48")))
	assert.Len(t, out.Items, 2)
	m.stock.AssertExpectations(t)
	m.pub.AssertExpectations(t)
}

func TestCreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateOrderRequest
		field string
	}{
		{name: "no items", req: CreateOrderRequest{CustomerID: 1}, field: "orderItems"},
		{name: "missing customer", req: CreateOrderRequest{Items: []ItemRequest{{ProductID: 1, Quantity: 1}}}, field: "customerId"},
		{name: "zero quantity", req: CreateOrderRequest{CustomerID: 1, Items: []ItemRequest{{ProductID: 1, Quantity: 0}}}, field: "quantity"},
		{name: "negative shipping", req: CreateOrderRequest{CustomerID: 1, ShippingCost: dec("-1"), Items: []ItemRequest{{ProductID: 1, Quantity: 1}}}, field: "shippingCost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := setupTestService(t, passThroughBreaker{})

			_, err := svc.CreateOrder(context.Background(), tt.req)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
			m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrder_CustomerNotFound(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	m.customers.On("GetByID", ctx, int64(7)).Return(nil, apperrors.NewNotFoundError("customer", "customer not found with id: 7"))

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: 7, Items: []ItemRequest{{ProductID: 10, Quantity: 1}}})
	assert.True(t, apperrors.IsNotFound(err))
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	discontinued := *keyboard
	discontinued.Status = product.StatusDiscontinued
	m.customers.On("GetByID", ctx, int64(1)).Return(jane, nil)
	m.products.On("GetByID", ctx, int64(10)).Return(&discontinued, nil)

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: 1, Items: []ItemRequest{{ProductID: 10, Quantity: 1}}})
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	m.customers.On("GetByID", ctx, int64(1)).Return(jane, nil)
	m.products.On("GetByID", ctx, int64(11)).Return(mouse, nil)

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: 1, Items: []ItemRequest{{ProductID: 11, Quantity: 6}}})

	var ise *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 6, ise.Requested)
	assert.Equal(t, 5, ise.Available)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_RaceLostInRepository(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	m.customers.On("GetByID", ctx, int64(1)).Return(jane, nil)
	m.products.On("GetByID", ctx, int64(11)).Return(mouse, nil)
	m.repo.On("Create", ctx, mock.Anything).Return(nil, nil, apperrors.NewInsufficientStockError(11, 5, 2))

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: 1, Items: []ItemRequest{{ProductID: 11, Quantity: 5}}})

	var ise *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &ise)
	m.stock.AssertNotCalled(t, "PublishStockChanges", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_BreakerOpen(t *testing.T) {
	svc, m := setupTestService(t, openBreaker{})
	ctx := context.Background()

	m.customers.On("GetByID", ctx, int64(1)).Return(jane, nil)
	m.products.On("GetByID", ctx, int64(10)).Return(keyboard, nil)

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: 1, Items: []ItemRequest{{ProductID: 10, Quantity: 1}}})

	var ue *apperrors.UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, BreakerName, ue.Service)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_PublishFailureStillSucceeds(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	m.customers.On("GetByID", ctx, int64(1)).Return(jane, nil)
	m.products.On("GetByID", ctx, int64(10)).Return(keyboard, nil)
	m.repo.On("Create", ctx, mock.Anything).Return(&domain.Order{ID: 5, OrderNumber: "ORDER-1"}, []product.StockChange{}, nil)
	m.stock.On("PublishStockChanges", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	out, err := svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: 1, Items: []ItemRequest{{ProductID: 10, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
}

// ==================== UPDATE STATUS TESTS ====================

func TestUpdateOrderStatus_Shipped(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	shippedAt := time.Now().UTC()
	m.repo.On("GetByID", ctx, int64(5)).Return(&domain.Order{ID: 5, OrderNumber: "ORDER-1", Status: domain.StatusConfirmed}, nil)
	m.repo.On("UpdateStatus", ctx, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Status == domain.StatusShipped && o.ShippedAt != nil
	}), false).Return(&domain.Order{ID: 5, OrderNumber: "ORDER-1", Status: domain.StatusShipped, ShippedAt: &shippedAt}, nil, nil)
	m.pub.On("Publish", ctx, event.OrderExchange, event.OrderStatusChangedKey, mock.MatchedBy(func(e event.OrderEvent) bool {
		return e.Status == "SHIPPED"
	})).Return(nil)

	out, err := svc.UpdateOrderStatus(ctx, 5, "shipped")
	require.NoError(t, err)
	assert.Equal(t, "SHIPPED", out.Status)
	assert.NotNil(t, out.ShippedAt)
	m.stock.AssertNotCalled(t, "PublishStockChanges", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.pub.AssertExpectations(t)
}

func TestUpdateOrderStatus_CancelReleasesStock(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	released := []product.StockChange{{Product: product.Product{ID: 10, StockQuantity: 20}, OldQuantity: 18}}
	m.repo.On("GetByID", ctx, int64(5)).Return(&domain.Order{ID: 5, OrderNumber: "ORDER-1", Status: domain.StatusPending}, nil)
	m.repo.On("UpdateStatus", ctx, mock.Anything, true).
		Return(&domain.Order{ID: 5, OrderNumber: "ORDER-1", Status: domain.StatusCancelled}, released, nil)
	m.stock.On("PublishStockChanges", ctx, released, event.OperationIncrease, "Order cancelled: ORDER-1").Return()
	m.pub.On("Publish", ctx, event.OrderExchange, event.OrderStatusChangedKey, mock.Anything).Return(nil)

	out, err := svc.UpdateOrderStatus(ctx, 5, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	m.stock.AssertExpectations(t)
}

func TestUpdateOrderStatus_TerminalIsConflict(t *testing.T) {
	for _, st := range []domain.Status{domain.StatusDelivered, domain.StatusCancelled} {
		t.Run(string(st), func(t *testing.T) {
			svc, m := setupTestService(t, passThroughBreaker{})
			ctx := context.Background()

			m.repo.On("GetByID", ctx, int64(5)).Return(&domain.Order{ID: 5, OrderNumber: "ORDER-1", Status: st}, nil)

			_, err := svc.UpdateOrderStatus(ctx, 5, "PROCESSING")
			var ce *apperrors.ConflictError
			assert.ErrorAs(t, err, &ce)
			m.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})

	_, err := svc.UpdateOrderStatus(context.Background(), 5, "LOST")
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
	m.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_SameStatusIsNoop(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()

	m.repo.On("GetByID", ctx, int64(5)).Return(&domain.Order{ID: 5, Status: domain.StatusShipped}, nil)

	out, err := svc.UpdateOrderStatus(ctx, 5, "SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, "SHIPPED", out.Status)
	m.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	m.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ==================== QUERY TESTS ====================

func TestGetOrderByNumber_Blank(t *testing.T) {
	svc, _ := setupTestService(t, passThroughBreaker{})

	_, err := svc.GetOrderByNumber(context.Background(), "  ")
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestOrdersByDateRange_Inverted(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	now := time.Now()

	_, err := svc.OrdersByDateRange(context.Background(), now, now.Add(-time.Hour), page.NewRequest(0, 20))
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
	m.repo.AssertNotCalled(t, "ListByDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListOrders_MapsPage(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()
	req := page.NewRequest(0, 2)

	m.repo.On("List", ctx, req).Return(page.New([]domain.Order{{ID: 1, OrderNumber: "ORDER-A"}, {ID: 2, OrderNumber: "ORDER-B"}}, req, 5), nil)

	p, err := svc.ListOrders(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.TotalElements)
	assert.Equal(t, "ORDER-B", p.Content[1].OrderNumber)
}

func TestDailySales_FormatsDate(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	m.repo.On("DailySales", ctx, since).Return([]domain.DailySales{
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), OrderCount: 3, Revenue: dec("150.00")},
	}, nil)

	rows, err := svc.DailySales(ctx, since)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-02", rows[0].Date)
	assert.Equal(t, int64(3), rows[0].OrderCount)
}

func TestTopSellingProducts_ClampsLimit(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()
	since := time.Now()

	m.repo.On("TopSellingProducts", ctx, since, 10).Return([]domain.ProductSales{}, nil).Once()
	m.repo.On("TopSellingProducts", ctx, since, 100).Return([]domain.ProductSales{}, nil).Once()

	_, err := svc.TopSellingProducts(ctx, since, 0)
	require.NoError(t, err)
	_, err = svc.TopSellingProducts(ctx, since, 1000)
	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestRevenue(t *testing.T) {
	svc, m := setupTestService(t, passThroughBreaker{})
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	m.repo.On("Revenue", ctx, start, end).Return(dec("999.90"), nil)

	r, err := svc.Revenue(ctx, start, end)
	require.NoError(t, err)
	assert.True(t, r.Revenue.Equal(dec("999.90")))
}
