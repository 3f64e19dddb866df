package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"commerce-service/internal/adapter/cache"
	"commerce-service/internal/domain/event"
	domain "commerce-service/internal/domain/product"
	apperrors "commerce-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockRepository) DecrementStock(ctx context.Context, id int64, qty int) (*domain.StockChange, error) {
	args := m.Called(ctx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockChange), args.Error(1)
}

func (m *MockRepository) IncrementStock(ctx context.Context, id int64, qty int) (*domain.StockChange, error) {
	args := m.Called(ctx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockChange), args.Error(1)
}

func (m *MockRepository) SetStock(ctx context.Context, id int64, qty int) (*domain.StockChange, error) {
	args := m.Called(ctx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockChange), args.Error(1)
}

func (m *MockRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
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

var thresholds = Thresholds{Low: 10, Critical: 5}

func setupTestService(t *testing.T, b Breaker, c cache.ProductCache) (*Service, *MockRepository, *MockPublisher) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	return New(repo, pub, b, c, thresholds, zaptest.NewLogger(t)), repo, pub
}

func change(id int64, oldQty, newQty int) *domain.StockChange {
	return &domain.StockChange{
		Product:     domain.Product{ID: id, Name: "Mouse", SKU: "ACC-1", StockQuantity: newQty, Status: domain.StatusActive},
		OldQuantity: oldQty,
	}
}

func inventoryEvent(op event.Operation) any {
	return mock.MatchedBy(func(e event.InventoryEvent) bool { return e.Operation == op })
}

// ==================== RESERVE TESTS ====================

func TestReserve_PublishesDecrease(t *testing.T) {
	svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("DecrementStock", ctx, int64(1), 5).Return(change(1, 50, 45), nil)
	pub.On("Publish", ctx, event.InventoryExchange, event.InventoryUpdateKey, mock.MatchedBy(func(e event.InventoryEvent) bool {
		return e.Operation == event.OperationDecrease && *e.OldQuantity == 50 && e.NewQuantity == 45 && e.Reason == "order"
	})).Return(nil)

	level, err := svc.Reserve(ctx, 1, 5, "order")
	require.NoError(t, err)
	assert.Equal(t, 45, level.StockQuantity)
	assert.False(t, level.LowStock)
	pub.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, event.InventoryExchange, event.LowStockAlertKey, mock.Anything)
}

func TestReserve_LowStockAlert(t *testing.T) {
	svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("DecrementStock", ctx, int64(1), 5).Return(change(1, 12, 7), nil)
	pub.On("Publish", ctx, event.InventoryExchange, event.InventoryUpdateKey, inventoryEvent(event.OperationDecrease)).Return(nil)
	pub.On("Publish", ctx, event.InventoryExchange, event.LowStockAlertKey, mock.MatchedBy(func(e event.InventoryEvent) bool {
		return e.Operation == event.OperationLowStockAlert && e.OldQuantity == nil && e.NewQuantity == 7 &&
			e.Reason == "Stock quantity below threshold: 10"
	})).Return(nil)

	level, err := svc.Reserve(ctx, 1, 5, "order")
	require.NoError(t, err)
	assert.True(t, level.LowStock)
	pub.AssertExpectations(t)
}

func TestReserve_PublishFailureDoesNotFail(t *testing.T) {
	svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("DecrementStock", ctx, int64(1), 1).Return(change(1, 50, 49), nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := svc.Reserve(ctx, 1, 1, "order")
	assert.NoError(t, err)
}

func TestReserve_Insufficient(t *testing.T) {
	svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("DecrementStock", ctx, int64(1), 5).Return(nil, apperrors.NewInsufficientStockError(1, 5, 2))

	_, err := svc.Reserve(ctx, 1, 5, "order")
	var ise *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &ise)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReserve_BreakerOpen(t *testing.T) {
	svc, repo, _ := setupTestService(t, openBreaker{}, nil)

	_, err := svc.Reserve(context.Background(), 1, 5, "order")
	var ue *apperrors.UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, BreakerName, ue.Service)
	repo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserve_InvalidQuantity(t *testing.T) {
	svc, _, _ := setupTestService(t, passThroughBreaker{}, nil)

	_, err := svc.Reserve(context.Background(), 1, 0, "order")
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

// ==================== RELEASE TESTS ====================

func TestRelease_PublishesIncrease(t *testing.T) {
	svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("IncrementStock", ctx, int64(1), 3).Return(change(1, 2, 5), nil)
	pub.On("Publish", ctx, event.InventoryExchange, event.InventoryUpdateKey, inventoryEvent(event.OperationIncrease)).Return(nil)

	require.NoError(t, svc.Release(ctx, 1, 3, "cancel"))
	pub.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, event.InventoryExchange, event.LowStockAlertKey, mock.Anything)
}

func TestRelease_MissingProductIgnored(t *testing.T) {
	svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("IncrementStock", ctx, int64(9), 3).Return(nil, apperrors.NewNotFoundError("product", "product not found"))

	assert.NoError(t, svc.Release(ctx, 9, 3, "cancel"))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ==================== UPDATE STOCK TESTS ====================

func TestUpdateStock_AlertsOnlyWhenCrossingThreshold(t *testing.T) {
	tests := []struct {
		name      string
		oldQty    int
		newQty    int
		wantAlert bool
	}{
		{name: "crosses from above", oldQty: 20, newQty: 8, wantAlert: true},
		{name: "lands on threshold", oldQty: 11, newQty: 10, wantAlert: true},
		{name: "already low", oldQty: 9, newQty: 3, wantAlert: false},
		{name: "stays high", oldQty: 20, newQty: 15, wantAlert: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
			ctx := context.Background()

			repo.On("SetStock", ctx, int64(1), tt.newQty).Return(change(1, tt.oldQty, tt.newQty), nil)
			pub.On("Publish", ctx, event.InventoryExchange, event.InventoryUpdateKey, mock.MatchedBy(func(e event.InventoryEvent) bool {
				return e.Operation == event.OperationSet && e.Reason == "Manual update"
			})).Return(nil)
			if tt.wantAlert {
				pub.On("Publish", ctx, event.InventoryExchange, event.LowStockAlertKey, inventoryEvent(event.OperationLowStockAlert)).Return(nil)
			}

			_, err := svc.UpdateStock(ctx, 1, tt.newQty, "")
			require.NoError(t, err)
			pub.AssertExpectations(t)
			if !tt.wantAlert {
				pub.AssertNotCalled(t, "Publish", mock.Anything, event.InventoryExchange, event.LowStockAlertKey, mock.Anything)
			}
		})
	}
}

func TestUpdateStock_Negative(t *testing.T) {
	svc, repo, _ := setupTestService(t, passThroughBreaker{}, nil)

	_, err := svc.UpdateStock(context.Background(), 1, -1, "")
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
	repo.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== LOW STOCK TESTS ====================

func TestLowStock_CachedAndEvicted(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedisProductCache(client, time.Minute, zaptest.NewLogger(t))

	svc, repo, pub := setupTestService(t, passThroughBreaker{}, c)
	ctx := context.Background()

	repo.On("ListLowStock", ctx, 10).Return([]domain.Product{{ID: 1, Name: "Mouse", StockQuantity: 3}}, nil).Once()

	first, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	repo.AssertNumberOfCalls(t, "ListLowStock", 1)

	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc.PublishStockChanges(ctx, []domain.StockChange{*change(1, 3, 20)}, event.OperationIncrease, "restock")
	assert.False(t, mr.Exists("products:low-stock"))
}

func TestSweepLowStock(t *testing.T) {
	svc, repo, pub := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("ListLowStock", ctx, 10).Return([]domain.Product{{ID: 1, StockQuantity: 3}, {ID: 2, StockQuantity: 9}}, nil)
	pub.On("Publish", ctx, event.InventoryExchange, event.LowStockAlertKey, inventoryEvent(event.OperationLowStockAlert)).Return(nil)

	n, err := svc.SweepLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestGetStock(t *testing.T) {
	svc, repo, _ := setupTestService(t, passThroughBreaker{}, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(1)).Return(&domain.Product{ID: 1, SKU: "ACC-1", StockQuantity: 10}, nil)

	level, err := svc.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ACC-1", level.SKU)
	assert.True(t, level.LowStock)
}
