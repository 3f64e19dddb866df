package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"commerce-service/internal/adapter/cache"
	"commerce-service/internal/domain/event"
	domain "commerce-service/internal/domain/product"
	"commerce-service/internal/usecase/product"
	apperrors "commerce-service/pkg/errors"
	"commerce-service/pkg/metrics"
)

// BreakerName guards stock reservations.
const BreakerName = "inventory"

const defaultUpdateReason = "Manual update"

// Repository defines the stock data access operations.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) (*domain.StockChange, error)
	IncrementStock(ctx context.Context, id int64, qty int) (*domain.StockChange, error)
	SetStock(ctx context.Context, id int64, qty int) (*domain.StockChange, error)
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
}

// Publisher sends a JSON payload to an exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, payload any) error
}

// Breaker runs fn under a named circuit breaker.
type Breaker interface {
	Execute(name string, fn func() (any, error)) (any, error)
}

// Thresholds are the stock levels that trigger alerts.
type Thresholds struct {
	Low      int
	Critical int
}

// Service implements stock reservation, release and alerting.
type Service struct {
	repo       Repository
	publisher  Publisher
	breaker    Breaker
	cache      cache.ProductCache
	thresholds Thresholds
	log        *zap.Logger
	now        func() time.Time
}

// New creates an inventory Service. A nil cache disables low-stock caching.
func New(r Repository, p Publisher, b Breaker, c cache.ProductCache, t Thresholds, log *zap.Logger) *Service {
	return &Service{
		repo:       r,
		publisher:  p,
		breaker:    b,
		cache:      c,
		thresholds: t,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetStock returns the current stock of a product.
func (s *Service) GetStock(ctx context.Context, productID int64) (*StockLevel, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.levelOf(*p), nil
}

// Reserve removes qty units from stock if enough are available.
func (s *Service) Reserve(ctx context.Context, productID int64, qty int, reason string) (*StockLevel, error) {
	if qty <= 0 {
		return nil, apperrors.NewValidationError("quantity", "quantity must be positive")
	}

	res, err := s.breaker.Execute(BreakerName, func() (any, error) {
		return s.repo.DecrementStock(ctx, productID, qty)
	})
	if err != nil {
		var ise *apperrors.InsufficientStockError
		if errors.As(err, &ise) {
			metrics.RecordStockReservation("insufficient")
			s.log.Warn("insufficient stock",
				zap.Int64("product_id", productID),
				zap.Int("requested", ise.Requested),
				zap.Int("available", ise.Available))
		} else {
			metrics.RecordStockReservation("error")
			s.log.Error("failed to reserve stock", zap.Int64("product_id", productID), zap.Error(err))
		}
		return nil, err
	}
	metrics.RecordStockReservation("success")

	change := res.(*domain.StockChange)
	s.PublishStockChanges(ctx, []domain.StockChange{*change}, event.OperationDecrease, reason)

	s.log.Info("reserved stock",
		zap.Int64("product_id", productID),
		zap.Int("quantity", qty),
		zap.Int("old_stock", change.OldQuantity),
		zap.Int("new_stock", change.Product.StockQuantity))
	return s.levelOf(change.Product), nil
}

// Release returns qty units to stock. A missing product is logged and ignored.
func (s *Service) Release(ctx context.Context, productID int64, qty int, reason string) error {
	if qty <= 0 {
		return apperrors.NewValidationError("quantity", "quantity must be positive")
	}

	change, err := s.repo.IncrementStock(ctx, productID, qty)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.log.Warn("cannot release stock: product not found", zap.Int64("product_id", productID))
			return nil
		}
		s.log.Error("failed to release stock", zap.Int64("product_id", productID), zap.Error(err))
		return err
	}

	s.PublishStockChanges(ctx, []domain.StockChange{*change}, event.OperationIncrease, reason)
	s.log.Info("released stock",
		zap.Int64("product_id", productID),
		zap.Int("quantity", qty),
		zap.Int("new_stock", change.Product.StockQuantity))
	return nil
}

// UpdateStock sets the stock level of a product.
func (s *Service) UpdateStock(ctx context.Context, productID int64, qty int, reason string) (*StockLevel, error) {
	if qty < 0 {
		return nil, apperrors.NewValidationError("quantity", "stock quantity must be non-negative")
	}
	if reason == "" {
		reason = defaultUpdateReason
	}

	change, err := s.repo.SetStock(ctx, productID, qty)
	if err != nil {
		return nil, err
	}

	s.PublishStockChanges(ctx, []domain.StockChange{*change}, event.OperationSet, reason)
	s.log.Info("updated stock",
		zap.Int64("product_id", productID),
		zap.Int("old_stock", change.OldQuantity),
		zap.Int("new_stock", qty))
	return s.levelOf(change.Product), nil
}

// LowStock lists active products at or below the low-stock threshold.
func (s *Service) LowStock(ctx context.Context) ([]product.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetLowStock(ctx)
		if err != nil {
			s.log.Warn("low-stock cache read failed, falling back to database", zap.Error(err))
		} else if cached != nil {
			return product.FromDomainList(cached), nil
		}
	}

	products, err := s.repo.ListLowStock(ctx, s.thresholds.Low)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLowStock(ctx, products); err != nil {
			s.log.Warn("failed to cache low-stock list", zap.Error(err))
		}
	}
	return product.FromDomainList(products), nil
}

// SweepLowStock republishes an alert for every low-stock product and returns how many were sent.
func (s *Service) SweepLowStock(ctx context.Context) (int, error) {
	products, err := s.repo.ListLowStock(ctx, s.thresholds.Low)
	if err != nil {
		s.log.Error("low-stock sweep failed", zap.Error(err))
		return 0, err
	}

	for _, p := range products {
		s.publishLowStockAlert(ctx, p)
	}
	s.log.Info("low-stock sweep completed", zap.Int("alerts", len(products)))
	return len(products), nil
}

// PublishStockChanges evicts cached products and emits inventory events,
// plus low-stock alerts, for changes that have already been committed.
// Publish failures are logged and never returned.
func (s *Service) PublishStockChanges(ctx context.Context, changes []domain.StockChange, op event.Operation, reason string) {
	if len(changes) == 0 {
		return
	}

	if s.cache != nil {
		ids := make([]int64, len(changes))
		for i, c := range changes {
			ids[i] = c.Product.ID
		}
		if err := s.cache.Delete(ctx, ids...); err != nil {
			s.log.Warn("failed to evict products after stock change", zap.Error(err))
		}
		if err := s.cache.EvictLowStock(ctx); err != nil {
			s.log.Warn("failed to evict low-stock list", zap.Error(err))
		}
	}

	for _, c := range changes {
		old := c.OldQuantity
		s.publish(ctx, event.InventoryExchange, event.InventoryUpdateKey, event.InventoryEvent{
			ProductID:   c.Product.ID,
			ProductName: c.Product.Name,
			SKU:         c.Product.SKU,
			OldQuantity: &old,
			NewQuantity: c.Product.StockQuantity,
			Operation:   op,
			Reason:      reason,
			EventTime:   s.now(),
		})

		if s.shouldAlert(op, c) {
			s.publishLowStockAlert(ctx, c.Product)
		}
	}
}

// shouldAlert: decreases alert whenever the new level is low; manual sets
// only when they cross the threshold from above.
func (s *Service) shouldAlert(op event.Operation, c domain.StockChange) bool {
	low := c.Product.StockQuantity <= s.thresholds.Low
	switch op {
	case event.OperationDecrease:
		return low
	case event.OperationSet:
		return low && c.OldQuantity > s.thresholds.Low
	default:
		return false
	}
}

func (s *Service) publishLowStockAlert(ctx context.Context, p domain.Product) {
	s.publish(ctx, event.InventoryExchange, event.LowStockAlertKey, event.InventoryEvent{
		ProductID:   p.ID,
		ProductName: p.Name,
		SKU:         p.SKU,
		NewQuantity: p.StockQuantity,
		Operation:   event.OperationLowStockAlert,
		Reason:      fmt.Sprintf("Stock quantity below threshold: %d", s.thresholds.Low),
		EventTime:   s.now(),
	})
	s.log.Warn("low stock alert sent",
		zap.String("sku", p.SKU),
		zap.Int("stock", p.StockQuantity))
}

func (s *Service) publish(ctx context.Context, exchange, key string, payload any) {
	if err := s.publisher.Publish(ctx, exchange, key, payload); err != nil {
		s.log.Error("failed to publish inventory event",
			zap.String("exchange", exchange),
			zap.String("routing_key", key),
			zap.Error(err))
	}
}
