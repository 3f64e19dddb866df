package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"commerce-service/internal/domain/customer"
	"commerce-service/internal/domain/event"
	domain "commerce-service/internal/domain/order"
	"commerce-service/internal/domain/page"
	"commerce-service/internal/domain/product"
	apperrors "commerce-service/pkg/errors"
	"commerce-service/pkg/metrics"
	"commerce-service/pkg/security"
	"commerce-service/pkg/validation"
)

// BreakerName guards order persistence.
const BreakerName = "order"

const (
	defaultTopProductsLimit = 10
	maxTopProductsLimit     = 100
	createdStatus           = "CREATED"
)

// Repository defines the interface for order data access operations.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, []product.StockChange, error)
	UpdateStatus(ctx context.Context, o *domain.Order, releaseStock bool) (*domain.Order, []product.StockChange, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, req page.Request) (page.Page[domain.Order], error)
	ListByCustomer(ctx context.Context, customerID int64, req page.Request) (page.Page[domain.Order], error)
	ListByDateRange(ctx context.Context, start, end time.Time, req page.Request) (page.Page[domain.Order], error)
	ListHighValue(ctx context.Context, minAmount decimal.Decimal) ([]domain.Order, error)
	DailySales(ctx context.Context, since time.Time) ([]domain.DailySales, error)
	Revenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	StatusCounts(ctx context.Context, since time.Time) ([]domain.StatusCount, error)
	TopSellingProducts(ctx context.Context, since time.Time, limit int) ([]domain.ProductSales, error)
}

// CustomerLookup resolves the customer placing an order.
type CustomerLookup interface {
	GetByID(ctx context.Context, id int64) (*customer.Customer, error)
}

// ProductLookup resolves ordered products.
type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*product.Product, error)
}

// StockEvents announces committed stock changes.
type StockEvents interface {
	PublishStockChanges(ctx context.Context, changes []product.StockChange, op event.Operation, reason string)
}

// Publisher sends a JSON payload to an exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, payload any) error
}

// Breaker runs fn under a named circuit breaker.
type Breaker interface {
	Execute(name string, fn func() (any, error)) (any, error)
}

// Service implements order placement, fulfilment and reporting.
type Service struct {
	repo      Repository
	customers CustomerLookup
	products  ProductLookup
	stock     StockEvents
	publisher Publisher
	breaker   Breaker
	log       *zap.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// New creates a new order Service.
func New(r Repository, c CustomerLookup, p ProductLookup, st StockEvents, pub Publisher, b Breaker, log *zap.Logger) *Service {
	return &Service{
		repo:      r,
		customers: c,
		products:  p,
		stock:     st,
		publisher: pub,
		breaker:   b,
		log:       log,
		validate:  validation.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func generateOrderNumber() string {
	return "ORDER-" + strings.ToUpper(uuid.NewString()[:8])
}

func validateAmounts(in CreateOrderRequest) error {
	fields := map[string]string{}
	if in.ShippingCost.IsNegative() {
		fields["shippingCost"] = "shippingCost must not be negative"
	}
	if in.TaxAmount.IsNegative() {
		fields["taxAmount"] = "taxAmount must not be negative"
	}
	if in.DiscountAmount.IsNegative() {
		fields["discountAmount"] = "discountAmount must not be negative"
	}
	for i, it := range in.Items {
		if it.DiscountAmount.IsNegative() {
			fields[fmt.Sprintf("orderItems[%d].discountAmount", i)] = "discountAmount must not be negative"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewFieldsValidationError("amounts must not be negative", fields)
}

// CreateOrder validates the request, reserves stock for every item and
// persists the order atomically. Events are published after commit.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderRequest) (*Order, error) {
	s.log.Info("creating order", zap.Int64("customer_id", in.CustomerID), zap.Int("items", len(in.Items)))

	if err := validation.Struct(s.validate, in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}
	if err := validateAmounts(in); err != nil {
		return nil, err
	}

	c, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		OrderNumber:     generateOrderNumber(),
		CustomerID:      c.ID,
		CustomerEmail:   c.Email,
		Status:          domain.StatusPending,
		ShippingCost:    in.ShippingCost,
		TaxAmount:       in.TaxAmount,
		DiscountAmount:  in.DiscountAmount,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	}

	for _, req := range in.Items {
		p, err := s.products.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Status != product.StatusActive {
			return nil, apperrors.NewValidationError("productId",
				fmt.Sprintf("product %d is not available for ordering", p.ID))
		}
		if p.StockQuantity < req.Quantity {
			return nil, apperrors.NewInsufficientStockError(p.ID, req.Quantity, p.StockQuantity)
		}

		it := domain.Item{
			ProductID:      p.ID,
			ProductName:    p.Name,
			Quantity:       req.Quantity,
			UnitPrice:      p.Price,
			DiscountAmount: req.DiscountAmount,
		}
		it.Subtotal = it.CalculateSubtotal()
		if it.Subtotal.IsNegative() {
			return nil, apperrors.NewValidationError("discountAmount",
				fmt.Sprintf("discount for product %d exceeds the line amount", p.ID))
		}
		o.Items = append(o.Items, it)
	}

	o.TotalAmount = o.CalculateTotal()
	if o.TotalAmount.IsNegative() {
		return nil, apperrors.NewValidationError("discountAmount", "order discount exceeds the order amount")
	}

	res, err := s.breaker.Execute(BreakerName, func() (any, error) {
		created, changes, err := s.repo.Create(ctx, o)
		if err != nil {
			return nil, err
		}
		return persistResult{order: created, changes: changes}, nil
	})
	if err != nil {
		s.log.Warn("failed to create order", zap.String("order_number", o.OrderNumber), zap.Error(err))
		return nil, err
	}
	pr := res.(persistResult)

	metrics.RecordOrderCreated()
	s.stock.PublishStockChanges(ctx, pr.changes, event.OperationDecrease, "Order: "+pr.order.OrderNumber)
	s.publishOrderEvent(ctx, event.OrderCreatedKey, *pr.order, createdStatus)

	s.log.Info("order created",
		zap.Int64("id", pr.order.ID),
		zap.String("order_number", pr.order.OrderNumber),
		zap.String("total", pr.order.TotalAmount.StringFixed(2)))

	out := FromDomain(*pr.order)
	return &out, nil
}

type persistResult struct {
	order   *domain.Order
	changes []product.StockChange
}

// UpdateOrderStatus moves an order to a new status. Delivered and cancelled
// orders are final; cancelling returns the reserved stock.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status string) (*Order, error) {
	next, ok := domain.ParseStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("invalid order status: %s", status))
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status == next {
		out := FromDomain(*o)
		return &out, nil
	}
	if o.Status.IsTerminal() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %s is already %s", o.OrderNumber, o.Status))
	}

	o.Status = next
	now := s.now()
	switch next {
	case domain.StatusShipped:
		o.ShippedAt = &now
	case domain.StatusDelivered:
		o.DeliveredAt = &now
	}
	release := next == domain.StatusCancelled

	res, err := s.breaker.Execute(BreakerName, func() (any, error) {
		updated, changes, err := s.repo.UpdateStatus(ctx, o, release)
		if err != nil {
			return nil, err
		}
		return persistResult{order: updated, changes: changes}, nil
	})
	if err != nil {
		s.log.Warn("failed to update order status", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	ur := res.(persistResult)

	if release {
		s.stock.PublishStockChanges(ctx, ur.changes, event.OperationIncrease, "Order cancelled: "+ur.order.OrderNumber)
	}
	s.publishOrderEvent(ctx, event.OrderStatusChangedKey, *ur.order, string(ur.order.Status))

	s.log.Info("order status updated",
		zap.Int64("id", ur.order.ID),
		zap.String("status", string(ur.order.Status)))

	out := FromDomain(*ur.order)
	return &out, nil
}

func (s *Service) publishOrderEvent(ctx context.Context, key string, o domain.Order, status string) {
	err := s.publisher.Publish(ctx, event.OrderExchange, key, event.OrderEvent{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		CustomerEmail: o.CustomerEmail,
		Status:        status,
		TotalAmount:   o.TotalAmount,
		EventTime:     s.now(),
	})
	if err != nil {
		s.log.Error("failed to publish order event",
			zap.String("routing_key", key),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
	}
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := FromDomain(*o)
	return &out, nil
}

// GetOrderByNumber retrieves an order by its order number.
func (s *Service) GetOrderByNumber(ctx context.Context, number string) (*Order, error) {
	number = strings.TrimSpace(security.DecodeIfEscaped(number))
	if number == "" {
		return nil, apperrors.NewValidationError("orderNumber", "order number is required")
	}
	o, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	out := FromDomain(*o)
	return &out, nil
}

// ListOrders returns a page of orders.
func (s *Service) ListOrders(ctx context.Context, req page.Request) (page.Page[Order], error) {
	p, err := s.repo.List(ctx, req)
	if err != nil {
		return page.Page[Order]{}, err
	}
	return page.Map(p, FromDomain), nil
}

// OrdersByCustomer returns a page of one customer's orders.
func (s *Service) OrdersByCustomer(ctx context.Context, customerID int64, req page.Request) (page.Page[Order], error) {
	p, err := s.repo.ListByCustomer(ctx, customerID, req)
	if err != nil {
		return page.Page[Order]{}, err
	}
	return page.Map(p, FromDomain), nil
}

// OrdersByDateRange returns a page of orders created within [start, end].
func (s *Service) OrdersByDateRange(ctx context.Context, start, end time.Time, req page.Request) (page.Page[Order], error) {
	if err := validateRange(start, end); err != nil {
		return page.Page[Order]{}, err
	}
	p, err := s.repo.ListByDateRange(ctx, start, end, req)
	if err != nil {
		return page.Page[Order]{}, err
	}
	return page.Map(p, FromDomain), nil
}

// HighValueOrders lists confirmed, processing, shipped and delivered orders
// whose total is at least minAmount.
func (s *Service) HighValueOrders(ctx context.Context, minAmount decimal.Decimal) ([]Order, error) {
	if minAmount.IsNegative() {
		return nil, apperrors.NewValidationError("minAmount", "minAmount must not be negative")
	}
	orders, err := s.repo.ListHighValue(ctx, minAmount)
	if err != nil {
		return nil, err
	}
	return FromDomainList(orders), nil
}

// DailySales reports order count and revenue per day since the given time.
func (s *Service) DailySales(ctx context.Context, since time.Time) ([]DailySales, error) {
	rows, err := s.repo.DailySales(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]DailySales, len(rows))
	for i, r := range rows {
		out[i] = DailySales{
			Date:       r.Date.Format(time.DateOnly),
			OrderCount: r.OrderCount,
			Revenue:    r.Revenue,
		}
	}
	return out, nil
}

// Revenue sums delivered order totals within [start, end].
func (s *Service) Revenue(ctx context.Context, start, end time.Time) (*Revenue, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	total, err := s.repo.Revenue(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &Revenue{StartDate: start, EndDate: end, Revenue: total}, nil
}

// StatusStatistics counts orders per status since the given time.
func (s *Service) StatusStatistics(ctx context.Context, since time.Time) ([]StatusCount, error) {
	rows, err := s.repo.StatusCounts(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]StatusCount, len(rows))
	for i, r := range rows {
		out[i] = StatusCount{Status: string(r.Status), Count: r.Count, AverageAmount: r.AverageAmount}
	}
	return out, nil
}

// TopSellingProducts ranks products by revenue from shipped and delivered
// orders since the given time.
func (s *Service) TopSellingProducts(ctx context.Context, since time.Time, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}
	if limit > maxTopProductsLimit {
		limit = maxTopProductsLimit
	}
	rows, err := s.repo.TopSellingProducts(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ProductSales, len(rows))
	for i, r := range rows {
		out[i] = ProductSales{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			Revenue:     r.Revenue,
		}
	}
	return out, nil
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewValidationError("startDate", "startDate and endDate are required")
	}
	if end.Before(start) {
		return apperrors.NewValidationError("endDate", "endDate must not be before startDate")
	}
	return nil
}
