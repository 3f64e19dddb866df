package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"commerce-service/internal/domain/order"
	"commerce-service/internal/domain/page"
	"commerce-service/internal/domain/product"
	apperrors "commerce-service/pkg/errors"
)

var orderSortColumns = map[string]string{
	"id":          "id",
	"orderNumber": "order_number",
	"status":      "status",
	"totalAmount": "total_amount",
	"createdAt":   "created_at",
}

// highValueStatuses are the statuses counted as committed revenue.
var highValueStatuses = []string{
	string(order.StatusConfirmed),
	string(order.StatusProcessing),
	string(order.StatusShipped),
	string(order.StatusDelivered),
}

var soldStatuses = []string{string(order.StatusShipped), string(order.StatusDelivered)}

// OrderRepoPG implements the order Repository using PostgreSQL and GORM.
type OrderRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewOrderRepoPG creates a new instance of OrderRepoPG.
func NewOrderRepoPG(db *gorm.DB, log *zap.Logger) *OrderRepoPG {
	return &OrderRepoPG{db: db, log: log}
}

func orderNotFound(id int64) error {
	return apperrors.NewNotFoundError("order", fmt.Sprintf("order not found: id=%d", id))
}

// withDetails preloads the customer and the product of every item.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	}).Preload("Items.Product")
}

// Create reserves stock for every item and inserts the order in a single
// transaction. Any shortfall rolls back all reservations.
func (r *OrderRepoPG) Create(ctx context.Context, o *order.Order) (*order.Order, []product.StockChange, error) {
	if o == nil {
		return nil, nil, errors.New("order cannot be nil")
	}

	var (
		changes []product.StockChange
		model   OrderSchema
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			change, err := decrementStock(tx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			changes = append(changes, *change)
		}

		model = orderToSchema(o)
		return tx.Omit("Customer").Create(&model).Error
	})
	if err != nil {
		if apperrors.IsClientError(err) {
			r.log.Warn("order rejected", zap.String("order_number", o.OrderNumber), zap.Error(err))
			return nil, nil, err
		}
		if isUniqueViolation(err) {
			return nil, nil, apperrors.NewAlreadyExistsError("order", fmt.Sprintf("order %s already exists", o.OrderNumber))
		}
		r.log.Error("failed to create order in db", zap.Error(err), zap.String("order_number", o.OrderNumber))
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	r.log.Info("order created in db", zap.Int64("id", model.ID), zap.String("order_number", model.OrderNumber))

	created, err := r.GetByID(ctx, model.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, changes, nil
}

// UpdateStatus persists status and fulfilment timestamps with optimistic
// locking. When releaseStock is set the item quantities are returned to
// stock in the same transaction.
func (r *OrderRepoPG) UpdateStatus(ctx context.Context, o *order.Order, releaseStock bool) (*order.Order, []product.StockChange, error) {
	var changes []product.StockChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&OrderSchema{}).
			Where("id = ? AND version = ?", o.ID, o.Version).
			Updates(map[string]any{
				"status":       string(o.Status),
				"shipped_at":   o.ShippedAt,
				"delivered_at": o.DeliveredAt,
				"version":      gorm.Expr("version + 1"),
				"updated_at":   time.Now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewConflictError("order was modified concurrently, retry the update")
		}

		if !releaseStock {
			return nil
		}
		for _, it := range o.Items {
			upd := tx.Model(&ProductSchema{}).Where("id = ?", it.ProductID).Updates(map[string]any{
				"stock_quantity": gorm.Expr("stock_quantity + ?", it.Quantity),
				"version":        gorm.Expr("version + 1"),
				"updated_at":     time.Now().UTC(),
			})
			if upd.Error != nil {
				return fmt.Errorf("failed to release stock: %w", upd.Error)
			}
			if upd.RowsAffected == 0 {
				r.log.Warn("product missing while releasing stock", zap.Int64("product_id", it.ProductID))
				continue
			}
			var p ProductSchema
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				return fmt.Errorf("failed to reload product: %w", err)
			}
			changes = append(changes, product.StockChange{Product: productFromSchema(p), OldQuantity: p.StockQuantity - it.Quantity})
		}
		return nil
	})
	if err != nil {
		if apperrors.IsClientError(err) {
			return nil, nil, err
		}
		r.log.Error("failed to update order status", zap.Error(err), zap.Int64("id", o.ID))
		return nil, nil, err
	}

	r.log.Info("order status updated in db", zap.Int64("id", o.ID), zap.String("status", string(o.Status)))

	updated, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return nil, nil, err
	}
	return updated, changes, nil
}

// GetByID retrieves an order with its items.
func (r *OrderRepoPG) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var model OrderSchema
	if err := withDetails(r.db.WithContext(ctx)).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("order not found", zap.Int64("id", id))
			return nil, orderNotFound(id)
		}
		r.log.Error("failed to get order from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	o := orderFromSchema(model)
	return &o, nil
}

// GetByNumber retrieves an order by its order number.
func (r *OrderRepoPG) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	var model OrderSchema
	if err := withDetails(r.db.WithContext(ctx)).Where("order_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order", fmt.Sprintf("order not found: number=%s", number))
		}
		r.log.Error("failed to get order by number", zap.Error(err), zap.String("order_number", number))
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	o := orderFromSchema(model)
	return &o, nil
}

// List returns a page of orders.
func (r *OrderRepoPG) List(ctx context.Context, req page.Request) (page.Page[order.Order], error) {
	return r.findPage(r.db.WithContext(ctx).Model(&OrderSchema{}), req, "id ASC")
}

// ListByCustomer returns a page of one customer's orders, newest first.
func (r *OrderRepoPG) ListByCustomer(ctx context.Context, customerID int64, req page.Request) (page.Page[order.Order], error) {
	q := r.db.WithContext(ctx).Model(&OrderSchema{}).Where("customer_id = ?", customerID)
	return r.findPage(q, req, "created_at DESC, id DESC")
}

// ListByDateRange returns a page of orders created in [start, end], newest first.
func (r *OrderRepoPG) ListByDateRange(ctx context.Context, start, end time.Time, req page.Request) (page.Page[order.Order], error) {
	q := r.db.WithContext(ctx).Model(&OrderSchema{}).Where("created_at >= ? AND created_at <= ?", start, end)
	return r.findPage(q, req, "created_at DESC, id DESC")
}

// ListHighValue returns committed orders with a total of at least minAmount.
func (r *OrderRepoPG) ListHighValue(ctx context.Context, minAmount decimal.Decimal) ([]order.Order, error) {
	var models []OrderSchema
	if err := withDetails(r.db.WithContext(ctx)).
		Where("status IN ? AND total_amount >= ?", highValueStatuses, minAmount).
		Order("total_amount DESC, id").
		Find(&models).Error; err != nil {
		r.log.Error("failed to list high value orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list high value orders: %w", err)
	}
	return ordersFromSchemas(models), nil
}

// DailySales aggregates orders per day since since, newest day first.
func (r *OrderRepoPG) DailySales(ctx context.Context, since time.Time) ([]order.DailySales, error) {
	var rows []struct {
		Day        time.Time
		OrderCount int64
		Revenue    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&OrderSchema{}).
		Select("DATE(created_at) AS day, COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day DESC").
		Scan(&rows).Error; err != nil {
		r.log.Error("failed to compute daily sales", zap.Error(err), zap.Time("since", since))
		return nil, fmt.Errorf("failed to compute daily sales: %w", err)
	}

	out := make([]order.DailySales, len(rows))
	for i, row := range rows {
		out[i] = order.DailySales{Date: row.Day, OrderCount: row.OrderCount, Revenue: row.Revenue}
	}
	return out, nil
}

// Revenue sums delivered orders whose delivery falls in [start, end].
func (r *OrderRepoPG) Revenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&OrderSchema{}).
		Select("SUM(total_amount)").
		Where("status = ? AND delivered_at >= ? AND delivered_at <= ?", string(order.StatusDelivered), start, end).
		Row().Scan(&total); err != nil {
		r.log.Error("failed to compute revenue", zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to compute revenue: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// StatusCounts counts orders per status created since since, with their average total.
func (r *OrderRepoPG) StatusCounts(ctx context.Context, since time.Time) ([]order.StatusCount, error) {
	var rows []struct {
		Status        string
		Count         int64
		AverageAmount decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&OrderSchema{}).
		Select("status, COUNT(*) AS count, AVG(total_amount) AS average_amount").
		Where("created_at >= ?", since).
		Group("status").
		Order("status").
		Scan(&rows).Error; err != nil {
		r.log.Error("failed to compute status statistics", zap.Error(err))
		return nil, fmt.Errorf("failed to compute status statistics: %w", err)
	}

	out := make([]order.StatusCount, len(rows))
	for i, row := range rows {
		out[i] = order.StatusCount{
			Status:        order.Status(row.Status),
			Count:         row.Count,
			AverageAmount: row.AverageAmount.Decimal.Round(2),
		}
	}
	return out, nil
}

// TopSellingProducts ranks products by revenue from shipped and delivered orders since since.
func (r *OrderRepoPG) TopSellingProducts(ctx context.Context, since time.Time, limit int) ([]order.ProductSales, error) {
	var rows []struct {
		ProductID   int64
		ProductName string
		Quantity    int64
		Revenue     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&OrderItemSchema{}).
		Select("order_items.product_id AS product_id, products.name AS product_name, "+
			"SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.created_at >= ? AND orders.status IN ?", since, soldStatuses).
		Group("order_items.product_id, products.name").
		Order("revenue DESC, product_id").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		r.log.Error("failed to compute top selling products", zap.Error(err))
		return nil, fmt.Errorf("failed to compute top selling products: %w", err)
	}

	out := make([]order.ProductSales, len(rows))
	for i, row := range rows {
		out[i] = order.ProductSales{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue.Round(2),
		}
	}
	return out, nil
}

func (r *OrderRepoPG) findPage(q *gorm.DB, req page.Request, def string) (page.Page[order.Order], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count orders", zap.Error(err))
		return page.Page[order.Order]{}, fmt.Errorf("failed to count orders: %w", err)
	}

	var models []OrderSchema
	if err := withDetails(q.Session(&gorm.Session{})).
		Order(orderClause(req, orderSortColumns, def)).
		Scopes(paginate(req)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list orders", zap.Error(err), zap.Int("page", req.Page), zap.Int("size", req.Size))
		return page.Page[order.Order]{}, fmt.Errorf("failed to list orders: %w", err)
	}

	return page.New(ordersFromSchemas(models), req, total), nil
}
