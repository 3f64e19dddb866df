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
	"commerce-service/pkg/security"
)

var productSortColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"price":         "price",
	"category":      "category",
	"stockQuantity": "stock_quantity",
	"createdAt":     "created_at",
}

// ProductRepoPG implements the product and inventory repositories using PostgreSQL and GORM.
type ProductRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProductRepoPG creates a new instance of ProductRepoPG.
func NewProductRepoPG(db *gorm.DB, log *zap.Logger) *ProductRepoPG {
	return &ProductRepoPG{db: db, log: log}
}

func productNotFound(id int64) error {
	return apperrors.NewNotFoundError("product", fmt.Sprintf("product not found: id=%d", id))
}

// Create inserts a new product.
func (r *ProductRepoPG) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	if p == nil {
		return nil, errors.New("product cannot be nil")
	}

	model := productToSchema(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewAlreadyExistsError("product", fmt.Sprintf("product with sku %s already exists", p.SKU))
		}
		r.log.Error("failed to create product in db", zap.Error(err), zap.String("sku", p.SKU))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.log.Info("product created in db", zap.Int64("id", model.ID), zap.String("sku", model.SKU))
	created := productFromSchema(model)
	return &created, nil
}

// Update saves all editable fields with optimistic locking on version.
// Stock is not touched; use the stock operations for that.
func (r *ProductRepoPG) Update(ctx context.Context, p *product.Product) (*product.Product, error) {
	if p == nil {
		return nil, errors.New("product cannot be nil")
	}

	res := r.db.WithContext(ctx).Model(&ProductSchema{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"category":    p.Category,
			"sku":         p.SKU,
			"weight_kg":   p.WeightKg,
			"status":      string(p.Status),
			"version":     gorm.Expr("version + 1"),
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, apperrors.NewAlreadyExistsError("product", fmt.Sprintf("product with sku %s already exists", p.SKU))
		}
		r.log.Error("failed to update product in db", zap.Error(res.Error), zap.Int64("id", p.ID))
		return nil, fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return nil, err
		}
		return nil, apperrors.NewConflictError("product was modified concurrently, retry the update")
	}

	r.log.Info("product updated in db", zap.Int64("id", p.ID))
	return r.GetByID(ctx, p.ID)
}

// UpdateStatus changes only the status of a product.
func (r *ProductRepoPG) UpdateStatus(ctx context.Context, id int64, status product.Status) (*product.Product, error) {
	res := r.db.WithContext(ctx).Model(&ProductSchema{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		r.log.Error("failed to update product status", zap.Error(res.Error), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to update product status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, productNotFound(id)
	}

	r.log.Info("product status updated", zap.Int64("id", id), zap.String("status", string(status)))
	return r.GetByID(ctx, id)
}

// Delete removes a product by ID.
func (r *ProductRepoPG) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&ProductSchema{}, id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return apperrors.NewConflictError(fmt.Sprintf("product %d is referenced by orders", id))
		}
		r.log.Error("failed to delete product in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return productNotFound(id)
	}

	r.log.Info("product deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepoPG) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var model ProductSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("product not found", zap.Int64("id", id))
			return nil, productNotFound(id)
		}
		r.log.Error("failed to get product from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	p := productFromSchema(model)
	return &p, nil
}

// GetBySKU retrieves a product by SKU. It returns nil, nil when none exists.
func (r *ProductRepoPG) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var model ProductSchema
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("product not found by sku", zap.String("sku", sku))
			return nil, nil
		}
		r.log.Error("failed to get product by sku", zap.Error(err), zap.String("sku", sku))
		return nil, fmt.Errorf("failed to get product by sku: %w", err)
	}

	p := productFromSchema(model)
	return &p, nil
}

// List returns a page of products.
func (r *ProductRepoPG) List(ctx context.Context, req page.Request) (page.Page[product.Product], error) {
	return r.findPage(r.db.WithContext(ctx).Model(&ProductSchema{}), req)
}

// ListByCategory returns all products in a category.
func (r *ProductRepoPG) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	return r.findAll(r.db.WithContext(ctx).Where("category = ?", category).Order("name"))
}

// ListByStatus returns all products with the given status.
func (r *ProductRepoPG) ListByStatus(ctx context.Context, status product.Status) ([]product.Product, error) {
	return r.findAll(r.db.WithContext(ctx).Where("status = ?", string(status)).Order("name"))
}

// SearchActive returns active products whose name contains name, case-insensitively.
func (r *ProductRepoPG) SearchActive(ctx context.Context, name string, req page.Request) (page.Page[product.Product], error) {
	validated, err := security.ValidateSearchQuery(name)
	if err != nil {
		r.log.Warn("invalid product search query", zap.String("query", name), zap.Error(err))
		return page.Page[product.Product]{}, apperrors.NewValidationError("name", fmt.Sprintf("invalid search query: %v", err))
	}

	q := r.db.WithContext(ctx).Model(&ProductSchema{}).
		Where("status = ?", string(product.StatusActive)).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", security.ContainsPattern(validated))
	return r.findPage(q, req)
}

// FilterActive returns active products matching the optional category and price bounds.
func (r *ProductRepoPG) FilterActive(ctx context.Context, f product.Filter, req page.Request) (page.Page[product.Product], error) {
	q := r.db.WithContext(ctx).Model(&ProductSchema{}).Where("status = ?", string(product.StatusActive))
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	return r.findPage(q, req)
}

// HasOrderItems reports whether any order line references the product.
func (r *ProductRepoPG) HasOrderItems(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderItemSchema{}).Where("product_id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product order items: %w", err)
	}
	return count > 0, nil
}

// Categories returns the distinct categories of active products, sorted.
func (r *ProductRepoPG) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&ProductSchema{}).
		Where("status = ? AND category <> ''", string(product.StatusActive)).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		r.log.Error("failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// AveragePriceByCategory returns the mean price of active products per category.
func (r *ProductRepoPG) AveragePriceByCategory(ctx context.Context) ([]product.CategoryAverage, error) {
	var rows []struct {
		Category     string
		AveragePrice decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&ProductSchema{}).
		Select("category, AVG(price) AS average_price").
		Where("status = ?", string(product.StatusActive)).
		Group("category").
		Order("category").
		Scan(&rows).Error; err != nil {
		r.log.Error("failed to compute average price by category", zap.Error(err))
		return nil, fmt.Errorf("failed to compute average price by category: %w", err)
	}

	out := make([]product.CategoryAverage, len(rows))
	for i, row := range rows {
		out[i] = product.CategoryAverage{
			Category:     row.Category,
			AveragePrice: row.AveragePrice.Round(2),
		}
	}
	return out, nil
}

// BestSelling returns products ordered by quantity sold in shipped or delivered orders.
func (r *ProductRepoPG) BestSelling(ctx context.Context, limit int) ([]product.Product, error) {
	var models []ProductSchema
	if err := r.db.WithContext(ctx).
		Select("products.*").
		Joins("JOIN order_items ON order_items.product_id = products.id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", []string{string(order.StatusShipped), string(order.StatusDelivered)}).
		Group("products.id").
		Order("SUM(order_items.quantity) DESC, products.id").
		Limit(limit).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list best selling products", zap.Error(err))
		return nil, fmt.Errorf("failed to list best selling products: %w", err)
	}
	return productsFromSchemas(models), nil
}

// DecrementStock atomically removes qty units when enough stock is available.
func (r *ProductRepoPG) DecrementStock(ctx context.Context, id int64, qty int) (*product.StockChange, error) {
	var change *product.StockChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		change, err = decrementStock(tx, id, qty)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("stock decremented", zap.Int64("product_id", id), zap.Int("quantity", qty),
		zap.Int("new_stock", change.Product.StockQuantity))
	return change, nil
}

// IncrementStock atomically adds qty units.
func (r *ProductRepoPG) IncrementStock(ctx context.Context, id int64, qty int) (*product.StockChange, error) {
	var change *product.StockChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ProductSchema{}).Where("id = ?", id).Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now().UTC(),
		})
		if res.Error != nil {
			return fmt.Errorf("failed to increment stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return productNotFound(id)
		}
		var model ProductSchema
		if err := tx.First(&model, id).Error; err != nil {
			return fmt.Errorf("failed to reload product: %w", err)
		}
		change = &product.StockChange{Product: productFromSchema(model), OldQuantity: model.StockQuantity - qty}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("stock incremented", zap.Int64("product_id", id), zap.Int("quantity", qty),
		zap.Int("new_stock", change.Product.StockQuantity))
	return change, nil
}

// SetStock replaces the stock level and reports the previous one.
func (r *ProductRepoPG) SetStock(ctx context.Context, id int64, qty int) (*product.StockChange, error) {
	var change *product.StockChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model ProductSchema
		if err := tx.Clauses(lockingClause(tx)...).First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return productNotFound(id)
			}
			return fmt.Errorf("failed to load product: %w", err)
		}
		old := model.StockQuantity
		if err := tx.Model(&ProductSchema{}).Where("id = ?", id).Updates(map[string]any{
			"stock_quantity": qty,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now().UTC(),
		}).Error; err != nil {
			return fmt.Errorf("failed to set stock: %w", err)
		}
		model.StockQuantity = qty
		model.Version++
		change = &product.StockChange{Product: productFromSchema(model), OldQuantity: old}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("stock set", zap.Int64("product_id", id), zap.Int("old_stock", change.OldQuantity), zap.Int("new_stock", qty))
	return change, nil
}

// ListLowStock returns active products whose stock is at or below threshold.
func (r *ProductRepoPG) ListLowStock(ctx context.Context, threshold int) ([]product.Product, error) {
	return r.findAll(r.db.WithContext(ctx).
		Where("status = ? AND stock_quantity <= ?", string(product.StatusActive), threshold).
		Order("stock_quantity, id"))
}

// decrementStock runs the conditional decrement inside tx. It is shared with
// order creation so that reservation and order insert commit together.
func decrementStock(tx *gorm.DB, id int64, qty int) (*product.StockChange, error) {
	res := tx.Model(&ProductSchema{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", res.Error)
	}

	var model ProductSchema
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productNotFound(id)
		}
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	if res.RowsAffected == 0 {
		return nil, apperrors.NewInsufficientStockError(id, qty, model.StockQuantity)
	}

	return &product.StockChange{Product: productFromSchema(model), OldQuantity: model.StockQuantity + qty}, nil
}

func (r *ProductRepoPG) findAll(q *gorm.DB) ([]product.Product, error) {
	var models []ProductSchema
	if err := q.Find(&models).Error; err != nil {
		r.log.Error("failed to query products", zap.Error(err))
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return productsFromSchemas(models), nil
}

func (r *ProductRepoPG) findPage(q *gorm.DB, req page.Request) (page.Page[product.Product], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count products", zap.Error(err))
		return page.Page[product.Product]{}, fmt.Errorf("failed to count products: %w", err)
	}

	var models []ProductSchema
	if err := q.Session(&gorm.Session{}).
		Order(orderClause(req, productSortColumns, "id ASC")).
		Scopes(paginate(req)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list products", zap.Error(err), zap.Int("page", req.Page), zap.Int("size", req.Size))
		return page.Page[product.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}

	return page.New(productsFromSchemas(models), req, total), nil
}
