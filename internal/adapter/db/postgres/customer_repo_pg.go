package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"commerce-service/internal/domain/customer"
	"commerce-service/internal/domain/order"
	"commerce-service/internal/domain/page"
	apperrors "commerce-service/pkg/errors"
	"commerce-service/pkg/security"
)

var customerSortColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"createdAt": "created_at",
}

// CustomerRepoPG implements the customer Repository using PostgreSQL and GORM.
type CustomerRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewCustomerRepoPG creates a new instance of CustomerRepoPG.
func NewCustomerRepoPG(db *gorm.DB, log *zap.Logger) *CustomerRepoPG {
	return &CustomerRepoPG{db: db, log: log}
}

// Create inserts a customer and its addresses.
func (r *CustomerRepoPG) Create(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	if c == nil {
		return nil, errors.New("customer cannot be nil")
	}

	model := customerToSchema(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewAlreadyExistsError("customer", fmt.Sprintf("customer with email %s already exists", c.Email))
		}
		r.log.Error("failed to create customer in db", zap.Error(err), zap.String("email", c.Email))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	r.log.Info("customer created in db", zap.Int64("id", model.ID))
	created := customerFromSchema(model)
	return &created, nil
}

// Update saves scalar fields using optimistic locking on version. When
// c.Addresses is non-nil the stored addresses are replaced.
func (r *CustomerRepoPG) Update(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	if c == nil {
		return nil, errors.New("customer cannot be nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&CustomerSchema{}).
			Where("id = ? AND version = ?", c.ID, c.Version).
			Updates(map[string]any{
				"first_name":    c.FirstName,
				"last_name":     c.LastName,
				"email":         c.Email,
				"phone":         c.Phone,
				"customer_type": c.CustomerType,
				"version":       gorm.Expr("version + 1"),
				"updated_at":    time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&CustomerSchema{}).Where("id = ?", c.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperrors.NewNotFoundError("customer", fmt.Sprintf("customer not found: id=%d", c.ID))
			}
			return apperrors.NewConflictError("customer was modified concurrently, retry the update")
		}

		if c.Addresses != nil {
			if err := tx.Where("customer_id = ?", c.ID).Delete(&AddressSchema{}).Error; err != nil {
				return err
			}
			if addrs := addressesToSchema(c.ID, c.Addresses); len(addrs) > 0 {
				for i := range addrs {
					addrs[i].ID = 0
				}
				if err := tx.Create(&addrs).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewAlreadyExistsError("customer", fmt.Sprintf("customer with email %s already exists", c.Email))
		}
		var nf *apperrors.NotFoundError
		var ce *apperrors.ConflictError
		if errors.As(err, &nf) || errors.As(err, &ce) {
			return nil, err
		}
		r.log.Error("failed to update customer in db", zap.Error(err), zap.Int64("id", c.ID))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	r.log.Info("customer updated in db", zap.Int64("id", c.ID))
	return r.GetByID(ctx, c.ID)
}

// Delete removes a customer and its addresses.
func (r *CustomerRepoPG) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&AddressSchema{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&CustomerSchema{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NewNotFoundError("customer", fmt.Sprintf("customer not found: id=%d", id))
		}
		return nil
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("customer %d has orders and cannot be deleted", id))
		}
		r.log.Error("failed to delete customer in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	r.log.Info("customer deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a customer with addresses by ID.
func (r *CustomerRepoPG) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var model CustomerSchema
	if err := r.db.WithContext(ctx).Preload("Addresses").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("customer not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("customer", fmt.Sprintf("customer not found: id=%d", id))
		}
		r.log.Error("failed to get customer from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	c := customerFromSchema(model)
	return &c, nil
}

// GetByEmail retrieves a customer by email. It returns nil, nil when none exists.
func (r *CustomerRepoPG) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var model CustomerSchema
	if err := r.db.WithContext(ctx).Preload("Addresses").Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("customer not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get customer by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	c := customerFromSchema(model)
	return &c, nil
}

// List returns a page of customers.
func (r *CustomerRepoPG) List(ctx context.Context, req page.Request) (page.Page[customer.Customer], error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&CustomerSchema{}), req)
}

// SearchByName returns customers whose first or last name contains name, case-insensitively.
func (r *CustomerRepoPG) SearchByName(ctx context.Context, name string, req page.Request) (page.Page[customer.Customer], error) {
	validated, err := security.ValidateSearchQuery(name)
	if err != nil {
		r.log.Warn("invalid customer search query", zap.String("query", name), zap.Error(err))
		return page.Page[customer.Customer]{}, apperrors.NewValidationError("name", fmt.Sprintf("invalid search query: %v", err))
	}

	pattern := security.ContainsPattern(validated)
	q := r.db.WithContext(ctx).Model(&CustomerSchema{}).
		Where("LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\'", pattern, pattern)
	return r.findPage(ctx, q, req)
}

// ListByType returns all customers of a given type.
func (r *CustomerRepoPG) ListByType(ctx context.Context, customerType string) ([]customer.Customer, error) {
	return r.findAll(ctx, r.db.WithContext(ctx).Where("customer_type = ?", customerType))
}

// ListActive returns customers with at least minOrders orders created in [start, end].
func (r *CustomerRepoPG) ListActive(ctx context.Context, start, end time.Time, minOrders int) ([]customer.Customer, error) {
	sub := r.db.WithContext(ctx).Model(&OrderSchema{}).
		Select("customer_id").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("customer_id").
		Having("COUNT(*) >= ?", minOrders)
	return r.findAll(ctx, r.db.WithContext(ctx).Where("id IN (?)", sub))
}

// ListHighValue returns customers with a delivered order of at least minAmount placed since since.
func (r *CustomerRepoPG) ListHighValue(ctx context.Context, minAmount decimal.Decimal, since time.Time) ([]customer.Customer, error) {
	sub := r.db.WithContext(ctx).Model(&OrderSchema{}).
		Select("customer_id").
		Where("status = ? AND total_amount >= ? AND created_at >= ?", string(order.StatusDelivered), minAmount, since)
	return r.findAll(ctx, r.db.WithContext(ctx).Where("id IN (?)", sub))
}

// ListByTotalSpending returns customers whose orders sum to at least total.
func (r *CustomerRepoPG) ListByTotalSpending(ctx context.Context, total decimal.Decimal) ([]customer.Customer, error) {
	sub := r.db.WithContext(ctx).Model(&OrderSchema{}).
		Select("customer_id").
		Group("customer_id").
		Having("SUM(total_amount) >= CAST(? AS NUMERIC)", total)
	return r.findAll(ctx, r.db.WithContext(ctx).Where("id IN (?)", sub))
}

// CountCreatedSince counts customers registered at or after since.
func (r *CustomerRepoPG) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CustomerSchema{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		r.log.Error("failed to count new customers", zap.Error(err), zap.Time("since", since))
		return 0, fmt.Errorf("failed to count new customers: %w", err)
	}
	return count, nil
}

// CountOrders counts the customer's orders that are not cancelled.
func (r *CustomerRepoPG) CountOrders(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderSchema{}).
		Where("customer_id = ? AND status <> ?", id, string(order.StatusCancelled)).
		Count(&count).Error; err != nil {
		r.log.Error("failed to count customer orders", zap.Error(err), zap.Int64("id", id))
		return 0, fmt.Errorf("failed to count customer orders: %w", err)
	}
	return count, nil
}

// HasOrders reports whether any order references the customer.
func (r *CustomerRepoPG) HasOrders(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderSchema{}).Where("customer_id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check customer orders: %w", err)
	}
	return count > 0, nil
}

func (r *CustomerRepoPG) findAll(ctx context.Context, q *gorm.DB) ([]customer.Customer, error) {
	var models []CustomerSchema
	if err := q.Preload("Addresses").Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to query customers", zap.Error(err))
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}

	out := make([]customer.Customer, len(models))
	for i, m := range models {
		out[i] = customerFromSchema(m)
	}
	return out, nil
}

func (r *CustomerRepoPG) findPage(ctx context.Context, q *gorm.DB, req page.Request) (page.Page[customer.Customer], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count customers", zap.Error(err))
		return page.Page[customer.Customer]{}, fmt.Errorf("failed to count customers: %w", err)
	}

	var models []CustomerSchema
	if err := q.Session(&gorm.Session{}).
		Preload("Addresses").
		Order(orderClause(req, customerSortColumns, "id ASC")).
		Scopes(paginate(req)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list customers", zap.Error(err), zap.Int("page", req.Page), zap.Int("size", req.Size))
		return page.Page[customer.Customer]{}, fmt.Errorf("failed to list customers: %w", err)
	}

	out := make([]customer.Customer, len(models))
	for i, m := range models {
		out[i] = customerFromSchema(m)
	}
	return page.New(out, req, total), nil
}
