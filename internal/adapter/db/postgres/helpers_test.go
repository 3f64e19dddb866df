package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"commerce-service/internal/domain/customer"
	"commerce-service/internal/domain/order"
	"commerce-service/internal/domain/product"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive across queries
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(AllSchemas()...)
	require.NoError(t, err)

	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, first, last, email string) *CustomerSchema {
	m := &CustomerSchema{FirstName: first, LastName: last, Email: email, CustomerType: customer.DefaultType}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedProduct(t *testing.T, db *gorm.DB, name, sku, category string, price string, stock int) *ProductSchema {
	m := &ProductSchema{
		Name:          name,
		SKU:           sku,
		Category:      category,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Status:        string(product.StatusActive),
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// seedOrder inserts an order directly, bypassing stock reservation.
func seedOrder(t *testing.T, db *gorm.DB, customerID int64, number string, status order.Status, total string, createdAt time.Time, items ...OrderItemSchema) *OrderSchema {
	m := &OrderSchema{
		OrderNumber: number,
		CustomerID:  customerID,
		Status:      string(status),
		TotalAmount: decimal.RequireFromString(total),
		Items:       items,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.WithContext(context.Background()).Omit("Customer").Create(m).Error)
	return m
}

func item(productID int64, qty int, unitPrice string) OrderItemSchema {
	price := decimal.RequireFromString(unitPrice)
	return OrderItemSchema{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: price,
		Subtotal:  price.Mul(decimal.NewFromInt(int64(qty))),
	}
}
