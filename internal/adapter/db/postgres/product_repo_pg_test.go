package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"commerce-service/internal/domain/order"
	"commerce-service/internal/domain/page"
	"commerce-service/internal/domain/product"
	apperrors "commerce-service/pkg/errors"
)

// ==================== CRUD TESTS ====================

func TestProductRepoPG_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	weight := decimal.RequireFromString("1.250")
	created, err := repo.Create(ctx, &product.Product{
		Name:          "Laptop",
		Price:         decimal.RequireFromString("999.99"),
		Category:      "Electronics",
		StockQuantity: 15,
		SKU:           "ELE-0000AAAA",
		WeightKg:      &weight,
		Status:        product.StatusActive,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("999.99")))
	require.NotNil(t, got.WeightKg)
	assert.True(t, got.WeightKg.Equal(weight))

	bySKU, err := repo.GetBySKU(ctx, "ELE-0000AAAA")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, created.ID, bySKU.ID)

	none, err := repo.GetBySKU(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = repo.Create(ctx, &product.Product{Name: "Dup", Price: decimal.NewFromInt(1), SKU: "ELE-0000AAAA", Status: product.StatusActive})
	var ae *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &ae)
}

func TestProductRepoPG_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	seeded := seedProduct(t, db, "Mouse", "ACC-1", "Accessories", "19.99", 40)
	p, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)

	p.Price = decimal.RequireFromString("24.99")
	p.StockQuantity = 0
	updated, err := repo.Update(ctx, p)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("24.99")))
	assert.Equal(t, 40, updated.StockQuantity, "update must not change stock")
	assert.Equal(t, p.Version+1, updated.Version)

	_, err = repo.Update(ctx, p)
	var ce *apperrors.ConflictError
	assert.ErrorAs(t, err, &ce)

	_, err = repo.Update(ctx, &product.Product{ID: 999, Name: "Ghost", SKU: "G", Status: product.StatusActive})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProductRepoPG_UpdateStatusAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	seeded := seedProduct(t, db, "Mouse", "ACC-1", "Accessories", "19.99", 40)

	p, err := repo.UpdateStatus(ctx, seeded.ID, product.StatusDiscontinued)
	require.NoError(t, err)
	assert.Equal(t, product.StatusDiscontinued, p.Status)

	_, err = repo.UpdateStatus(ctx, 999, product.StatusActive)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, repo.Delete(ctx, seeded.ID))
	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, seeded.ID)))
}

// ==================== QUERY TESTS ====================

func TestProductRepoPG_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	seedProduct(t, db, "Gaming Laptop", "ELE-1", "Electronics", "1500.00", 5)
	seedProduct(t, db, "Office Laptop", "ELE-2", "Electronics", "700.00", 30)
	seedProduct(t, db, "Desk Chair", "FUR-1", "Furniture", "150.00", 8)
	retired := seedProduct(t, db, "Old Laptop", "ELE-3", "Electronics", "100.00", 2)
	require.NoError(t, db.Model(retired).Update("status", string(product.StatusDiscontinued)).Error)

	t.Run("search active by name", func(t *testing.T) {
		p, err := repo.SearchActive(ctx, "laptop", page.NewRequest(0, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(2), p.TotalElements)
	})

	t.Run("search rejects injection", func(t *testing.T) {
		_, err := repo.SearchActive(ctx, "x'; DROP TABLE products; --", page.NewRequest(0, 10))
		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("filter by category and price", func(t *testing.T) {
		minPrice := decimal.NewFromInt(500)
		maxPrice := decimal.NewFromInt(1000)
		p, err := repo.FilterActive(ctx, product.Filter{Category: "Electronics", MinPrice: &minPrice, MaxPrice: &maxPrice}, page.NewRequest(0, 10))
		require.NoError(t, err)
		require.Len(t, p.Content, 1)
		assert.Equal(t, "Office Laptop", p.Content[0].Name)
	})

	t.Run("sorted page", func(t *testing.T) {
		p, err := repo.List(ctx, page.Request{Page: 0, Size: 2, Sort: "price", Desc: true})
		require.NoError(t, err)
		assert.Equal(t, int64(4), p.TotalElements)
		require.Len(t, p.Content, 2)
		assert.Equal(t, "Gaming Laptop", p.Content[0].Name)
		assert.True(t, p.HasNext)
	})

	t.Run("by category and status", func(t *testing.T) {
		electronics, err := repo.ListByCategory(ctx, "Electronics")
		require.NoError(t, err)
		assert.Len(t, electronics, 3)

		discontinued, err := repo.ListByStatus(ctx, product.StatusDiscontinued)
		require.NoError(t, err)
		require.Len(t, discontinued, 1)
		assert.Equal(t, "Old Laptop", discontinued[0].Name)
	})

	t.Run("categories", func(t *testing.T) {
		categories, err := repo.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Electronics", "Furniture"}, categories)
	})

	t.Run("average price by category", func(t *testing.T) {
		avgs, err := repo.AveragePriceByCategory(ctx)
		require.NoError(t, err)
		require.Len(t, avgs, 2)
		assert.Equal(t, "Electronics", avgs[0].Category)
		assert.True(t, avgs[0].AveragePrice.Equal(decimal.NewFromInt(1100)), avgs[0].AveragePrice.String())
	})

	t.Run("low stock", func(t *testing.T) {
		low, err := repo.ListLowStock(ctx, 10)
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "Gaming Laptop", low[0].Name)
		assert.Equal(t, "Desk Chair", low[1].Name)
	})
}

func TestProductRepoPG_BestSelling(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	c := seedCustomer(t, db, "John", "Doe", "john@example.com")
	mouse := seedProduct(t, db, "Mouse", "ACC-1", "Accessories", "20.00", 100)
	keyboard := seedProduct(t, db, "Keyboard", "ACC-2", "Accessories", "50.00", 100)
	cable := seedProduct(t, db, "Cable", "ACC-3", "Accessories", "5.00", 100)

	now := time.Now().UTC()
	seedOrder(t, db, c.ID, "ORDER-1", order.StatusDelivered, "100.00", now, item(mouse.ID, 5, "20.00"))
	seedOrder(t, db, c.ID, "ORDER-2", order.StatusShipped, "100.00", now, item(keyboard.ID, 2, "50.00"), item(mouse.ID, 1, "20.00"))
	seedOrder(t, db, c.ID, "ORDER-3", order.StatusPending, "500.00", now, item(cable.ID, 100, "5.00"))

	best, err := repo.BestSelling(ctx, 5)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, mouse.ID, best[0].ID)
	assert.Equal(t, keyboard.ID, best[1].ID)

	has, err := repo.HasOrderItems(ctx, cable.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

// ==================== STOCK TESTS ====================

func TestProductRepoPG_StockOperations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	p := seedProduct(t, db, "Mouse", "ACC-1", "Accessories", "19.99", 10)

	t.Run("decrement", func(t *testing.T) {
		change, err := repo.DecrementStock(ctx, p.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 10, change.OldQuantity)
		assert.Equal(t, 6, change.Product.StockQuantity)
	})

	t.Run("decrement beyond available", func(t *testing.T) {
		_, err := repo.DecrementStock(ctx, p.ID, 7)
		var ise *apperrors.InsufficientStockError
		require.ErrorAs(t, err, &ise)
		assert.Equal(t, 6, ise.Available)
		assert.Equal(t, 7, ise.Requested)

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, got.StockQuantity)
	})

	t.Run("decrement unknown product", func(t *testing.T) {
		_, err := repo.DecrementStock(ctx, 999, 1)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("increment", func(t *testing.T) {
		change, err := repo.IncrementStock(ctx, p.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 6, change.OldQuantity)
		assert.Equal(t, 10, change.Product.StockQuantity)

		_, err = repo.IncrementStock(ctx, 999, 1)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("set", func(t *testing.T) {
		change, err := repo.SetStock(ctx, p.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 10, change.OldQuantity)
		assert.Equal(t, 3, change.Product.StockQuantity)

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.StockQuantity)
		assert.Equal(t, change.Product.Version, got.Version)

		_, err = repo.SetStock(ctx, 999, 1)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
