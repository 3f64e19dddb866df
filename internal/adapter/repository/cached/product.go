package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"commerce-service/internal/adapter/cache"
	domain "commerce-service/internal/domain/product"
	"commerce-service/internal/usecase/product"
)

// ProductRepository implements product.Repository with caching support.
// Reads by ID go through the cache; writes invalidate it. Every other
// method is served by the embedded persistent repository.
type ProductRepository struct {
	product.Repository
	cache cache.ProductCache
	log   *zap.Logger
	group singleflight.Group
}

// NewProductRepository wraps dbRepo with c. A nil cache disables caching.
func NewProductRepository(dbRepo product.Repository, c cache.ProductCache, log *zap.Logger) *ProductRepository {
	return &ProductRepository{
		Repository: dbRepo,
		cache:      c,
		log:        log,
	}
}

// GetByID retrieves a product by ID using Cache-Aside pattern.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("product:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Another caller may have populated the cache while we waited
		if r.cache != nil {
			cached, err := r.cache.Get(ctx, id)
			if err == nil && cached != nil {
				return cached, nil
			}
		}

		p, err := r.Repository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, p); err != nil {
				r.log.Warn("failed to cache product", zap.Int64("id", id), zap.Error(err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.Product), nil
}

// Create inserts through the DB repository and drops the low-stock list.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created, err := r.Repository.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

// Update updates the product in DB and invalidates the cache.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	updated, err := r.Repository.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, p.ID)
	return updated, nil
}

// UpdateStatus changes the status in DB and invalidates the cache.
func (r *ProductRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Product, error) {
	updated, err := r.Repository.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return updated, nil
}

// Delete deletes the product from DB and invalidates the cache.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *ProductRepository) invalidate(ctx context.Context, ids ...int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, ids...); err != nil {
		r.log.Warn("failed to invalidate product cache", zap.Int64s("ids", ids), zap.Error(err))
	}
	// Status and creation change which products count as low stock
	if err := r.cache.EvictLowStock(ctx); err != nil {
		r.log.Warn("failed to invalidate low-stock cache", zap.Error(err))
	}
}
