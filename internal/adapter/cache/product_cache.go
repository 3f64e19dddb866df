package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"commerce-service/internal/domain/product"
)

const lowStockKey = "products:low-stock"

// ProductCache defines the interface for product caching operations.
type ProductCache interface {
	// Get retrieves a product from cache by ID.
	// Returns nil if the product is not cached.
	Get(ctx context.Context, id int64) (*product.Product, error)

	// Set stores a product in cache with the configured TTL.
	Set(ctx context.Context, p *product.Product) error

	// Delete removes products from cache by IDs.
	Delete(ctx context.Context, ids ...int64) error

	// GetLowStock returns the cached low-stock list, or nil on a miss.
	GetLowStock(ctx context.Context) ([]product.Product, error)

	// SetLowStock caches the low-stock list.
	SetLowStock(ctx context.Context, products []product.Product) error

	// EvictLowStock drops the cached low-stock list.
	EvictLowStock(ctx context.Context) error
}

// RedisProductCache implements ProductCache using Redis as the backing store.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisProductCache creates a new Redis-backed product cache.
func NewRedisProductCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisProductCache {
	return &RedisProductCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (c *RedisProductCache) cacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// Get retrieves a product from Redis cache.
func (c *RedisProductCache) Get(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	hit, err := c.getJSON(ctx, c.cacheKey(id), &p)
	if err != nil {
		c.log.Error("failed to get product from cache", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}
	if !hit {
		c.log.Debug("cache miss", zap.Int64("product_id", id))
		return nil, nil
	}

	c.log.Debug("cache hit", zap.Int64("product_id", id))
	return &p, nil
}

// Set stores a product in Redis cache with TTL.
func (c *RedisProductCache) Set(ctx context.Context, p *product.Product) error {
	if p == nil {
		return errors.New("cannot cache nil product")
	}

	if err := c.setJSON(ctx, c.cacheKey(p.ID), p); err != nil {
		c.log.Error("failed to set cache", zap.Int64("product_id", p.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached product", zap.Int64("product_id", p.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes products from Redis cache.
func (c *RedisProductCache) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.cacheKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int("count", len(ids)), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int64s("product_ids", ids))
	return nil
}

// GetLowStock returns the cached low-stock list.
func (c *RedisProductCache) GetLowStock(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	hit, err := c.getJSON(ctx, lowStockKey, &products)
	if err != nil {
		c.log.Error("failed to get low-stock list from cache", zap.Error(err))
		return nil, err
	}
	if !hit {
		return nil, nil
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// SetLowStock caches the low-stock list.
func (c *RedisProductCache) SetLowStock(ctx context.Context, products []product.Product) error {
	if products == nil {
		products = []product.Product{}
	}
	if err := c.setJSON(ctx, lowStockKey, products); err != nil {
		c.log.Error("failed to cache low-stock list", zap.Error(err))
		return err
	}
	return nil
}

// EvictLowStock drops the cached low-stock list.
func (c *RedisProductCache) EvictLowStock(ctx context.Context) error {
	if err := c.client.Del(ctx, lowStockKey).Err(); err != nil {
		c.log.Error("failed to evict low-stock list", zap.Error(err))
		return err
	}
	return nil
}

func (c *RedisProductCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisProductCache) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
