package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"github.com/go-redis/redis/v8"
)

// Cache is a best-effort read cache in front of the catalog and the
// vendor dashboard. Misses and redis failures surface as errors the
// caller ignores after logging.
type Cache struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewCache(cfg *config.RedisConfig) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (c *Cache) CacheProduct(ctx context.Context, product *models.Product) error {
	key := fmt.Sprintf("product:%s", product.ID.Hex())
	return c.setJSON(ctx, key, product, 5*time.Minute)
}

func (c *Cache) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	key := fmt.Sprintf("product:%s", productID)
	var product models.Product
	if err := c.getJSON(ctx, key, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// InvalidateProduct drops the cached entry after a product write.
func (c *Cache) InvalidateProduct(ctx context.Context, productID string) error {
	return c.client.Del(ctx, fmt.Sprintf("product:%s", productID)).Err()
}

func (c *Cache) CacheDashboard(ctx context.Context, vendorID string, dashboard interface{}) error {
	key := fmt.Sprintf("dashboard:%s", vendorID)
	return c.setJSON(ctx, key, dashboard, time.Minute)
}

func (c *Cache) GetDashboard(ctx context.Context, vendorID string, dest interface{}) error {
	return c.getJSON(ctx, fmt.Sprintf("dashboard:%s", vendorID), dest)
}
