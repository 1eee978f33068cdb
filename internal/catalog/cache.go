package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/redisx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a best-effort read cache for product documents. Misses and
// backend failures are equivalent; callers fall through to the store.
type Cache interface {
	GetProduct(ctx context.Context, productID string) (*Product, bool)
	SetProduct(ctx context.Context, p *Product)
	InvalidateProduct(ctx context.Context, productID string)
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) GetProduct(ctx context.Context, productID string) (*Product, bool) {
	key := fmt.Sprintf(redisx.KeyProduct, productID)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.FromCtx(ctx).Warn("dropping corrupt cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return &p, true
}

func (c *redisCache) SetProduct(ctx context.Context, p *Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyProduct, p.ID)
	_ = c.rdb.Set(ctx, key, raw, redisx.TTLProduct).Err()
}

func (c *redisCache) InvalidateProduct(ctx context.Context, productID string) {
	key := fmt.Sprintf(redisx.KeyProduct, productID)
	_ = c.rdb.Del(ctx, key).Err()
}
