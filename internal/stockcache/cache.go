package stockcache

import (
	"context"
	"strconv"
	"time"

	"speego-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache holds the point-in-time stock snapshot the advisory stock gate reads.
// Values are allowed to go stale; the database stays authoritative and the
// checkout transaction re-checks stock with a conditional decrement.
type Cache interface {
	Get(ctx context.Context, productID string) (int, bool, error)
	Set(ctx context.Context, productID string, stock int) error
	Invalidate(ctx context.Context, productIDs ...string) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

const keyPrefix = "stock:"

// DefaultTTL keeps snapshots short-lived so admin edits and concurrent
// checkouts converge without explicit coordination.
const DefaultTTL = 5 * time.Minute

func New(client *redis.Client, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache{client: client, ttl: ttl}
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (c *redisCache) Get(ctx context.Context, productID string) (int, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+productID).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	stock, err := strconv.Atoi(val)
	if err != nil {
		// corrupt entry, drop it
		_ = c.client.Del(ctx, keyPrefix+productID).Err()
		return 0, false, nil
	}

	return stock, true, nil
}

func (c *redisCache) Set(ctx context.Context, productID string, stock int) error {
	return c.client.Set(ctx, keyPrefix+productID, strconv.Itoa(stock), c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, keyPrefix+id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate stock snapshot",
			zap.Strings("product_ids", productIDs),
			zap.Error(err),
		)
		return err
	}
	return nil
}
