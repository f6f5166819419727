package stockcache

import (
	"context"
	"sync"
)

// memoryCache backs tests and redis-less deployments.
type memoryCache struct {
	mu     sync.RWMutex
	stocks map[string]int
}

func NewMemory() Cache {
	return &memoryCache{stocks: make(map[string]int)}
}

func (c *memoryCache) Get(ctx context.Context, productID string) (int, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stock, ok := c.stocks[productID]
	return stock, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, productID string, stock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stocks[productID] = stock
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, productIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		delete(c.stocks, id)
	}
	return nil
}
