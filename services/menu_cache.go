package services

import (
	"context"
	"sync"
	"time"

	"snackshop-line/models"
	"snackshop-line/store"
)

// MenuCache serves the read-only menu from memory for a fixed TTL so every
// order doesn't hit the store. A TTL of zero disables caching.
type MenuCache struct {
	store store.Store
	ttl   time.Duration

	mu      sync.Mutex
	items   []models.MenuItem
	expires time.Time
}

func NewMenuCache(st store.Store, ttl time.Duration) *MenuCache {
	return &MenuCache{store: st, ttl: ttl}
}

func (c *MenuCache) Items(ctx context.Context) ([]models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items != nil && time.Now().Before(c.expires) {
		return c.items, nil
	}
	items, err := c.store.ListMenu(ctx)
	if err != nil {
		// Serve the stale copy rather than fail the order.
		if c.items != nil {
			return c.items, nil
		}
		return nil, err
	}
	c.items = items
	c.expires = time.Now().Add(c.ttl)
	return items, nil
}
