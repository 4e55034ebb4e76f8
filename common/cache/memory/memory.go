// Package memory is an in-process cache.Cache for single-node runs and tests.
package memory

import (
	"context"
	"encoding"
	"sync"
	"time"

	"recnorm/common/cache"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

type Cache struct {
	mu         sync.RWMutex
	items      map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	closed     bool
	stop       chan struct{}
	wg         sync.WaitGroup
}

// New starts a janitor that evicts expired entries every CleanupInterval.
// A zero interval disables it; expired entries are still never returned.
func New(opts cache.Options) *Cache {
	ttl := opts.DefaultTTL
	if ttl == 0 {
		ttl = cache.DefaultOptions().DefaultTTL
	}
	c := &Cache{
		items:      make(map[string]entry),
		defaultTTL: ttl,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		c.wg.Add(1)
		go c.janitor(opts.CleanupInterval)
	}
	return c
}

func (c *Cache) janitor(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache) evictExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
		}
	}
}

func (c *Cache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return cache.ErrInvalidKey
	}
	var b []byte
	switch v := value.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = append([]byte(nil), v...)
	case encoding.BinaryMarshaler:
		var err error
		if b, err = v.MarshalBinary(); err != nil {
			return err
		}
	default:
		return cache.ErrInvalidValue
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return cache.ErrClosed
	}
	c.items[key] = entry{value: b, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *Cache) Get(_ context.Context, key string, value any) error {
	c.mu.RLock()
	e, ok := c.items[key]
	closed := c.closed
	c.mu.RUnlock()

	if closed {
		return cache.ErrClosed
	}
	if !ok || !c.now().Before(e.expiresAt) {
		return cache.ErrNotFound
	}

	switch v := value.(type) {
	case *string:
		*v = string(e.value)
	case *[]byte:
		*v = append([]byte(nil), e.value...)
	case encoding.BinaryUnmarshaler:
		return v.UnmarshalBinary(e.value)
	default:
		return cache.ErrInvalidValue
	}
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *Cache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
	return nil
}

func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	c.wg.Wait()
	return nil
}
