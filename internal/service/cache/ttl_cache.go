package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	v   []byte
	exp time.Time
}

// TTLCache is the in-process fallback used when Redis is disabled.
// Expired entries are removed lazily on read, and swept whenever the map doubles.
type TTLCache struct {
	mu      sync.RWMutex
	m       map[string]entry
	now     func() time.Time
	sweepAt int
}

const minSweepAt = 1024

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), now: time.Now, sweepAt: minSweepAt}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{v: value, exp: exp}
	if len(c.m) >= c.sweepAt {
		c.sweepLocked()
		c.sweepAt = max(minSweepAt, 2*len(c.m))
	}
	c.mu.Unlock()
	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (c *TTLCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

func (c *TTLCache) sweepLocked() int {
	now := c.now()
	n := 0
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
			n++
		}
	}
	return n
}
