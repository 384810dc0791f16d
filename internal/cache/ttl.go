package cache

import (
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// TTL is a key -> (value, stored-at) map with a fixed time to live.
// A ttl of zero or less disables caching.
type TTL struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry

	// Now is the clock used for expiry checks.
	Now func() time.Time
}

func New(ttl time.Duration) *TTL {
	return &TTL{
		ttl:   ttl,
		items: map[string]entry{},
		Now:   time.Now,
	}
}

// Get returns the cached value for key if it has not expired.
func (c *TTL) Get(key string) (any, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.Now().Sub(e.storedAt) >= c.ttl {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

func (c *TTL) Set(key string, value any) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{value: value, storedAt: c.Now()}
}

func (c *TTL) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Flush drops every entry.
func (c *TTL) Flush() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]entry{}
}

func (c *TTL) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
