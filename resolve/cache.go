package resolve

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/wippyai/duckwings/descriptor"
)

// Cache memoizes structural resolution verdicts per (delegate type,
// descriptor). A verdict is a pure function of its key, so concurrent
// callers may compute the same entry twice; the first stored value wins.
type Cache struct {
	entries sync.Map // cacheKey -> verdict
	size    atomic.Int64
	hits    atomic.Int64
	misses  atomic.Int64
}

type cacheKey struct {
	typ  reflect.Type
	desc descriptor.Descriptor
}

type verdict struct {
	method Method
	found  bool
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

var (
	shared     *Cache
	sharedOnce sync.Once
)

// Shared returns the process-scoped cache used when no other is injected.
func Shared() *Cache {
	sharedOnce.Do(func() {
		shared = NewCache()
	})
	return shared
}

func (c *Cache) load(key cacheKey) (verdict, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		c.misses.Add(1)
		return verdict{}, false
	}
	c.hits.Add(1)
	return v.(verdict), true
}

func (c *Cache) store(key cacheKey, v verdict) verdict {
	actual, loaded := c.entries.LoadOrStore(key, v)
	if !loaded {
		c.size.Add(1)
	}
	return actual.(verdict)
}

// Len returns the number of cached verdicts.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Stats returns lookup hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
