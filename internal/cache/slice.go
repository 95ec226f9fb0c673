package cache

import "time"

var (
	beginningOfTime = time.Time{}
	endOfTime       = time.Unix(1<<63-62135596801, 999999999)
)

// CacheSlice returns a new cache with the same policy and max size holding the
// entries whose recency lies in [from, to]. Recency values are copied, not refreshed.
func (c *Cache[K, V]) CacheSlice(from, to time.Time) *Cache[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := newCache[K, V](c.policy, c.opts)
	out.maxSize = c.maxSize
	c.order.window(from, to, func(e *entry[K, V]) bool {
		out.insertLocked(e.key, e.value, e.recency)
		return true
	})
	out.evictLocked(out.maxSize)
	return out
}

// CacheSliceFrom is CacheSlice with no upper bound.
func (c *Cache[K, V]) CacheSliceFrom(from time.Time) *Cache[K, V] {
	return c.CacheSlice(from, endOfTime)
}

// CacheSliceTo is CacheSlice with no lower bound.
func (c *Cache[K, V]) CacheSliceTo(to time.Time) *Cache[K, V] {
	return c.CacheSlice(beginningOfTime, to)
}

// Slice returns the key/value pairs whose recency lies in [from, to].
func (c *Cache[K, V]) Slice(from, to time.Time) map[K]V {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[K]V)
	c.order.window(from, to, func(e *entry[K, V]) bool {
		m[e.key] = e.value
		return true
	})
	return m
}

func (c *Cache[K, V]) SliceFrom(from time.Time) map[K]V {
	return c.Slice(from, endOfTime)
}

func (c *Cache[K, V]) SliceTo(to time.Time) map[K]V {
	return c.Slice(beginningOfTime, to)
}
