package cache

// Iterator walks a snapshot of a cache's keys in ascending recency order.
//
//	it := c.Iterator()
//	for it.Next() {
//		use(it.Key())
//	}
type Iterator[K comparable] struct {
	keys []K
	pos  int
}

// Iterator returns an iterator over the keys present at the time of the call.
func (c *Cache[K, V]) Iterator() *Iterator[K] {
	return &Iterator[K]{keys: c.Keys(), pos: -1}
}

func (it *Iterator[K]) Next() bool {
	if it.pos+1 >= len(it.keys) {
		it.pos = len(it.keys)
		return false
	}
	it.pos++
	return true
}

// Key returns the current key. It must only be called after Next returned true.
func (it *Iterator[K]) Key() K {
	return it.keys[it.pos]
}

// Remove is not supported; remove through the cache instead.
func (it *Iterator[K]) Remove() error {
	return ErrUnsupported
}
