// Package cache implements a bounded, policy driven object cache that tracks when
// each entry was last touched and can be queried and copied by time window.
package cache

import (
	"iter"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Cache is a bounded key/value cache that records when each entry was last touched
// and evicts according to a Policy once it holds more than its max size.
//
// A touch is an insert, a Put over an existing key, or a successful Get. All methods
// are safe for concurrent use; each holds a single cache-wide lock for its duration.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	items   *store[K, V]
	order   *index[K, V]
	policy  Policy
	maxSize int

	opts   options
	now    func() time.Time
	intn   func(int) int
	logger zerolog.Logger
}

// New returns an empty cache evicting with policy. It fails with ErrInvalidPolicy
// for an unrecognised policy.
func New[K comparable, V any](policy Policy, opts ...Option) (*Cache[K, V], error) {
	if err := validatePolicy(policy); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return newCache[K, V](policy, o), nil
}

func newCache[K comparable, V any](policy Policy, o options) *Cache[K, V] {
	return &Cache[K, V]{
		items:   newStore[K, V](),
		order:   newIndex[K, V](),
		policy:  policy,
		maxSize: o.maxSize,
		opts:    o,
		now:     o.clock,
		intn:    o.intn(),
		logger:  o.logger,
	}
}

func (c *Cache[K, V]) stamp() time.Time {
	return c.now().Truncate(time.Millisecond)
}

// Put associates value with key and touches it. Inserting a new key into a full
// cache first evicts with the active policy so that the bound holds afterwards.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.putLocked(key, value, c.stamp())
}

func (c *Cache[K, V]) putLocked(key K, value V, at time.Time) {
	// Settle any excess left behind by SetMaxSize first.
	c.evictLocked(c.maxSize)

	if e, ok := c.items.lookup(key); ok {
		e.value = value
		c.order.restamp(e, at)
		return
	}

	if c.maxSize != Unbounded {
		c.evictLocked(c.maxSize - 1)
	}
	c.insertLocked(key, value, at)
}

func (c *Cache[K, V]) insertLocked(key K, value V, at time.Time) {
	e := &entry[K, V]{key: key, value: value}
	c.items.add(e)
	c.order.insert(e, at)
}

// upsertLocked stores value under key with a recency taken verbatim from elsewhere.
func (c *Cache[K, V]) upsertLocked(key K, value V, at time.Time) {
	if e, ok := c.items.lookup(key); ok {
		e.value = value
		c.order.restamp(e, at)
		return
	}
	c.insertLocked(key, value, at)
}

func (c *Cache[K, V]) removeLocked(e *entry[K, V]) {
	c.order.delete(e)
	c.items.delete(e)
}

// evictLocked removes entries chosen by the policy until at most limit remain.
func (c *Cache[K, V]) evictLocked(limit int) {
	if c.maxSize == Unbounded || limit < 0 {
		return
	}
	for c.items.len() > limit {
		e := victim(c)
		c.removeLocked(e)
		c.logger.Debug().
			Str("policy", c.policy.String()).
			Interface("key", e.key).
			Time("recency", e.recency).
			Msg("evicted entry")
	}
}

// Get returns the value stored under key and touches it. The boolean reports
// whether the key was present; a miss is not an error.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.order.restamp(e, c.stamp())
	return e.value, true
}

// Remove deletes key. Removing a missing key does nothing.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items.lookup(key); ok {
		c.removeLocked(e)
	}
}

// ContainsKey reports whether key is present without touching it.
func (c *Cache[K, V]) ContainsKey(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items.lookup(key)
	return ok
}

// LastAccessTime returns the recorded recency of key without touching it.
func (c *Cache[K, V]) LastAccessTime(key K) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items.lookup(key)
	if !ok {
		return time.Time{}, false
	}
	return e.recency, true
}

func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.items.len()
}

func (c *Cache[K, V]) IsEmpty() bool {
	return c.Size() == 0
}

// Capacity returns how many more entries fit before eviction starts, or Unbounded.
func (c *Cache[K, V]) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize == Unbounded {
		return Unbounded
	}
	return c.maxSize - c.items.len()
}

func (c *Cache[K, V]) MaxSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.maxSize
}

// SetMaxSize records a new bound without evicting; the next Put settles any excess.
// Values below 1 are ignored.
func (c *Cache[K, V]) SetMaxSize(n int) {
	if n < 1 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxSize = n
}

// Resize sets the bound to n and immediately evicts down to it. Values below 1 are ignored.
func (c *Cache[K, V]) Resize(n int) {
	if n < 1 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxSize = n
	c.evictLocked(n)
}

// SetPolicy changes the policy used by future evictions.
func (c *Cache[K, V]) SetPolicy(p Policy) error {
	if err := validatePolicy(p); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.policy = p
	return nil
}

func (c *Cache[K, V]) Policy() Policy {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.policy
}

// Flush removes every entry.
func (c *Cache[K, V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.clear()
	c.items.clear()
}

// FirstKey returns the key with the smallest recency.
func (c *Cache[K, V]) FirstKey() (K, error) {
	e, err := c.edge(false)
	if err != nil {
		var zero K
		return zero, err
	}
	return e.key, nil
}

// LastKey returns the key with the largest recency.
func (c *Cache[K, V]) LastKey() (K, error) {
	e, err := c.edge(true)
	if err != nil {
		var zero K
		return zero, err
	}
	return e.key, nil
}

// FirstValue returns the value with the smallest recency. It does not touch the entry.
func (c *Cache[K, V]) FirstValue() (V, error) {
	e, err := c.edge(false)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.value, nil
}

// LastValue returns the value with the largest recency. It does not touch the entry.
func (c *Cache[K, V]) LastValue() (V, error) {
	e, err := c.edge(true)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.value, nil
}

func (c *Cache[K, V]) edge(newest bool) (entry[K, V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		e  *entry[K, V]
		ok bool
	)
	if newest {
		e, ok = c.order.newest()
	} else {
		e, ok = c.order.oldest()
	}
	if !ok {
		return entry[K, V]{}, ErrEmptyCache
	}
	return *e, nil
}

// Keys returns every key in ascending recency order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.items.len())
	c.order.ascend(func(e *entry[K, V]) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys
}

// Values returns every value in ascending recency order.
func (c *Cache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make([]V, 0, c.items.len())
	c.order.ascend(func(e *entry[K, V]) bool {
		values = append(values, e.value)
		return true
	})
	return values
}

// All iterates a snapshot of the cache in ascending recency order without touching.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	snapshot := c.snapshot()
	return func(yield func(K, V) bool) {
		for _, e := range snapshot {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// snapshot copies the entries in ascending recency order.
func (c *Cache[K, V]) snapshot() []entry[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]entry[K, V], 0, c.items.len())
	c.order.ascend(func(e *entry[K, V]) bool {
		out = append(out, *e)
		return true
	})
	return out
}

// ToMap returns a copy of the cache contents.
func (c *Cache[K, V]) ToMap() map[K]V {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[K]V, c.items.len())
	for k, e := range c.items.items {
		m[k] = e.value
	}
	return m
}

// PutAll puts every pair of m, exactly as repeated calls to Put would.
func (c *Cache[K, V]) PutAll(m map[K]V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	at := c.stamp()
	for k, v := range m {
		c.putLocked(k, v, at)
	}
}

// Merge copies every entry of other into c, keeping the recency recorded by other.
// Entries already present in c are overwritten. The bound is enforced afterwards.
func (c *Cache[K, V]) Merge(other *Cache[K, V]) {
	if other == nil {
		return
	}
	snapshot := other.snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range snapshot {
		c.upsertLocked(e.key, e.value, e.recency)
	}
	c.evictLocked(c.maxSize)
}
