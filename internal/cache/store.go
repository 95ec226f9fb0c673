package cache

import "time"

type entry[K comparable, V any] struct {
	key     K
	value   V
	recency time.Time
	seq     uint64
	slot    int
}

// store holds the entries keyed for lookup, plus a dense slot slice so that a
// uniformly random entry can be picked in O(1).
type store[K comparable, V any] struct {
	items map[K]*entry[K, V]
	slots []*entry[K, V]
}

func newStore[K comparable, V any]() *store[K, V] {
	return &store[K, V]{items: make(map[K]*entry[K, V])}
}

func (s *store[K, V]) len() int {
	return len(s.items)
}

func (s *store[K, V]) lookup(key K) (*entry[K, V], bool) {
	e, ok := s.items[key]
	return e, ok
}

func (s *store[K, V]) add(e *entry[K, V]) {
	e.slot = len(s.slots)
	s.slots = append(s.slots, e)
	s.items[e.key] = e
}

func (s *store[K, V]) delete(e *entry[K, V]) {
	last := len(s.slots) - 1
	moved := s.slots[last]
	s.slots[e.slot] = moved
	moved.slot = e.slot
	s.slots[last] = nil
	s.slots = s.slots[:last]
	delete(s.items, e.key)
}

func (s *store[K, V]) at(i int) *entry[K, V] {
	return s.slots[i]
}

func (s *store[K, V]) clear() {
	clear(s.items)
	clear(s.slots)
	s.slots = s.slots[:0]
}
