package cache

import "fmt"

// Predicate is a boolean test over values of one declared type. Scans only call
// Accept for values that the predicate Applies to; other values are skipped.
type Predicate interface {
	Applies(v any) bool
	Accept(v any) (bool, error)
}

type typed[T any] struct {
	fn func(T) (bool, error)
}

func (p typed[T]) Applies(v any) bool {
	_, ok := v.(T)
	return ok
}

func (p typed[T]) Accept(v any) (bool, error) {
	t, ok := v.(T)
	if !ok {
		return false, fmt.Errorf("%w: %T", ErrPredicateTypeMismatch, v)
	}
	return p.fn(t)
}

// Match builds a Predicate applying to values of type T.
func Match[T any](fn func(T) (bool, error)) Predicate {
	return typed[T]{fn: fn}
}

// Where builds a Predicate that reads a field of T through accessor and tests it.
// Accessors compose as plain functions, e.g. func(o Order) string { return o.Customer.Name }.
func Where[T, F any](accessor func(T) F, test func(F) bool) Predicate {
	return typed[T]{fn: func(t T) (bool, error) {
		return test(accessor(t)), nil
	}}
}

func filter[E any](items []E, p Predicate) ([]E, error) {
	var out []E
	for _, item := range items {
		if !p.Applies(item) {
			continue
		}
		ok, err := p.Accept(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// FilterKeys returns, in ascending recency order, the keys accepted by p.
// Entries are not touched. An error from p is returned unchanged.
func (c *Cache[K, V]) FilterKeys(p Predicate) ([]K, error) {
	return filter(c.Keys(), p)
}

// FilterValues returns, in ascending recency order, the values accepted by p.
// Entries are not touched. An error from p is returned unchanged.
func (c *Cache[K, V]) FilterValues(p Predicate) ([]V, error) {
	return filter(c.Values(), p)
}

// KeysForFilteredValues returns the keys whose values are accepted by p. Unlike
// FilterKeys and FilterValues it reads each value through Get, so every entry
// visited is touched.
func (c *Cache[K, V]) KeysForFilteredValues(p Predicate) ([]K, error) {
	var out []K
	for _, k := range c.Keys() {
		v, ok := c.Get(k)
		if !ok || !p.Applies(v) {
			continue
		}
		accepted, err := p.Accept(v)
		if err != nil {
			return nil, err
		}
		if accepted {
			out = append(out, k)
		}
	}
	return out, nil
}
