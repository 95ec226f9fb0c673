package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy selects the entry removed when a cache exceeds its max size.
//
// The numeric values are stable and match the historical codes: MostRecentlyTouched
// was called "oldest" and LeastRecentlyTouched "youngest". Note the inversion: "oldest"
// evicts the entry with the largest recency.
type Policy int

const (
	// MostRecentlyTouched evicts the entry with the largest recency.
	MostRecentlyTouched Policy = 1
	// LeastRecentlyTouched evicts the entry with the smallest recency.
	LeastRecentlyTouched Policy = 3
	// Random evicts an entry chosen uniformly at random.
	Random Policy = 5
)

func (p Policy) Valid() bool {
	switch p {
	case MostRecentlyTouched, LeastRecentlyTouched, Random:
		return true
	}
	return false
}

func (p Policy) String() string {
	switch p {
	case MostRecentlyTouched:
		return "most-recently-touched"
	case LeastRecentlyTouched:
		return "least-recently-touched"
	case Random:
		return "random"
	}
	return "policy(" + strconv.Itoa(int(p)) + ")"
}

// ParsePolicy accepts a policy name, its historical alias, or its numeric code.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "most-recently-touched", "mrt", "oldest", "1":
		return MostRecentlyTouched, nil
	case "least-recently-touched", "lrt", "youngest", "3":
		return LeastRecentlyTouched, nil
	case "random", "5":
		return Random, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

func validatePolicy(p Policy) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPolicy, int(p))
	}
	return nil
}

// victim picks the next entry to evict. It must be called with the cache lock held
// and a non-empty cache.
func victim[K comparable, V any](c *Cache[K, V]) *entry[K, V] {
	switch c.policy {
	case MostRecentlyTouched:
		e, _ := c.order.newest()
		return e
	case LeastRecentlyTouched:
		e, _ := c.order.oldest()
		return e
	default:
		return c.items.at(c.intn(c.items.len()))
	}
}
