package cache

import "errors"

var (
	// ErrInvalidPolicy is returned by New and SetPolicy for an unrecognised policy.
	ErrInvalidPolicy = errors.New("cache: invalid eviction policy")

	// ErrEmptyCache is returned by the first/last accessors when the cache holds no entries.
	ErrEmptyCache = errors.New("cache: cache is empty")

	// ErrUnsupported is returned by operations a type explicitly does not implement,
	// such as removing through an Iterator.
	ErrUnsupported = errors.New("cache: unsupported operation")

	// ErrPredicateTypeMismatch is returned when a Predicate is asked to accept a value
	// of a type it does not apply to. Scans never produce it; they skip such values.
	ErrPredicateTypeMismatch = errors.New("cache: predicate does not apply to value type")
)
