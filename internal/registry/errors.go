package registry

import "errors"

var (
	// ErrCacheExists is returned when creating a cache under a name already in use.
	ErrCacheExists = errors.New("registry: cache already exists")

	// ErrInvalidName is returned for an empty cache name.
	ErrInvalidName = errors.New("registry: invalid cache name")
)
