package registry

import (
	"fmt"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
)

// MultiManager is the keyed form of cache.Manager for a host that controls several
// independent caches by name. Any method may fail with cache.ErrUnsupported when an
// implementation does not support it, or does not know the named cache.
type MultiManager[K comparable, V any] interface {
	Flush(name string) error
	SetMaxSize(name string, n int) error
	Resize(name string, n int) error
	Capacity(name string) (int, error)
	IsEmpty(name string) (bool, error)
	ToMap(name string) (map[K]V, error)
	Merge(name string, other *cache.Cache[K, V]) error
	PutAll(name string, m map[K]V) error
	SetPolicy(name string, p cache.Policy) error
}

// UnimplementedMultiManager answers every call with cache.ErrUnsupported. Embed it to
// implement only part of MultiManager.
type UnimplementedMultiManager[K comparable, V any] struct{}

func unsupported(method, name string) error {
	return fmt.Errorf("%w: %s on cache %q", cache.ErrUnsupported, method, name)
}

func (UnimplementedMultiManager[K, V]) Flush(name string) error {
	return unsupported("flush", name)
}

func (UnimplementedMultiManager[K, V]) SetMaxSize(name string, _ int) error {
	return unsupported("set max size", name)
}

func (UnimplementedMultiManager[K, V]) Resize(name string, _ int) error {
	return unsupported("resize", name)
}

func (UnimplementedMultiManager[K, V]) Capacity(name string) (int, error) {
	return 0, unsupported("capacity", name)
}

func (UnimplementedMultiManager[K, V]) IsEmpty(name string) (bool, error) {
	return false, unsupported("is empty", name)
}

func (UnimplementedMultiManager[K, V]) ToMap(name string) (map[K]V, error) {
	return nil, unsupported("to map", name)
}

func (UnimplementedMultiManager[K, V]) Merge(name string, _ *cache.Cache[K, V]) error {
	return unsupported("merge", name)
}

func (UnimplementedMultiManager[K, V]) PutAll(name string, _ map[K]V) error {
	return unsupported("put all", name)
}

func (UnimplementedMultiManager[K, V]) SetPolicy(name string, _ cache.Policy) error {
	return unsupported("set policy", name)
}

var (
	_ MultiManager[string, any] = UnimplementedMultiManager[string, any]{}
	_ MultiManager[string, any] = (*Registry[string, any])(nil)
)
