package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/rs/zerolog"
)

// Registry owns a set of named caches. It is constructed explicitly and passed to
// whoever needs it; the name of its default cache is fixed at construction.
type Registry[K comparable, V any] struct {
	mu          sync.RWMutex
	caches      map[string]*cache.Cache[K, V]
	defaultName string
	opts        []cache.Option
	logger      zerolog.Logger
}

// New returns a registry holding one cache, defaultName, created with policy.
// opts are applied to every cache the registry creates.
func New[K comparable, V any](defaultName string, policy cache.Policy, logger zerolog.Logger, opts ...cache.Option) (*Registry[K, V], error) {
	r := &Registry[K, V]{
		caches: make(map[string]*cache.Cache[K, V]),
		opts:   append([]cache.Option{cache.WithLogger(logger)}, opts...),
		logger: logger,
	}
	if _, err := r.Create(defaultName, policy); err != nil {
		return nil, err
	}
	r.defaultName = defaultName
	return r, nil
}

func (r *Registry[K, V]) DefaultName() string {
	return r.defaultName
}

// Default returns the default cache.
func (r *Registry[K, V]) Default() *cache.Cache[K, V] {
	c, _ := r.Lookup(r.defaultName)
	return c
}

// Create adds a new cache under name. extra options are applied after the
// registry-wide ones.
func (r *Registry[K, V]) Create(name string, policy cache.Policy, extra ...cache.Option) (*cache.Cache[K, V], error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.caches[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrCacheExists, name)
	}
	c, err := cache.New[K, V](policy, append(slices.Clone(r.opts), extra...)...)
	if err != nil {
		return nil, err
	}
	r.caches[name] = c
	r.logger.Debug().Str("cache", name).Str("policy", policy.String()).Msg("cache created")
	return c, nil
}

// Lookup resolves name; the empty name selects the default cache.
func (r *Registry[K, V]) Lookup(name string) (*cache.Cache[K, V], bool) {
	if name == "" {
		name = r.defaultName
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.caches[name]
	return c, ok
}

// Drop removes a cache from the registry. The default cache cannot be dropped.
func (r *Registry[K, V]) Drop(name string) bool {
	if name == "" || name == r.defaultName {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.caches[name]; !ok {
		return false
	}
	delete(r.caches, name)
	return true
}

// Names returns the registered cache names, sorted.
func (r *Registry[K, V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry[K, V]) resolve(method, name string) (*cache.Cache[K, V], error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, unsupported(method, name)
	}
	return c, nil
}

func (r *Registry[K, V]) Flush(name string) error {
	c, err := r.resolve("flush", name)
	if err != nil {
		return err
	}
	c.Flush()
	return nil
}

func (r *Registry[K, V]) SetMaxSize(name string, n int) error {
	c, err := r.resolve("set max size", name)
	if err != nil {
		return err
	}
	c.SetMaxSize(n)
	return nil
}

func (r *Registry[K, V]) Resize(name string, n int) error {
	c, err := r.resolve("resize", name)
	if err != nil {
		return err
	}
	c.Resize(n)
	return nil
}

func (r *Registry[K, V]) Capacity(name string) (int, error) {
	c, err := r.resolve("capacity", name)
	if err != nil {
		return 0, err
	}
	return c.Capacity(), nil
}

func (r *Registry[K, V]) IsEmpty(name string) (bool, error) {
	c, err := r.resolve("is empty", name)
	if err != nil {
		return false, err
	}
	return c.IsEmpty(), nil
}

func (r *Registry[K, V]) ToMap(name string) (map[K]V, error) {
	c, err := r.resolve("to map", name)
	if err != nil {
		return nil, err
	}
	return c.ToMap(), nil
}

func (r *Registry[K, V]) Merge(name string, other *cache.Cache[K, V]) error {
	c, err := r.resolve("merge", name)
	if err != nil {
		return err
	}
	c.Merge(other)
	return nil
}

func (r *Registry[K, V]) PutAll(name string, m map[K]V) error {
	c, err := r.resolve("put all", name)
	if err != nil {
		return err
	}
	c.PutAll(m)
	return nil
}

func (r *Registry[K, V]) SetPolicy(name string, p cache.Policy) error {
	c, err := r.resolve("set policy", name)
	if err != nil {
		return err
	}
	return c.SetPolicy(p)
}
