package cache

// Manager lets a host control a cache without knowing anything about its contents.
// *Cache is its own Manager.
type Manager[K comparable, V any] interface {
	Flush()
	SetMaxSize(n int)
	Resize(n int)
	Capacity() int
	IsEmpty() bool
	ToMap() map[K]V
	Merge(other *Cache[K, V])
	PutAll(m map[K]V)
	SetPolicy(p Policy) error
}

var _ Manager[string, any] = (*Cache[string, any])(nil)
