package registry_test

import (
	"testing"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/marvinlanhenke/go-object-cache/internal/registry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRegistry(t *testing.T) *registry.Registry[string, string] {
	t.Helper()
	r, err := registry.New[string, string]("default", cache.LeastRecentlyTouched, zerolog.Nop(), cache.WithMaxSize(10))
	require.NoError(t, err, "expected no error, instead got %v", err)
	return r
}

func TestRegistryDefault(t *testing.T) {
	r := newRegistry(t)

	require.Equal(t, "default", r.DefaultName())
	require.NotNil(t, r.Default())
	require.Equal(t, 10, r.Default().MaxSize(), "expected registry options to apply")

	c, ok := r.Lookup("")
	require.True(t, ok)
	require.Same(t, r.Default(), c, "expected the empty name to select the default cache")
	require.False(t, r.Drop("default"), "expected the default cache to be permanent")
}

func TestRegistryNewValidates(t *testing.T) {
	_, err := registry.New[string, string]("", cache.Random, zerolog.Nop())
	require.ErrorIs(t, err, registry.ErrInvalidName)

	_, err = registry.New[string, string]("x", cache.Policy(0), zerolog.Nop())
	require.ErrorIs(t, err, cache.ErrInvalidPolicy)
}

func TestRegistryCreateLookupDrop(t *testing.T) {
	r := newRegistry(t)

	c, err := r.Create("sessions", cache.Random, cache.WithMaxSize(2))
	require.NoError(t, err)
	require.Equal(t, 2, c.MaxSize(), "expected extra options to override registry ones")

	_, err = r.Create("sessions", cache.Random)
	require.ErrorIs(t, err, registry.ErrCacheExists)

	require.Equal(t, []string{"default", "sessions"}, r.Names())
	require.True(t, r.Drop("sessions"))
	require.False(t, r.Drop("sessions"))
	_, ok := r.Lookup("sessions")
	require.False(t, ok)
}

func TestRegistryKeyedOperations(t *testing.T) {
	r := newRegistry(t)
	_, err := r.Create("other", cache.LeastRecentlyTouched)
	require.NoError(t, err)

	require.NoError(t, r.PutAll("other", map[string]string{"a": "1", "b": "2", "c": "3"}))
	empty, err := r.IsEmpty("other")
	require.NoError(t, err)
	require.False(t, empty)

	require.NoError(t, r.Merge("default", mustLookup(t, r, "other")))
	m, err := r.ToMap("")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, m)

	require.NoError(t, r.Resize("default", 2))
	capacity, err := r.Capacity("default")
	require.NoError(t, err)
	require.Equal(t, 0, capacity)

	require.NoError(t, r.SetMaxSize("default", 5))
	capacity, _ = r.Capacity("default")
	require.Equal(t, 3, capacity)

	require.ErrorIs(t, r.SetPolicy("default", cache.Policy(2)), cache.ErrInvalidPolicy)
	require.NoError(t, r.SetPolicy("default", cache.Random))
	require.Equal(t, cache.Random, r.Default().Policy())

	require.NoError(t, r.Flush("other"))
	empty, _ = r.IsEmpty("other")
	require.True(t, empty)
}

func TestRegistryUnknownCacheIsUnsupported(t *testing.T) {
	r := newRegistry(t)

	require.ErrorIs(t, r.Flush("nope"), cache.ErrUnsupported)
	require.ErrorIs(t, r.Resize("nope", 1), cache.ErrUnsupported)
	require.ErrorIs(t, r.SetMaxSize("nope", 1), cache.ErrUnsupported)
	require.ErrorIs(t, r.PutAll("nope", nil), cache.ErrUnsupported)
	require.ErrorIs(t, r.Merge("nope", nil), cache.ErrUnsupported)
	require.ErrorIs(t, r.SetPolicy("nope", cache.Random), cache.ErrUnsupported)
	_, err := r.Capacity("nope")
	require.ErrorIs(t, err, cache.ErrUnsupported)
	_, err = r.IsEmpty("nope")
	require.ErrorIs(t, err, cache.ErrUnsupported)
	_, err = r.ToMap("nope")
	require.ErrorIs(t, err, cache.ErrUnsupported)
}

// readOnly supports only the inspection half of MultiManager.
type readOnly struct {
	registry.UnimplementedMultiManager[string, string]
	r *registry.Registry[string, string]
}

func (m readOnly) IsEmpty(name string) (bool, error) {
	return m.r.IsEmpty(name)
}

func TestUnimplementedMultiManager(t *testing.T) {
	var m registry.MultiManager[string, string] = readOnly{r: newRegistry(t)}

	empty, err := m.IsEmpty("default")
	require.NoError(t, err)
	require.True(t, empty)

	err = m.Flush("default")
	require.ErrorIs(t, err, cache.ErrUnsupported, "expected unsupported error, instead got %v", err)
	_, err = m.ToMap("default")
	require.ErrorIs(t, err, cache.ErrUnsupported)
}

func mustLookup(t *testing.T, r *registry.Registry[string, string], name string) *cache.Cache[string, string] {
	t.Helper()
	c, ok := r.Lookup(name)
	require.True(t, ok, "expected cache %q to exist", name)
	return c
}
