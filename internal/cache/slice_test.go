package cache_test

import (
	"testing"
	"time"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/stretchr/testify/require"
)

var (
	beginning = time.UnixMilli(0)
	farFuture = time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)
)

func cacheAt(t *testing.T, policy cache.Policy, recencies map[string]int64, opts ...cache.Option) *cache.Cache[string, string] {
	t.Helper()
	clock := newFakeClock(0)
	c := newCache(t, policy, append(opts, cache.WithClock(clock.Now))...)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		ms, ok := recencies[k]
		if !ok {
			continue
		}
		clock.Set(ms)
		c.Put(k, "v"+k)
	}
	return c
}

func TestSliceSelectsClosedWindow(t *testing.T) {
	c := cacheAt(t, cache.Random, map[string]int64{"a": 10, "b": 20, "c": 30})

	require.Equal(t, map[string]string{"b": "vb"}, c.Slice(time.UnixMilli(15), time.UnixMilli(25)))
	require.Equal(t, map[string]string{"a": "va", "b": "vb"}, c.Slice(time.UnixMilli(10), time.UnixMilli(20)),
		"expected both bounds to be inclusive")
	require.Empty(t, c.Slice(time.UnixMilli(31), time.UnixMilli(40)))
	require.Empty(t, c.Slice(time.UnixMilli(25), time.UnixMilli(15)), "expected an inverted window to be empty")

	require.Equal(t, map[string]string{"b": "vb", "c": "vc"}, c.SliceFrom(time.UnixMilli(20)))
	require.Equal(t, map[string]string{"a": "va", "b": "vb"}, c.SliceTo(time.UnixMilli(20)))
	require.Len(t, c.Slice(beginning, farFuture), 3)
}

func TestSliceDoesNotTouch(t *testing.T) {
	c := cacheAt(t, cache.LeastRecentlyTouched, map[string]int64{"a": 10, "b": 20})
	_ = c.Slice(beginning, farFuture)
	_ = c.CacheSlice(beginning, farFuture)

	at, _ := c.LastAccessTime("a")
	require.Equal(t, int64(10), at.UnixMilli())
}

func TestCacheSlicePreservesRecency(t *testing.T) {
	c := cacheAt(t, cache.MostRecentlyTouched, map[string]int64{"a": 10, "b": 20, "c": 30, "d": 40},
		cache.WithMaxSize(10))

	s := c.CacheSlice(time.UnixMilli(15), time.UnixMilli(35))
	require.Equal(t, []string{"b", "c"}, s.Keys())
	require.Equal(t, cache.MostRecentlyTouched, s.Policy())
	require.Equal(t, 10, s.MaxSize())

	for k, want := range map[string]int64{"b": 20, "c": 30} {
		at, ok := s.LastAccessTime(k)
		require.True(t, ok)
		require.Equal(t, want, at.UnixMilli(), "expected recency of %s to be copied, instead got %v", k, at.UnixMilli())
	}

	s.Put("z", "vz")
	require.Equal(t, 4, c.Size(), "expected the slice to be independent of its source")

	require.Equal(t, []string{"c", "d"}, c.CacheSliceFrom(time.UnixMilli(30)).Keys())
	require.Equal(t, []string{"a"}, c.CacheSliceTo(time.UnixMilli(10)).Keys())
}

func TestMergePreservesRecency(t *testing.T) {
	src := cacheAt(t, cache.LeastRecentlyTouched, map[string]int64{"a": 1000, "b": 2000})

	clock := newFakeClock(5000)
	dst := newCache(t, cache.LeastRecentlyTouched, cache.WithClock(clock.Now))
	dst.Put("c", "vc")
	dst.Merge(src)

	at, ok := dst.LastAccessTime("a")
	require.True(t, ok)
	require.Equal(t, int64(1000), at.UnixMilli(), "expected merged recency, instead got %v", at.UnixMilli())
	require.Equal(t, []string{"a", "b", "c"}, dst.Keys())

	require.Equal(t, 2, src.Size(), "expected merge to leave the source intact")
	at, _ = src.LastAccessTime("a")
	require.Equal(t, int64(1000), at.UnixMilli(), "expected merge not to touch the source")
}

func TestMergeOverwritesAndEnforcesBound(t *testing.T) {
	src := cacheAt(t, cache.Random, map[string]int64{"a": 10, "b": 20, "c": 30})
	src.Put("a", "new")

	clock := newFakeClock(25)
	dst := newCache(t, cache.LeastRecentlyTouched, cache.WithClock(clock.Now), cache.WithMaxSize(2))
	dst.Put("a", "old")
	dst.Merge(src)

	require.Equal(t, 2, dst.Size())
	require.Equal(t, []string{"c", "a"}, dst.Keys())
	v, _ := dst.Get("a")
	require.Equal(t, "new", v)
}

func TestMergeSelfAndNil(t *testing.T) {
	c := cacheAt(t, cache.Random, map[string]int64{"a": 10, "b": 20})
	c.Merge(c)
	c.Merge(nil)
	require.Equal(t, []string{"a", "b"}, c.Keys())
}

func TestPutAllAndToMap(t *testing.T) {
	c := newCache(t, cache.LeastRecentlyTouched, cache.WithMaxSize(3))
	c.PutAll(map[string]string{"a": "1", "b": "2"})
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, c.ToMap())

	c.PutAll(map[string]string{"c": "3", "d": "4", "e": "5"})
	require.Equal(t, 3, c.Size(), "expected PutAll to respect the bound, instead size %v", c.Size())

	m := c.ToMap()
	m["zzz"] = "mutated"
	require.False(t, c.ContainsKey("zzz"), "expected ToMap to return a copy")
}
