package cache

import (
	"time"

	"github.com/google/btree"
)

const indexDegree = 16

// index orders entries by (recency, seq). seq is stamped on every insert and touch,
// so entries sharing a millisecond keep the order in which they were touched.
type index[K comparable, V any] struct {
	tree *btree.BTreeG[*entry[K, V]]
	seq  uint64
}

func byRecency[K comparable, V any](a, b *entry[K, V]) bool {
	if !a.recency.Equal(b.recency) {
		return a.recency.Before(b.recency)
	}
	return a.seq < b.seq
}

func newIndex[K comparable, V any]() *index[K, V] {
	return &index[K, V]{tree: btree.NewG(indexDegree, byRecency[K, V])}
}

func (x *index[K, V]) len() int {
	return x.tree.Len()
}

// insert stamps e with recency and the next sequence number and indexes it.
// e must not currently be in the index.
func (x *index[K, V]) insert(e *entry[K, V], recency time.Time) {
	x.seq++
	e.recency = recency
	e.seq = x.seq
	x.tree.ReplaceOrInsert(e)
}

// restamp moves an indexed entry to a new recency.
func (x *index[K, V]) restamp(e *entry[K, V], recency time.Time) {
	x.tree.Delete(e)
	x.insert(e, recency)
}

func (x *index[K, V]) delete(e *entry[K, V]) {
	x.tree.Delete(e)
}

func (x *index[K, V]) oldest() (*entry[K, V], bool) {
	return x.tree.Min()
}

func (x *index[K, V]) newest() (*entry[K, V], bool) {
	return x.tree.Max()
}

func (x *index[K, V]) ascend(fn func(*entry[K, V]) bool) {
	x.tree.Ascend(fn)
}

// window visits, in ascending order, every entry whose recency lies in [from, to].
func (x *index[K, V]) window(from, to time.Time, fn func(*entry[K, V]) bool) {
	if to.Before(from) {
		return
	}
	pivot := &entry[K, V]{recency: from}
	x.tree.AscendGreaterOrEqual(pivot, func(e *entry[K, V]) bool {
		if e.recency.After(to) {
			return false
		}
		return fn(e)
	})
}

func (x *index[K, V]) clear() {
	x.tree.Clear(false)
}
