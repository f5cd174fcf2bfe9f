package metrictree

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// DistanceFunc represents a function for calculating the distance between two
// keys of a metric space.
//
// Implementations must be symmetric (d(a,b) == d(b,a)), non-negative and
// return 0 for identical keys. They must be stateless pure functions: the tree
// may call them from multiple goroutines during Rebalance and BalancedCopy.
// The triangle inequality is assumed for search pruning; a metric that
// violates it never crashes the tree but may cause proximity queries to miss
// results. Distance is used only for geometric pruning — key identity is
// always Go equality, so two distinct keys at distance 0 remain distinct.
type DistanceFunc[K any] func(a, b K) float64

// entry is a stored key/value pair. Entries live in the tree's arena and are
// addressed by dense uint32 slot IDs; leaves reference slots, never entries.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Tree is a metric-space indexed map from K to V.
//
// It behaves as an ordinary associative map for exact-match operations and
// additionally answers nearest-neighbor, k-nearest-neighbor and range queries
// using the configured DistanceFunc. The zero value is not usable; construct
// with New.
//
// A Tree is not safe for concurrent mutation. See the package documentation
// for the full concurrency contract.
type Tree[K comparable, V any] struct {
	distanceFunc DistanceFunc[K]
	opts         Options

	root    *node[K]
	entries []entry[K, V]   // arena; slots addressed by uint32 ID
	free    []uint32        // slot IDs available for reuse after removal
	live    *roaring.Bitmap // set of slot IDs currently holding an entry
}

// New creates a new empty Tree over the metric space defined by fn.
//
// Example:
//
//	tree, err := metrictree.New[string, int](metric.Levenshtein, func(o *metrictree.Options) {
//	    o.MaxSphereSize = 8
//	})
func New[K comparable, V any](fn DistanceFunc[K], optFns ...func(o *Options)) (*Tree[K, V], error) {
	if fn == nil {
		return nil, ErrNilDistanceFunc
	}

	opts := DefaultOptions
	for _, optFn := range optFns {
		optFn(&opts)
	}

	if opts.MaxSphereSize < MinSphereSize {
		return nil, &ErrInvalidSphereSize{Size: opts.MaxSphereSize}
	}
	if opts.ParallelRebuildThreshold == 0 {
		opts.ParallelRebuildThreshold = DefaultParallelRebuildThreshold
	}

	return &Tree[K, V]{
		distanceFunc: fn,
		opts:         opts,
		root:         &node[K]{},
		live:         roaring.New(),
	}, nil
}

// Put inserts or replaces the value stored under key. It returns the previous
// value and true if the key was already present, or the zero value and false
// on first insertion.
func (t *Tree[K, V]) Put(key K, value V) (V, bool) {
	leaf := t.descend(key, true)

	for _, id := range leaf.slots {
		if t.entries[id].key == key {
			prev := t.entries[id].value
			t.entries[id].value = value
			return prev, true
		}
	}

	id := t.alloc(key, value)
	leaf.slots = append(leaf.slots, id)
	if len(leaf.slots) > t.opts.MaxSphereSize {
		t.splitLeaf(leaf)
	}

	var zero V
	return zero, false
}

// Get returns the value stored under key and whether the key is present.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	leaf := t.descend(key, false)

	for _, id := range leaf.slots {
		if t.entries[id].key == key {
			return t.entries[id].value, true
		}
	}

	var zero V
	return zero, false
}

// Contains reports whether key is present in the tree.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Remove deletes the entry stored under key. It returns the removed value and
// true, or the zero value and false if the key was absent.
//
// Removal is O(depth): the tree's shape and cached radii are left untouched,
// so they remain valid (if increasingly loose) upper bounds. Callers that
// remove many entries should eventually call Rebalance to restore pruning
// quality.
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	leaf := t.descend(key, false)

	for i, id := range leaf.slots {
		if t.entries[id].key == key {
			prev := t.entries[id].value
			last := len(leaf.slots) - 1
			leaf.slots[i] = leaf.slots[last]
			leaf.slots = leaf.slots[:last]
			t.release(id)
			return prev, true
		}
	}

	var zero V
	return zero, false
}

// Len returns the number of entries in the tree.
func (t *Tree[K, V]) Len() int {
	return int(t.live.GetCardinality())
}

// IsEmpty reports whether the tree holds no entries.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.live.IsEmpty()
}

// Clear removes all entries. The root is dropped in O(1); node teardown is
// left to the garbage collector since ownership is strictly hierarchical.
func (t *Tree[K, V]) Clear() {
	t.root = &node[K]{}
	t.entries = nil
	t.free = nil
	t.live.Clear()
}

// Entries returns an iterator over all key/value pairs. The order is a
// deterministic function of the operations applied to the tree but is
// otherwise unspecified. The tree must not be mutated during iteration.
func (t *Tree[K, V]) Entries() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := t.live.Iterator()
		for it.HasNext() {
			e := &t.entries[it.Next()]
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Metric returns the distance function the tree was constructed with.
func (t *Tree[K, V]) Metric() DistanceFunc[K] {
	return t.distanceFunc
}

// MaxSphereSize returns the configured leaf capacity.
func (t *Tree[K, V]) MaxSphereSize() int {
	return t.opts.MaxSphereSize
}

// descend walks from the root to the unique leaf responsible for key.
//
// The rule is shared by every code path that places or looks up a key
// (Put, Get, Remove, splits and bulk rebuilds): go toward the strictly closer
// pivot, ties toward the left child. Because the rule depends only on
// distances to pivots — which never change once an internal node exists — a
// key is always found in the leaf it was inserted into.
//
// When grow is true the cached radius of each chosen child is expanded to
// cover key, maintaining the pruning invariant for inserts.
func (t *Tree[K, V]) descend(key K, grow bool) *node[K] {
	n := t.root
	for !n.isLeaf() {
		dl := t.distanceFunc(key, n.leftPivot)
		dr := t.distanceFunc(key, n.rightPivot)
		if dl <= dr {
			if grow && dl > n.leftRadius {
				n.leftRadius = dl
			}
			n = n.left
		} else {
			if grow && dr > n.rightRadius {
				n.rightRadius = dr
			}
			n = n.right
		}
	}
	return n
}

// alloc reserves a slot from the free list or by extending the arena.
func (t *Tree[K, V]) alloc(key K, value V) uint32 {
	var id uint32
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
		t.entries[id] = entry[K, V]{key: key, value: value}
	} else {
		id = uint32(len(t.entries))
		t.entries = append(t.entries, entry[K, V]{key: key, value: value})
	}
	t.live.Add(id)
	return id
}

// release returns a slot to the free list. The entry is zeroed so the arena
// does not pin removed keys or values.
func (t *Tree[K, V]) release(id uint32) {
	t.entries[id] = entry[K, V]{}
	t.free = append(t.free, id)
	t.live.Remove(id)
}
