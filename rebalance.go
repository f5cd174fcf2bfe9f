package metrictree

import "github.com/RoaringBitmap/roaring/v2"

// Rebalance rebuilds the tree's internal structure from its current entry set,
// producing a balanced shape with tight radii. The logical key→value mapping
// and Len are unchanged. Intended after many removals have left the cached
// radii loose and pruning ineffective.
//
// Subtrees above the configured ParallelRebuildThreshold are built
// concurrently; this is safe because the distance function is required to be a
// stateless pure function and the new nodes are private until attached.
func (t *Tree[K, V]) Rebalance() {
	rebuilt := t.BalancedCopy()
	t.root = rebuilt.root
	t.entries = rebuilt.entries
	t.free = rebuilt.free
	t.live = rebuilt.live
}

// BalancedCopy returns a brand-new balanced Tree over the same entries,
// leaving the receiver completely untouched. It shares no structure with the
// original, so the copy can be handed to other goroutines while the original
// keeps serving (unsynchronized) readers.
func (t *Tree[K, V]) BalancedCopy() *Tree[K, V] {
	cp := &Tree[K, V]{
		distanceFunc: t.distanceFunc,
		opts:         t.opts,
		live:         roaring.New(),
	}

	// Compact live entries into a fresh arena; removal holes are dropped and
	// slot IDs become dense again.
	n := t.Len()
	cp.entries = make([]entry[K, V], 0, n)
	slots := make([]uint32, 0, n)

	it := t.live.Iterator()
	for it.HasNext() {
		cp.entries = append(cp.entries, t.entries[it.Next()])
		id := uint32(len(cp.entries) - 1)
		slots = append(slots, id)
		cp.live.Add(id)
	}

	cp.root = cp.build(slots, cp.opts.ParallelRebuildThreshold)
	return cp
}
