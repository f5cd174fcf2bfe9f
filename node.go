package metrictree

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// pivotSampleLimit bounds the exhaustive farthest-pair scan during pivot
// selection. Larger leaves fall back to a two-pass farthest-point heuristic so
// splitting stays O(n) as leaf capacity grows.
const pivotSampleLimit = 16

// node is either a leaf holding entry slots directly, or an internal node
// holding exactly two children with their pivot keys and cached radii.
//
// Each radius is an upper bound on the distance from the pivot to any key in
// its child's subtree. It is allowed to be loose (removals never shrink it)
// but never an underestimate, since search pruning depends on it. Nodes are
// owned exclusively by their parent; there are no back-references.
type node[K comparable] struct {
	slots []uint32 // leaf only

	left, right *node[K]
	leftPivot   K
	rightPivot  K
	leftRadius  float64
	rightRadius float64
}

func (n *node[K]) isLeaf() bool { return n.left == nil }

// splitLeaf replaces an overflowing leaf with a subtree built over its slots.
// Ancestor radii already cover every slot involved, so only the leaf itself
// is rewritten.
func (t *Tree[K, V]) splitLeaf(n *node[K]) {
	*n = *t.build(n.slots, -1)
}

// build constructs a subtree over the given slots, bisecting by the shared
// descent rule until each partition fits in a leaf. The slots slice is
// consumed. When parallelAt is positive, subtrees holding at least that many
// slots are built on separate goroutines.
func (t *Tree[K, V]) build(slots []uint32, parallelAt int) *node[K] {
	if len(slots) <= t.opts.MaxSphereSize {
		return &node[K]{slots: slots}
	}

	a, b := t.pickPivots(slots)
	pivotA, pivotB := t.entries[a].key, t.entries[b].key

	var (
		leftSlots, rightSlots   []uint32
		leftRadius, rightRadius float64
	)
	for _, id := range slots {
		key := t.entries[id].key
		dl := t.distanceFunc(key, pivotA)
		dr := t.distanceFunc(key, pivotB)
		if dl <= dr {
			leftSlots = append(leftSlots, id)
			if dl > leftRadius {
				leftRadius = dl
			}
		} else {
			rightSlots = append(rightSlots, id)
			if dr > rightRadius {
				rightRadius = dr
			}
		}
	}

	// A group the metric cannot tell apart (all pairwise distances zero)
	// cannot be partitioned without breaking descent; keep it in one leaf.
	if len(rightSlots) == 0 {
		return &node[K]{slots: slots}
	}

	n := &node[K]{
		leftPivot:   pivotA,
		rightPivot:  pivotB,
		leftRadius:  leftRadius,
		rightRadius: rightRadius,
	}

	if parallelAt > 0 && len(slots) >= parallelAt {
		var g errgroup.Group
		g.Go(func() error {
			n.left = t.build(leftSlots, parallelAt)
			return nil
		})
		n.right = t.build(rightSlots, parallelAt)
		_ = g.Wait()
	} else {
		n.left = t.build(leftSlots, parallelAt)
		n.right = t.build(rightSlots, parallelAt)
	}

	return n
}

// pickPivots chooses two distinct slots to act as pivots: the pair with the
// maximum pairwise distance. Small groups are scanned exhaustively; larger
// ones use two farthest-point passes seeded at the first slot.
func (t *Tree[K, V]) pickPivots(slots []uint32) (a, b uint32) {
	if len(slots) <= pivotSampleLimit {
		a, b = slots[0], slots[1]
		best := -1.0
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots); j++ {
				d := t.distanceFunc(t.entries[slots[i]].key, t.entries[slots[j]].key)
				if d > best {
					best = d
					a, b = slots[i], slots[j]
				}
			}
		}
		return a, b
	}

	a = t.farthestFrom(slots[0], slots)
	b = t.farthestFrom(a, slots)
	return a, b
}

// farthestFrom returns the slot whose key is farthest from the key at from,
// never from itself.
func (t *Tree[K, V]) farthestFrom(from uint32, slots []uint32) uint32 {
	fromKey := t.entries[from].key

	var found uint32
	best := -1.0
	for _, id := range slots {
		if id == from {
			continue
		}
		if d := t.distanceFunc(fromKey, t.entries[id].key); d > best {
			best = d
			found = id
		}
	}
	return found
}

// checkInvariants verifies the structural contract: every live slot appears in
// exactly one leaf, leaves respect the capacity bound, and every key is
// covered by the cached radius of each ancestor sphere it belongs to. It is
// exercised by tests after structural changes; a non-nil return indicates an
// implementation bug, never a user error.
func (t *Tree[K, V]) checkInvariants() error {
	seen := make(map[uint32]struct{}, t.Len())

	var walk func(n *node[K]) error
	walk = func(n *node[K]) error {
		if n.isLeaf() {
			if len(n.slots) > t.opts.MaxSphereSize && !t.indistinguishable(n.slots) {
				return fmt.Errorf("leaf holds %d entries, max is %d", len(n.slots), t.opts.MaxSphereSize)
			}
			for _, id := range n.slots {
				if !t.live.Contains(id) {
					return fmt.Errorf("leaf references dead slot %d", id)
				}
				if _, dup := seen[id]; dup {
					return fmt.Errorf("slot %d appears in more than one leaf", id)
				}
				seen[id] = struct{}{}
			}
			return nil
		}

		if err := t.checkCovered(n.left, n.leftPivot, n.leftRadius); err != nil {
			return err
		}
		if err := t.checkCovered(n.right, n.rightPivot, n.rightRadius); err != nil {
			return err
		}
		if err := walk(n.left); err != nil {
			return err
		}
		return walk(n.right)
	}

	if err := walk(t.root); err != nil {
		return err
	}
	if len(seen) != t.Len() {
		return fmt.Errorf("leaves hold %d slots, %d are live", len(seen), t.Len())
	}
	return nil
}

// checkCovered verifies that every key in the subtree lies within radius of
// pivot.
func (t *Tree[K, V]) checkCovered(n *node[K], pivot K, radius float64) error {
	if n.isLeaf() {
		for _, id := range n.slots {
			if d := t.distanceFunc(pivot, t.entries[id].key); d > radius {
				return fmt.Errorf("slot %d at distance %v outside sphere radius %v", id, d, radius)
			}
		}
		return nil
	}
	if err := t.checkCovered(n.left, pivot, radius); err != nil {
		return err
	}
	return t.checkCovered(n.right, pivot, radius)
}

// indistinguishable reports whether all pairwise distances between the keys at
// the given slots are zero, the one case where an oversized leaf is the only
// structurally sound representation.
func (t *Tree[K, V]) indistinguishable(slots []uint32) bool {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if t.distanceFunc(t.entries[slots[i]].key, t.entries[slots[j]].key) != 0 {
				return false
			}
		}
	}
	return true
}
