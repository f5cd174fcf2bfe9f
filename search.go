package metrictree

import (
	"github.com/hupe1980/metrictree/internal/queue"
)

// SearchResult represents a single proximity query result: an entry together
// with its distance from the query key. Results are immutable output records;
// queries that return several order them by ascending distance.
type SearchResult[K comparable, V any] struct {
	// Key is the stored key of the matching entry.
	Key K

	// Value is the value stored under Key.
	Value V

	// Distance is the distance between the query key and Key.
	Distance float64
}

// Closest returns the entry with the globally minimum distance to query.
// On an empty tree it returns the zero SearchResult and false; defensive
// callers may check IsEmpty first.
func (t *Tree[K, V]) Closest(query K) (SearchResult[K, V], bool) {
	results := t.knn(query, 1)
	if len(results) == 0 {
		var zero SearchResult[K, V]
		return zero, false
	}
	return results[0], true
}

// NClosest returns up to k entries in ascending distance from query, fewer
// if the tree holds fewer. It returns ErrInvalidK if k < 1.
func (t *Tree[K, V]) NClosest(query K, k int) ([]SearchResult[K, V], error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	return t.knn(query, k), nil
}

// WithinRange returns every entry whose distance to query is at most r,
// boundary inclusive. The order is a deterministic function of the tree's
// contents and shape but otherwise unspecified. It returns ErrNegativeRange
// if r < 0; an empty tree yields an empty result.
func (t *Tree[K, V]) WithinRange(query K, r float64) ([]SearchResult[K, V], error) {
	if r < 0 {
		return nil, ErrNegativeRange
	}

	var out []SearchResult[K, V]
	t.rangeSearch(t.root, query, r, &out)
	return out, nil
}

// knn is the best-first traversal shared by Closest and NClosest: a candidate
// min-heap ordered by subtree lower bound drives exploration, a bounded result
// max-heap keeps the k best entries seen so far. A subtree is skipped once its
// lower bound — distance to pivot minus cached radius — cannot beat the worst
// kept result. With a triangle-inequality-violating metric the bound may be
// wrong and results may be missed, but the traversal still terminates: every
// node is visited at most once.
func (t *Tree[K, V]) knn(query K, k int) []SearchResult[K, V] {
	if t.live.IsEmpty() {
		return nil
	}

	candidates := queue.NewMin[*node[K]](16)
	results := queue.NewMax[uint32](k)

	candidates.Push(queue.Item[*node[K]]{Value: t.root, Distance: 0})

	for candidates.Len() > 0 {
		candidate, _ := candidates.Pop()

		if worst, ok := results.Top(); ok && results.Len() == k && candidate.Distance > worst.Distance {
			// Candidates come out in ascending lower-bound order, so no
			// remaining subtree can improve the result set.
			break
		}

		n := candidate.Value
		if n.isLeaf() {
			for _, id := range n.slots {
				d := t.distanceFunc(query, t.entries[id].key)
				if results.Len() < k {
					results.Push(queue.Item[uint32]{Value: id, Distance: d})
				} else if worst, _ := results.Top(); d < worst.Distance {
					results.Pop()
					results.Push(queue.Item[uint32]{Value: id, Distance: d})
				}
			}
			continue
		}

		t.pushChild(candidates, results, k, n.left, t.distanceFunc(query, n.leftPivot), n.leftRadius)
		t.pushChild(candidates, results, k, n.right, t.distanceFunc(query, n.rightPivot), n.rightRadius)
	}

	out := make([]SearchResult[K, V], results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		item, _ := results.Pop()
		e := &t.entries[item.Value]
		out[i] = SearchResult[K, V]{Key: e.key, Value: e.value, Distance: item.Distance}
	}
	return out
}

// pushChild enqueues a subtree unless its lower bound already rules it out.
func (t *Tree[K, V]) pushChild(candidates *queue.PriorityQueue[*node[K]], results *queue.PriorityQueue[uint32], k int, child *node[K], pivotDist, radius float64) {
	lower := pivotDist - radius
	if lower < 0 {
		lower = 0
	}
	if worst, ok := results.Top(); ok && results.Len() == k && lower > worst.Distance {
		return
	}
	candidates.Push(queue.Item[*node[K]]{Value: child, Distance: lower})
}

// rangeSearch walks the subtree depth-first, skipping children whose bounding
// sphere provably lies entirely outside the query ball.
func (t *Tree[K, V]) rangeSearch(n *node[K], query K, r float64, out *[]SearchResult[K, V]) {
	if n.isLeaf() {
		for _, id := range n.slots {
			if d := t.distanceFunc(query, t.entries[id].key); d <= r {
				e := &t.entries[id]
				*out = append(*out, SearchResult[K, V]{Key: e.key, Value: e.value, Distance: d})
			}
		}
		return
	}

	if t.distanceFunc(query, n.leftPivot)-n.leftRadius <= r {
		t.rangeSearch(n.left, query, r, out)
	}
	if t.distanceFunc(query, n.rightPivot)-n.rightRadius <= r {
		t.rangeSearch(n.right, query, r, out)
	}
}
