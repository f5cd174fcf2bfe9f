// Package metrictree provides a generic metric-space indexed map for Go.
//
// A Tree stores key/value pairs whose keys live in an arbitrary metric space:
// the only geometric assumption is a caller-supplied distance function that is
// symmetric, non-negative and zero for identical keys. On top of ordinary
// exact-match map semantics (put, get, remove, iterate) the tree answers
// proximity queries — nearest neighbor, k-nearest neighbors and range search —
// in sub-linear time in practice, by partitioning keys into nested bounding
// spheres and pruning whole subtrees with cached pivot radii.
//
// # Quick Start
//
//	tree, err := metrictree.New[metric.Point2D, string](metric.Euclidean)
//	if err != nil {
//	    panic(err)
//	}
//
//	tree.Put(metric.Point2D{X: 0, Y: 0}, "origin")
//	tree.Put(metric.Point2D{X: 1, Y: 0}, "east")
//	tree.Put(metric.Point2D{X: 5, Y: 5}, "far")
//
//	if best, ok := tree.Closest(metric.Point2D{X: 0, Y: 1}); ok {
//	    fmt.Println(best.Value, best.Distance) // origin 1
//	}
//
//	results, _ := tree.NClosest(metric.Point2D{X: 0, Y: 0}, 2)
//	within, _ := tree.WithinRange(metric.Point2D{X: 0, Y: 0}, 1.5)
//
// # Key Features
//
//   - Exact-match map semantics: keys are distinguished by Go equality, never
//     by distance, so distinct keys at distance zero coexist
//   - Nearest-neighbor, kNN and inclusive range queries with radius pruning
//   - Works with any symmetric non-negative metric; degenerate metrics (for
//     example a constant distance between all distinct keys) degrade to linear
//     scans but never crash or loop
//   - O(1) removal: radii are left as conservative upper bounds and pruning
//     quality is recovered on demand via Rebalance or BalancedCopy
//   - Entry storage in a flat arena with a roaring bitmap over live slots,
//     giving cheap iteration and bulk rebuilds
//
// # Concurrency
//
// A Tree is not synchronized. Callers must serialize mutation (Put, Remove,
// Clear, Rebalance) against all other operations. Read operations (Get,
// Contains, the searches, Entries) never mutate the tree and may run
// concurrently with each other when no writer is active. BalancedCopy exists
// for callers that want a balanced, independently usable snapshot without
// locking the live tree.
package metrictree
