// Package testutil provides deterministic fixture generators and brute-force
// ground truth for exercising the tree in tests and benchmarks.
package testutil

import (
	"math/rand"
	"sort"

	"github.com/hupe1980/metrictree/metric"
)

// RNG encapsulates a seeded random number generator so fixtures are
// reproducible across runs.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	return r.rand.Float64()
}

// UniformPoints generates points uniformly distributed in the square
// [0,span) x [0,span). Points are de-duplicated so they can serve as unique
// tree keys.
func (r *RNG) UniformPoints(num int, span float64) []metric.Point2D {
	seen := make(map[metric.Point2D]struct{}, num)
	points := make([]metric.Point2D, 0, num)

	for len(points) < num {
		p := metric.Point2D{
			X: r.rand.Float64() * span,
			Y: r.rand.Float64() * span,
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}

	return points
}

// ClusteredPoints generates unique points grouped around random centroids.
// Useful for testing pruning effectiveness on non-uniform data.
func (r *RNG) ClusteredPoints(num, clusters int, span, spread float64) []metric.Point2D {
	centroids := r.UniformPoints(clusters, span)

	seen := make(map[metric.Point2D]struct{}, num)
	points := make([]metric.Point2D, 0, num)

	for i := 0; len(points) < num; i++ {
		c := centroids[i%clusters]
		p := metric.Point2D{
			X: c.X + r.rand.NormFloat64()*spread,
			Y: c.Y + r.rand.NormFloat64()*spread,
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}

	return points
}

// Words generates unique random lowercase strings of length [1,maxLen],
// suitable as keys under an edit-distance metric.
func (r *RNG) Words(num, maxLen int) []string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"

	seen := make(map[string]struct{}, num)
	words := make([]string, 0, num)

	for len(words) < num {
		n := 1 + r.rand.Intn(maxLen)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = alphabet[r.rand.Intn(len(alphabet))]
		}
		w := string(buf)
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	return words
}

// Result pairs a key index with its distance from a query, used as
// brute-force ground truth.
type Result struct {
	Index    int
	Distance float64
}

// BruteForce computes the exact distance of every key to query and returns
// the results sorted ascending, ties broken by index for determinism.
func BruteForce[K any](keys []K, query K, fn func(a, b K) float64) []Result {
	results := make([]Result, len(keys))
	for i, k := range keys {
		results[i] = Result{Index: i, Distance: fn(query, k)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Index < results[j].Index
	})

	return results
}
