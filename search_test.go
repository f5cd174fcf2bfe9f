package metrictree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/metrictree/metric"
	"github.com/hupe1980/metrictree/testutil"
)

func TestSearchScenario(t *testing.T) {
	tree, err := New[metric.Point2D, string](metric.Euclidean, func(o *Options) {
		o.MaxSphereSize = 4
	})
	require.NoError(t, err)

	a := metric.Point2D{X: 0, Y: 0}
	b := metric.Point2D{X: 1, Y: 0}
	c := metric.Point2D{X: 5, Y: 5}
	tree.Put(a, "A")
	tree.Put(b, "B")
	tree.Put(c, "C")

	t.Run("Closest", func(t *testing.T) {
		best, ok := tree.Closest(metric.Point2D{X: 0, Y: 1})
		require.True(t, ok)
		assert.Equal(t, a, best.Key)
		assert.Equal(t, "A", best.Value)
		assert.Equal(t, 1.0, best.Distance)
	})

	t.Run("WithinRange", func(t *testing.T) {
		results, err := tree.WithinRange(a, 1.5)
		require.NoError(t, err)
		require.Len(t, results, 2)

		keys := map[metric.Point2D]bool{}
		for _, r := range results {
			keys[r.Key] = true
		}
		assert.True(t, keys[a])
		assert.True(t, keys[b])
	})

	t.Run("NClosest", func(t *testing.T) {
		results, err := tree.NClosest(a, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, a, results[0].Key)
		assert.Equal(t, b, results[1].Key)
	})
}

func TestSearchValidation(t *testing.T) {
	tree, err := New[metric.Point2D, int](metric.Euclidean)
	require.NoError(t, err)
	tree.Put(metric.Point2D{X: 1, Y: 1}, 1)

	t.Run("ZeroK", func(t *testing.T) {
		_, err := tree.NClosest(metric.Point2D{}, 0)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("NegativeK", func(t *testing.T) {
		_, err := tree.NClosest(metric.Point2D{}, -1)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("NegativeRange", func(t *testing.T) {
		_, err := tree.WithinRange(metric.Point2D{}, -0.1)
		assert.ErrorIs(t, err, ErrNegativeRange)
	})

	t.Run("ZeroRange", func(t *testing.T) {
		results, err := tree.WithinRange(metric.Point2D{X: 1, Y: 1}, 0)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestSearchEmptyTree(t *testing.T) {
	tree, err := New[metric.Point2D, int](metric.Euclidean)
	require.NoError(t, err)

	_, ok := tree.Closest(metric.Point2D{})
	assert.False(t, ok)

	results, err := tree.NClosest(metric.Point2D{}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = tree.WithinRange(metric.Point2D{}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchAgainstBruteForce(t *testing.T) {
	distributions := map[string][]metric.Point2D{
		"Uniform":   testutil.NewRNG(42).UniformPoints(2000, 100),
		"Clustered": testutil.NewRNG(43).ClusteredPoints(2000, 8, 100, 2),
	}

	for name, points := range distributions {
		t.Run(name, func(t *testing.T) {
			tree, err := New[metric.Point2D, int](metric.Euclidean, func(o *Options) {
				o.MaxSphereSize = 16
			})
			require.NoError(t, err)

			for i, p := range points {
				tree.Put(p, i)
			}
			require.NoError(t, tree.checkInvariants())

			rng := testutil.NewRNG(99)
			for q := 0; q < 50; q++ {
				query := metric.Point2D{
					X: rng.Float64()*120 - 10,
					Y: rng.Float64()*120 - 10,
				}
				truth := testutil.BruteForce(points, query, metric.Euclidean)

				t.Run("Closest", func(t *testing.T) {
					best, ok := tree.Closest(query)
					require.True(t, ok)
					assert.Equal(t, truth[0].Distance, best.Distance)
					assert.Equal(t, metric.Euclidean(query, best.Key), best.Distance)
				})

				t.Run("NClosest", func(t *testing.T) {
					const k = 10
					results, err := tree.NClosest(query, k)
					require.NoError(t, err)
					require.Len(t, results, k)

					for i, r := range results {
						assert.Equal(t, truth[i].Distance, r.Distance)
						assert.Equal(t, metric.Euclidean(query, r.Key), r.Distance)
						if i > 0 {
							assert.GreaterOrEqual(t, r.Distance, results[i-1].Distance)
						}
					}
					// Every excluded key is at least as far as the worst kept one.
					assert.LessOrEqual(t, results[k-1].Distance, truth[k].Distance)
				})

				t.Run("WithinRange", func(t *testing.T) {
					r := 5 + rng.Float64()*15
					results, err := tree.WithinRange(query, r)
					require.NoError(t, err)

					want := map[metric.Point2D]struct{}{}
					for _, res := range truth {
						if res.Distance <= r {
							want[points[res.Index]] = struct{}{}
						}
					}

					got := map[metric.Point2D]struct{}{}
					for _, res := range results {
						assert.LessOrEqual(t, res.Distance, r)
						got[res.Key] = struct{}{}
					}
					assert.Equal(t, want, got)
				})
			}
		})
	}
}

func TestSearchKLargerThanTree(t *testing.T) {
	tree, err := New[metric.Point2D, int](metric.Euclidean)
	require.NoError(t, err)

	points := testutil.NewRNG(5).UniformPoints(7, 10)
	for i, p := range points {
		tree.Put(p, i)
	}

	results, err := tree.NClosest(metric.Point2D{X: 5, Y: 5}, 100)
	require.NoError(t, err)
	require.Len(t, results, 7)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
}

func TestSearchBoundaryInclusive(t *testing.T) {
	tree, err := New[float64, string](metric.Absolute)
	require.NoError(t, err)

	tree.Put(0, "origin")
	tree.Put(3, "edge")
	tree.Put(3.0001, "outside")

	results, err := tree.WithinRange(0, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)

	keys := map[float64]bool{}
	for _, r := range results {
		keys[r.Key] = true
	}
	assert.True(t, keys[0])
	assert.True(t, keys[3])
}

func TestSearchStrings(t *testing.T) {
	tree, err := New[string, struct{}](metric.Levenshtein, func(o *Options) {
		o.MaxSphereSize = 8
	})
	require.NoError(t, err)

	words := testutil.NewRNG(17).Words(300, 8)
	for _, w := range words {
		tree.Put(w, struct{}{})
	}
	require.Equal(t, 300, tree.Len())
	require.NoError(t, tree.checkInvariants())

	for _, query := range []string{"hello", words[0], "zzzzzzzz", "a"} {
		truth := testutil.BruteForce(words, query, metric.Levenshtein)

		best, ok := tree.Closest(query)
		require.True(t, ok)
		assert.Equal(t, truth[0].Distance, best.Distance, "query %q", query)

		results, err := tree.WithinRange(query, 2)
		require.NoError(t, err)

		wantCount := 0
		for _, res := range truth {
			if res.Distance <= 2 {
				wantCount++
			}
		}
		assert.Len(t, results, wantCount, "query %q", query)
	}
}

func TestSearchAfterRemovals(t *testing.T) {
	tree, err := New[metric.Point2D, int](metric.Euclidean, func(o *Options) {
		o.MaxSphereSize = 8
	})
	require.NoError(t, err)

	points := testutil.NewRNG(31).UniformPoints(1000, 100)
	for i, p := range points {
		tree.Put(p, i)
	}

	// Remove every third point; shape and radii are left loose on purpose.
	var remaining []metric.Point2D
	for i, p := range points {
		if i%3 == 0 {
			_, ok := tree.Remove(p)
			require.True(t, ok)
		} else {
			remaining = append(remaining, p)
		}
	}
	require.Equal(t, len(remaining), tree.Len())
	require.NoError(t, tree.checkInvariants())

	query := metric.Point2D{X: 50, Y: 50}
	truth := testutil.BruteForce(remaining, query, metric.Euclidean)

	best, ok := tree.Closest(query)
	require.True(t, ok)
	assert.Equal(t, truth[0].Distance, best.Distance)

	results, err := tree.NClosest(query, 20)
	require.NoError(t, err)
	require.Len(t, results, 20)
	for i, r := range results {
		assert.Equal(t, truth[i].Distance, r.Distance)
	}
}

func TestSearchInfiniteDistances(t *testing.T) {
	// A metric may legally return +Inf; pruning math must not produce NaN
	// comparisons that drop results.
	far := func(a, b float64) float64 {
		d := math.Abs(a - b)
		if d > 100 {
			return math.Inf(1)
		}
		return d
	}

	tree, err := New[float64, int](far)
	require.NoError(t, err)
	tree.Put(0, 0)
	tree.Put(1, 1)
	tree.Put(1000, 2)

	best, ok := tree.Closest(0.4)
	require.True(t, ok)
	assert.Equal(t, 0.0, best.Key)
}
