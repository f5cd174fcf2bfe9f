// Package metric provides stock distance functions for common key types.
//
// Every function satisfies the metrictree.DistanceFunc contract: symmetric,
// non-negative and zero for identical keys. Callers with richer key types
// supply their own function instead.
package metric

import (
	"math"
	"math/bits"
	"unicode/utf8"
)

// Point2D is a point in the Euclidean plane. It is comparable and therefore
// usable as a tree key directly.
type Point2D struct {
	X, Y float64
}

// Euclidean returns the straight-line (L2) distance between two points.
func Euclidean(a, b Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Manhattan returns the taxicab (L1) distance between two points.
func Manhattan(a, b Point2D) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// Chebyshev returns the chessboard (L∞) distance between two points.
func Chebyshev(a, b Point2D) float64 {
	return math.Max(math.Abs(a.X-b.X), math.Abs(a.Y-b.Y))
}

// Absolute returns |a-b|, the metric of the real line.
func Absolute(a, b float64) float64 {
	return math.Abs(a - b)
}

// Hamming64 returns the number of differing bits between two 64-bit
// fingerprints, the classic metric for simhash-style deduplication.
func Hamming64(a, b uint64) float64 {
	return float64(bits.OnesCount64(a ^ b))
}

// Levenshtein returns the edit distance between two strings, counted in
// runes: the minimum number of single-rune insertions, deletions and
// substitutions turning a into b.
func Levenshtein(a, b string) float64 {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return float64(utf8.RuneCountInString(b))
	}
	if len(rb) == 0 {
		return float64(utf8.RuneCountInString(a))
	}

	// Single-row dynamic programming over the edit matrix.
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur := row[j]
			row[j] = min(row[j]+1, row[j-1]+1, prev+cost)
			prev = cur
		}
	}

	return float64(row[len(rb)])
}
