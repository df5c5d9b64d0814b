package quantize

import (
	"math"
	"math/rand/v2"
	"slices"

	"pixquant/rgb"
)

type kmeansState struct {
	centroids  []rgb.Color
	assign     []int
	iterations int
	converged  bool
}

// kmeans clusters colors around n centroids sampled without replacement.
// It stops when an update round leaves every centroid bit-for-bit unchanged,
// or after maxIter rounds.
func kmeans(rng *rand.Rand, colors []rgb.Color, n, maxIter int) ([]rgb.Color, kmeansState) {
	st := kmeansState{
		centroids: initCentroids(rng, colors, n),
		assign:    make([]int, len(colors)),
	}

	next := make([]rgb.Color, len(st.centroids))
	for st.iterations < maxIter {
		assign(colors, st.centroids, st.assign)
		update(colors, st.assign, next)
		st.iterations++

		if slices.Equal(next, st.centroids) {
			st.converged = true
			break
		}
		st.centroids, next = next, st.centroids
	}

	return slices.Clone(st.centroids), st
}

// initCentroids draws min(n, len(colors)) distinct colors with a partial
// Fisher-Yates shuffle.
func initCentroids(rng *rand.Rand, colors []rgb.Color, n int) []rgb.Color {
	pool := slices.Clone(colors)
	k := min(n, len(pool))
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k]
}

// assign stores in out the index of the closest centroid for every color.
// The first centroid wins ties.
func assign(colors, centroids []rgb.Color, out []int) {
	for i, c := range colors {
		best, bestDist := 0, math.MaxFloat64
		for j, m := range centroids {
			if d := rgb.Distance(c, m); d < bestDist {
				best, bestDist = j, d
			}
		}
		out[i] = best
	}
}

// update sets every centroid to the truncated mean of its members. A
// centroid without members becomes black.
func update(colors []rgb.Color, assigned []int, centroids []rgb.Color) {
	type acc struct{ r, g, b, n int }
	sums := make([]acc, len(centroids))
	for i, c := range colors {
		s := &sums[assigned[i]]
		s.r += int(c.R)
		s.g += int(c.G)
		s.b += int(c.B)
		s.n++
	}

	for j, s := range sums {
		if s.n == 0 {
			centroids[j] = rgb.Color{}
			continue
		}
		centroids[j] = rgb.Color{R: uint8(s.r / s.n), G: uint8(s.g / s.n), B: uint8(s.b / s.n)}
	}
}
