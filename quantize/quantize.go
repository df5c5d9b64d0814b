// Package quantize reduces a color population to a small representative
// palette.
//
// Four strategies are available. Random and KMeans draw from a seeded PCG
// source, so equal options over an equal population give equal palettes.
package quantize

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"pixquant/failure"
	"pixquant/palette"
	"pixquant/rgb"
)

type Strategy int

const (
	Random Strategy = iota
	Average
	KMeans
	MedianCut
)

var strategyNames = map[Strategy]string{
	Random:    "random",
	Average:   "average",
	KMeans:    "kmeans",
	MedianCut: "median-cut",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts the names printed by String, case-insensitively,
// with '_' and '-' interchangeable.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	for s, n := range strategyNames {
		if n == key || strings.ReplaceAll(n, "-", "") == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown quantization strategy %q", failure.ErrInvalidArgument, name)
}

// DefaultMaxIterations bounds k-means when Options.MaxIterations is zero.
const DefaultMaxIterations = 1000

type Options struct {
	Strategy Strategy
	// Colors is the requested palette size.
	Colors int
	// Seed feeds the PCG source used by Random and KMeans.
	Seed uint64
	// MaxIterations caps k-means; zero selects DefaultMaxIterations.
	MaxIterations int
}

// Result is a generated palette together with how the run went. Strategies
// may produce a different number of colors than requested; callers should
// read the palette length rather than assume Requested was honored.
type Result struct {
	Palette   *palette.Palette
	Requested int
	// Iterations is the number of k-means update rounds, or median-cut
	// passes. It is zero for the other strategies.
	Iterations int
	// Converged is false only when k-means stopped at its iteration cap
	// before reaching a fixed point.
	Converged bool
}

// Shortfall is the number of colors missing from the request. It is
// negative when a strategy produced more colors than requested.
func (r Result) Shortfall() int {
	return r.Requested - r.Palette.Len()
}

// Quantize builds a palette of about opts.Colors colors named name.
func Quantize(pop *rgb.Population, name string, opts Options) (Result, error) {
	if opts.Colors < 1 {
		return Result{}, fmt.Errorf("%w: color count must be at least 1, got %d", failure.ErrInvalidArgument, opts.Colors)
	}
	if pop.Len() == 0 {
		return Result{}, fmt.Errorf("%w: color population is empty", failure.ErrInvalidArgument)
	}

	colors := pop.Colors()
	res := Result{Requested: opts.Colors, Converged: true}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var out []rgb.Color
	switch opts.Strategy {
	case Random:
		out = sample(rng, colors, opts.Colors)
	case Average:
		out = average(colors, opts.Colors)
	case KMeans:
		maxIter := opts.MaxIterations
		if maxIter <= 0 {
			maxIter = DefaultMaxIterations
		}
		var km kmeansState
		out, km = kmeans(rng, colors, opts.Colors, maxIter)
		res.Iterations, res.Converged = km.iterations, km.converged
	case MedianCut:
		out, res.Iterations = medianCut(colors, opts.Colors)
	default:
		return Result{}, fmt.Errorf("%w: unknown quantization strategy %v", failure.ErrInvalidArgument, opts.Strategy)
	}

	res.Palette = palette.New(name, out...)
	return res, nil
}

// sample picks n distinct entries uniformly by reservoir sampling. It
// returns every color when there are no more than n.
func sample(rng *rand.Rand, colors []rgb.Color, n int) []rgb.Color {
	if len(colors) <= n {
		return append([]rgb.Color(nil), colors...)
	}

	res := append([]rgb.Color(nil), colors[:n]...)
	for i := n; i < len(colors); i++ {
		if j := rng.IntN(i + 1); j < n {
			res[j] = colors[i]
		}
	}
	return res
}

// average splits colors into contiguous chunks of max(1, len/n) and returns
// each chunk's mean. When n does not divide the population the trailing
// chunk is shorter and the result holds more than n colors.
func average(colors []rgb.Color, n int) []rgb.Color {
	chunk := max(1, len(colors)/n)

	res := make([]rgb.Color, 0, (len(colors)+chunk-1)/chunk)
	for start := 0; start < len(colors); start += chunk {
		end := min(start+chunk, len(colors))
		res = append(res, rgb.Mean(colors[start:end]))
	}
	return res
}
