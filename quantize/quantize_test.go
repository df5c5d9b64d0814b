package quantize

import (
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"slices"
	"testing"

	"pixquant/failure"
	"pixquant/rgb"
)

func gradient(n int) *rgb.Population {
	pop := rgb.NewPopulation()
	for i := 0; pop.Len() < n; i++ {
		pop.Add(rgb.Color{R: uint8(i * 7), G: uint8(i * 13), B: uint8(i * 29)})
	}
	return pop
}

var allStrategies = []Strategy{Random, Average, KMeans, MedianCut}

func TestQuantizeInvalid(t *testing.T) {
	for _, s := range allStrategies {
		t.Run(s.String(), func(t *testing.T) {
			for _, n := range []int{0, -3} {
				if _, err := Quantize(gradient(10), "x", Options{Strategy: s, Colors: n}); !errors.Is(err, failure.ErrInvalidArgument) {
					t.Errorf("Colors=%d: got %v, want ErrInvalidArgument", n, err)
				}
			}
			if _, err := Quantize(rgb.NewPopulation(), "x", Options{Strategy: s, Colors: 4}); !errors.Is(err, failure.ErrInvalidArgument) {
				t.Errorf("empty population: got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestQuantizeSize(t *testing.T) {
	testCases := []struct {
		strategy Strategy
		pop, n   int
		want     int
	}{
		{Random, 50, 8, 8},
		{Random, 5, 8, 5},
		{KMeans, 50, 8, 8},
		{KMeans, 3, 8, 3},
		{MedianCut, 50, 8, 8},
		{MedianCut, 50, 5, 5},
		{MedianCut, 3, 8, 3},
		{Average, 48, 8, 8},
		// 50/8 = 6 per chunk, ceil(50/6) = 9 chunks
		{Average, 50, 8, 9},
		{Average, 3, 8, 3},
	}

	for _, tc := range testCases {
		res, err := Quantize(gradient(tc.pop), "p", Options{Strategy: tc.strategy, Colors: tc.n, Seed: 7})
		if err != nil {
			t.Errorf("%v pop=%d n=%d: %v", tc.strategy, tc.pop, tc.n, err)
			continue
		}
		if got := res.Palette.Len(); got != tc.want {
			t.Errorf("%v pop=%d n=%d: got %d colors, want %d", tc.strategy, tc.pop, tc.n, got, tc.want)
		}
		if res.Shortfall() != tc.n-tc.want {
			t.Errorf("%v pop=%d n=%d: Shortfall = %d", tc.strategy, tc.pop, tc.n, res.Shortfall())
		}
		if res.Palette.Name != "p" {
			t.Errorf("palette name = %q", res.Palette.Name)
		}
	}
}

func TestRandomDistinctFromPopulation(t *testing.T) {
	pop := gradient(100)
	res, err := Quantize(pop, "r", Options{Strategy: Random, Colors: 16, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}

	seen := map[rgb.Color]bool{}
	for _, c := range res.Palette.Colors {
		if !pop.Contains(c) {
			t.Errorf("sampled color %v is not in the population", c)
		}
		if seen[c] {
			t.Errorf("sampled color %v twice", c)
		}
		seen[c] = true
	}

	again, _ := Quantize(pop, "r", Options{Strategy: Random, Colors: 16, Seed: 42})
	if !slices.Equal(res.Palette.Colors, again.Palette.Colors) {
		t.Error("same seed gave different samples")
	}
}

func TestAverageChunks(t *testing.T) {
	pop := rgb.NewPopulation(
		rgb.Color{R: 0}, rgb.Color{R: 10}, rgb.Color{R: 20},
		rgb.Color{R: 31}, rgb.Color{R: 40},
	)
	res, err := Quantize(pop, "a", Options{Strategy: Average, Colors: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []rgb.Color{{R: 5}, {R: 25}, {R: 40}}
	if !slices.Equal(res.Palette.Colors, want) {
		t.Errorf("average = %v, want %v", res.Palette.Colors, want)
	}
}

func TestKMeansTwoColorImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Black)
	img.Set(1, 0, color.White)
	img.Set(0, 1, color.White)
	img.Set(1, 1, color.Black)

	for seed := uint64(0); seed < 5; seed++ {
		res, err := Quantize(rgb.Extract(img), "bw", Options{Strategy: KMeans, Colors: 2, Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Converged {
			t.Errorf("seed %d: did not converge", seed)
		}
		got := slices.Clone(res.Palette.Colors)
		slices.SortFunc(got, func(a, b rgb.Color) int { return int(a.R) - int(b.R) })
		if want := []rgb.Color{{}, {R: 255, G: 255, B: 255}}; !slices.Equal(got, want) {
			t.Errorf("seed %d: centroids = %v, want %v", seed, got, want)
		}
	}
}

func TestKMeansAssignmentIsNearest(t *testing.T) {
	colors := gradient(200).Colors()
	rng := rand.New(rand.NewPCG(3, 4))
	centroids, st := kmeans(rng, colors, 6, DefaultMaxIterations)
	if !st.converged {
		t.Fatalf("did not converge after %d iterations", st.iterations)
	}

	for i, c := range colors {
		mine := rgb.Distance(c, centroids[st.assign[i]])
		for j, m := range centroids {
			if d := rgb.Distance(c, m); d < mine {
				t.Errorf("color %v assigned to %d at %v but centroid %d is at %v", c, st.assign[i], mine, j, d)
			}
		}
	}
}

func TestKMeansAssignTiesGoToFirstCentroid(t *testing.T) {
	colors := []rgb.Color{{R: 10}, {G: 10}}
	out := make([]int, len(colors))

	assign(colors, []rgb.Color{{}, {R: 20}}, out)
	if out[0] != 0 {
		t.Errorf("{10,0,0} between {0,0,0} and {20,0,0}: got centroid %d, want 0", out[0])
	}

	assign(colors, []rgb.Color{{R: 20}, {}}, out)
	if out[0] != 0 {
		t.Errorf("{10,0,0} between {20,0,0} and {0,0,0}: got centroid %d, want 0", out[0])
	}

	dup := rgb.Color{G: 40}
	assign(colors, []rgb.Color{{R: 200}, dup, dup}, out)
	if out[1] != 1 {
		t.Errorf("{0,10,0} with duplicate centroids: got %d, want 1", out[1])
	}
}

func TestKMeansIterationCap(t *testing.T) {
	res, err := Quantize(gradient(200), "k", Options{Strategy: KMeans, Colors: 12, Seed: 1, MaxIterations: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Iterations)
	}
	if res.Converged {
		t.Error("Converged after a single round from random centroids")
	}
}

func TestKMeansEmptyClusterResetsToBlack(t *testing.T) {
	colors := []rgb.Color{{R: 10}, {R: 12}}
	assigned := []int{0, 0}
	centroids := []rgb.Color{{R: 1}, {R: 200}}
	update(colors, assigned, centroids)
	if want := []rgb.Color{{R: 11}, {}}; !slices.Equal(centroids, want) {
		t.Errorf("update = %v, want %v", centroids, want)
	}
}

func TestMedianCutSplitsWidestChannel(t *testing.T) {
	pop := rgb.NewPopulation(
		rgb.Color{R: 0, G: 0, B: 0},
		rgb.Color{R: 10, G: 200, B: 0},
		rgb.Color{R: 5, G: 100, B: 0},
		rgb.Color{R: 0, G: 255, B: 10},
	)
	res, err := Quantize(pop, "m", Options{Strategy: MedianCut, Colors: 2})
	if err != nil {
		t.Fatal(err)
	}
	// sorted by green: (0,0,0) (5,100,0) | (10,200,0) (0,255,10)
	want := []rgb.Color{{R: 2, G: 50}, {R: 5, G: 227, B: 5}}
	if !slices.Equal(res.Palette.Colors, want) {
		t.Errorf("median cut = %v, want %v", res.Palette.Colors, want)
	}
}

func TestMedianCutTieOrder(t *testing.T) {
	b := box{{R: 0, G: 10, B: 0}, {R: 10, G: 0, B: 10}}
	if got := b.widest(); got != red {
		t.Errorf("widest on full tie = %d, want red", got)
	}
	b = box{{R: 0, G: 0, B: 0}, {R: 5, G: 10, B: 10}}
	if got := b.widest(); got != green {
		t.Errorf("widest on green/blue tie = %d, want green", got)
	}
}

func TestMedianCutStall(t *testing.T) {
	res, err := Quantize(rgb.NewPopulation(rgb.Color{R: 1}, rgb.Color{R: 2}), "m", Options{Strategy: MedianCut, Colors: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Palette.Len() != 2 || res.Shortfall() != 3 {
		t.Errorf("stalled median cut: len=%d shortfall=%d", res.Palette.Len(), res.Shortfall())
	}
}

func TestParseStrategy(t *testing.T) {
	for name, want := range map[string]Strategy{
		"random": Random, "Average": Average, "kmeans": KMeans,
		"median-cut": MedianCut, "median_cut": MedianCut, "mediancut": MedianCut,
	} {
		got, err := ParseStrategy(name)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseStrategy("octree"); !errors.Is(err, failure.ErrInvalidArgument) {
		t.Errorf("ParseStrategy(octree): got %v", err)
	}
}
