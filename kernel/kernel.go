// Package kernel is the catalogue of error-diffusion kernels and the Bayer
// threshold matrix generator.
package kernel

import (
	"fmt"
	"slices"
	"strings"

	"pixquant/failure"

	"github.com/makeworld-the-better-one/dither/v2"
)

// Offset sends Weight of the quantization error to the pixel DX columns
// right and DY rows below the current one.
type Offset struct {
	DX, DY int
	Weight float64
}

// Kernel is a named error-diffusion table. Weights need not sum to one.
type Kernel struct {
	Name    string
	Offsets []Offset
}

// Validate checks that the kernel is causal: every offset points right on
// the current row, or anywhere on a later row.
func (k Kernel) Validate() error {
	if len(k.Offsets) == 0 {
		return fmt.Errorf("%w: kernel %q has no offsets", failure.ErrInvalidArgument, k.Name)
	}
	for _, o := range k.Offsets {
		if o.DY < 0 || (o.DY == 0 && o.DX <= 0) {
			return fmt.Errorf("%w: kernel %q offset (%d, %d) is not causal", failure.ErrInvalidArgument, k.Name, o.DX, o.DY)
		}
		if o.Weight <= 0 {
			return fmt.Errorf("%w: kernel %q offset (%d, %d) has weight %v", failure.ErrInvalidArgument, k.Name, o.DX, o.DY, o.Weight)
		}
	}
	return nil
}

// Sum is the total fraction of the error the kernel distributes.
func (k Kernel) Sum() float64 {
	var s float64
	for _, o := range k.Offsets {
		s += o.Weight
	}
	return s
}

// scaled builds a kernel from integer weights over a common divisor.
func scaled(name string, div float64, taps ...[3]int) Kernel {
	k := Kernel{Name: name, Offsets: make([]Offset, len(taps))}
	for i, t := range taps {
		k.Offsets[i] = Offset{DX: t[0], DY: t[1], Weight: float64(t[2]) / div}
	}
	return k
}

var (
	FloydSteinberg = scaled("floyd-steinberg", 16,
		[3]int{1, 0, 7},
		[3]int{-1, 1, 3}, [3]int{0, 1, 5}, [3]int{1, 1, 1},
	)

	// Atkinson spreads only 6/8 of the error.
	Atkinson = scaled("atkinson", 8,
		[3]int{1, 0, 1}, [3]int{2, 0, 1},
		[3]int{-1, 1, 1}, [3]int{0, 1, 1}, [3]int{1, 1, 1},
		[3]int{0, 2, 1},
	)

	JarvisJudiceNinke = scaled("jarvis-judice-ninke", 48,
		[3]int{1, 0, 7}, [3]int{2, 0, 5},
		[3]int{-2, 1, 3}, [3]int{-1, 1, 5}, [3]int{0, 1, 7}, [3]int{1, 1, 5}, [3]int{2, 1, 3},
		[3]int{-2, 2, 1}, [3]int{-1, 2, 3}, [3]int{0, 2, 5}, [3]int{1, 2, 3}, [3]int{2, 2, 1},
	)

	Stucki = scaled("stucki", 42,
		[3]int{1, 0, 8}, [3]int{2, 0, 4},
		[3]int{-2, 1, 2}, [3]int{-1, 1, 4}, [3]int{0, 1, 8}, [3]int{1, 1, 4}, [3]int{2, 1, 2},
		[3]int{-2, 2, 1}, [3]int{-1, 2, 2}, [3]int{0, 2, 4}, [3]int{1, 2, 2}, [3]int{2, 2, 1},
	)

	Burkes = scaled("burkes", 32,
		[3]int{1, 0, 8}, [3]int{2, 0, 4},
		[3]int{-2, 1, 2}, [3]int{-1, 1, 4}, [3]int{0, 1, 8}, [3]int{1, 1, 4}, [3]int{2, 1, 2},
	)

	Sierra = scaled("sierra", 32,
		[3]int{1, 0, 5}, [3]int{2, 0, 3},
		[3]int{-2, 1, 2}, [3]int{-1, 1, 4}, [3]int{0, 1, 5}, [3]int{1, 1, 4}, [3]int{2, 1, 2},
		[3]int{-1, 2, 2}, [3]int{0, 2, 3}, [3]int{1, 2, 2},
	)

	TwoRowSierra = scaled("two-row-sierra", 16,
		[3]int{1, 0, 4}, [3]int{2, 0, 3},
		[3]int{-2, 1, 1}, [3]int{-1, 1, 2}, [3]int{0, 1, 3}, [3]int{1, 1, 2}, [3]int{2, 1, 1},
	)

	SierraLite = scaled("sierra-lite", 4,
		[3]int{1, 0, 2},
		[3]int{-1, 1, 1}, [3]int{0, 1, 1},
	)

	StevensonArce = scaled("stevenson-arce", 200,
		[3]int{2, 0, 32},
		[3]int{-3, 1, 12}, [3]int{-1, 1, 26}, [3]int{1, 1, 30}, [3]int{3, 1, 16},
		[3]int{-2, 2, 12}, [3]int{0, 2, 26}, [3]int{2, 2, 12},
		[3]int{-3, 3, 5}, [3]int{-1, 3, 12}, [3]int{1, 3, 12}, [3]int{3, 3, 5},
	)

	Fan = scaled("fan", 16,
		[3]int{1, 0, 7},
		[3]int{-2, 1, 1}, [3]int{-1, 1, 3}, [3]int{0, 1, 5},
	)

	ShiauFan = scaled("shiau-fan", 16,
		[3]int{1, 0, 8},
		[3]int{-3, 1, 1}, [3]int{-2, 1, 1}, [3]int{-1, 1, 2}, [3]int{0, 1, 4},
	)

	K3M = scaled("k3m", 16,
		[3]int{1, 0, 6}, [3]int{2, 0, 1},
		[3]int{-1, 1, 3}, [3]int{0, 1, 5}, [3]int{1, 1, 1},
	)

	LiWan = scaled("li-wan", 32,
		[3]int{1, 0, 8}, [3]int{2, 0, 4},
		[3]int{-1, 1, 4}, [3]int{0, 1, 8}, [3]int{1, 1, 4},
		[3]int{0, 2, 4},
	)

	PJARRI = scaled("pjarri", 16,
		[3]int{1, 0, 5}, [3]int{2, 0, 2},
		[3]int{-1, 1, 3}, [3]int{0, 1, 4}, [3]int{1, 1, 2},
	)

	// ImprovedStucki is Stucki over a larger divisor; 2/44 of the error is
	// dropped to tame the worm artifacts of the original.
	ImprovedStucki = scaled("improved-stucki", 44,
		[3]int{1, 0, 8}, [3]int{2, 0, 4},
		[3]int{-2, 1, 2}, [3]int{-1, 1, 4}, [3]int{0, 1, 8}, [3]int{1, 1, 4}, [3]int{2, 1, 2},
		[3]int{-2, 2, 1}, [3]int{-1, 2, 2}, [3]int{0, 2, 4}, [3]int{1, 2, 2}, [3]int{2, 2, 1},
	)
)

var catalogue = map[string]Kernel{}

func register(k Kernel) {
	catalogue[k.Name] = k
}

func init() {
	for _, k := range []Kernel{
		FloydSteinberg, Atkinson, JarvisJudiceNinke, Stucki, Burkes, Sierra,
		TwoRowSierra, SierraLite, StevensonArce, Fan, K3M, LiWan, PJARRI,
		ShiauFan, ImprovedStucki,
	} {
		register(k)
	}

	// Matrices only found in the dither library.
	for name, m := range map[string]dither.ErrorDiffusionMatrix{
		"simple-2d":             dither.Simple2D,
		"false-floyd-steinberg": dither.FalseFloydSteinberg,
		"sierra-2-4a":           dither.Sierra2_4A,
		"steven-pigeon":         dither.StevenPigeon,
	} {
		register(FromMatrix(name, m))
	}
}

func normalize(name string) string {
	return strings.NewReplacer("_", "-", " ", "-").Replace(strings.ToLower(name))
}

// Lookup finds a kernel by name, ignoring case and treating '_' as '-'.
func Lookup(name string) (Kernel, bool) {
	key := normalize(name)
	if k, ok := catalogue[key]; ok {
		return k, true
	}
	for n, k := range catalogue {
		if strings.ReplaceAll(n, "-", "") == strings.ReplaceAll(key, "-", "") {
			return k, true
		}
	}
	return Kernel{}, false
}

// Names lists the catalogue, sorted.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for n := range catalogue {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// FromMatrix converts a dither library matrix into a kernel. The current
// pixel sits in the first row, just left of its first non-zero entry; zero
// entries are dropped.
func FromMatrix(name string, m dither.ErrorDiffusionMatrix) Kernel {
	k := Kernel{Name: name}
	if len(m) == 0 {
		return k
	}

	cur := len(m[0]) - 1
	for i, v := range m[0] {
		if v != 0 {
			cur = i - 1
			break
		}
	}

	for dy, row := range m {
		for x, v := range row {
			if v == 0 {
				continue
			}
			k.Offsets = append(k.Offsets, Offset{DX: x - cur, DY: dy, Weight: float64(v)})
		}
	}
	return k
}
