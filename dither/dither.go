// Package dither converts pixel buffers to a palette, either by plain
// nearest-color replacement or with one of the ordered, error-diffusion and
// blue-noise algorithms.
package dither

import (
	"fmt"
	"math"
	"math/rand/v2"

	"pixquant/failure"
	"pixquant/kernel"
	"pixquant/palette"
	"pixquant/rgb"
)

type Options struct {
	// Rand drives blue-noise dithering. A nil Rand uses a randomly seeded
	// source.
	Rand *rand.Rand
}

// Apply dithers buf in place against pal using mode. Error diffusion
// leaves only palette colors and blue noise may nudge some pixels off them.
// Ordered dithering never consults pal: its spacing comes from the
// buffer's own colors.
func Apply(buf *Buffer, pal *palette.Palette, mode Mode, opts Options) error {
	if err := buf.Check(); err != nil {
		return err
	}
	if err := pal.Check(); err != nil {
		return err
	}

	switch m := mode.(type) {
	case Diffusion:
		if err := m.Kernel.Validate(); err != nil {
			return err
		}
		diffuse(buf, pal, m.Kernel)
	case Ordered:
		mat, err := kernel.Bayer(m.Order)
		if err != nil {
			return err
		}
		ordered(buf, mat, m.Order)
	case BlueNoise:
		rng := opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		blueNoise(buf, pal, m.Level, rng)
	default:
		return fmt.Errorf("%w: unsupported dither mode %v", failure.ErrInvalidArgument, mode)
	}
	return nil
}

type quantError [3]int

func errorOf(old, q rgb.Color) quantError {
	return quantError{int(old.R) - int(q.R), int(old.G) - int(q.G), int(old.B) - int(q.B)}
}

func clamp(v int) uint8 {
	return uint8(min(255, max(0, v)))
}

// spread adds the weighted error to the in-bounds neighbors of (x, y).
// Error aimed outside the buffer is lost.
func spread(buf *Buffer, x, y int, k kernel.Kernel, e quantError) {
	for _, o := range k.Offsets {
		nx, ny := x+o.DX, y+o.DY
		if nx < 0 || nx >= buf.Width || ny < 0 || ny >= buf.Height {
			continue
		}
		p := &buf.Pix[ny*buf.Width+nx]
		p.R = clamp(int(p.R) + int(float64(e[0])*o.Weight))
		p.G = clamp(int(p.G) + int(float64(e[1])*o.Weight))
		p.B = clamp(int(p.B) + int(float64(e[2])*o.Weight))
	}
}

// diffuse is a single raster-order pass: every pixel is read after all
// error from earlier pixels has reached it.
func diffuse(buf *Buffer, pal *palette.Palette, k kernel.Kernel) {
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			i := y*buf.Width + x
			old := buf.Pix[i]
			q := pal.Nearest(old)
			buf.Pix[i] = q
			spread(buf, x, y, k, errorOf(old, q))
		}
	}
}

// ordered applies the Bayer threshold t at each pixel: a channel above t
// is raised by floor(avg*t) and any other channel drops to zero. avg is the
// mean pairwise distance between the distinct colors of the undithered
// buffer, which costs time quadratic in their number. Sums saturate at 255.
func ordered(buf *Buffer, mat [][]uint32, order int) {
	avg := palette.New("raw", buf.Population().Colors()...).AverageDistance()
	size := len(mat)
	levels := float64(uint64(1) << (2 * order))

	level := func(v uint8, t float64, add int) uint8 {
		if float64(v) > t {
			return clamp(int(v) + add)
		}
		return 0
	}

	for y := 0; y < buf.Height; y++ {
		row := mat[y%size]
		for x := 0; x < buf.Width; x++ {
			t := float64(row[x%size]) / levels * 255
			add := int(min(math.Floor(avg*t), 255))
			p := &buf.Pix[y*buf.Width+x]
			p.R = level(p.R, t, add)
			p.G = level(p.G, t, add)
			p.B = level(p.B, t, add)
		}
	}
}

// noiseThreshold draws the per-call threshold uniformly from the level's
// inclusive bounds.
func noiseThreshold(level NoiseLevel, rng *rand.Rand) int {
	lo, hi := level.Bounds()
	return lo + rng.IntN(hi-lo+1)
}

// blueNoise quantizes in raster order. A pixel whose fresh random byte
// exceeds the threshold keeps a quarter of its error, which always lands
// between the palette color and the original, so no clamp is needed. The
// full error is then diffused with Floyd-Steinberg.
func blueNoise(buf *Buffer, pal *palette.Palette, level NoiseLevel, rng *rand.Rand) {
	threshold := noiseThreshold(level, rng)

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			i := y*buf.Width + x
			old := buf.Pix[i]
			q := pal.Nearest(old)
			e := errorOf(old, q)

			if rng.IntN(256) > threshold {
				q = rgb.Color{
					R: uint8(int(q.R) + e[0]/4),
					G: uint8(int(q.G) + e[1]/4),
					B: uint8(int(q.B) + e[2]/4),
				}
			}
			buf.Pix[i] = q
			spread(buf, x, y, kernel.FloydSteinberg, e)
		}
	}
}
