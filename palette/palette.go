// Package palette holds named color palettes, the nearest-color matcher and
// the palette file formats.
package palette

import (
	"fmt"
	"image/color"
	"math"

	"pixquant/failure"
	"pixquant/rgb"
)

// Palette is an ordered, named list of colors. Order is kept for file round
// trips and decides ties when matching.
type Palette struct {
	Name   string
	Colors []rgb.Color
}

func New(name string, colors ...rgb.Color) *Palette {
	return &Palette{Name: name, Colors: colors}
}

func (p *Palette) Len() int {
	return len(p.Colors)
}

// Index returns the position of the color closest to c. The first color
// scanned wins ties. It returns -1 for an empty palette.
func (p *Palette) Index(c rgb.Color) int {
	ret, best := -1, math.MaxFloat64
	for i, v := range p.Colors {
		d := rgb.Distance(c, v)
		if d < best {
			if d == 0 {
				return i
			}
			ret, best = i, d
		}
	}
	return ret
}

// Nearest returns the palette color closest to c. The palette must not be
// empty; use Match when that has not been checked.
func (p *Palette) Nearest(c rgb.Color) rgb.Color {
	return p.Colors[p.Index(c)]
}

// Match is Nearest with the empty palette reported as an error.
func (p *Palette) Match(c rgb.Color) (rgb.Color, error) {
	if err := p.Check(); err != nil {
		return rgb.Color{}, err
	}
	return p.Nearest(c), nil
}

// Check reports whether the palette can be matched against.
func (p *Palette) Check() error {
	if p == nil || len(p.Colors) == 0 {
		return fmt.Errorf("%w: palette is empty", failure.ErrInvalidArgument)
	}
	return nil
}

// AverageDistance is the mean distance over all unordered pairs of palette
// colors, or 0 when there is no pair.
func (p *Palette) AverageDistance() float64 {
	n := len(p.Colors)
	if n < 2 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += rgb.Distance(p.Colors[i], p.Colors[j])
		}
	}
	return sum / float64(n*(n-1)/2)
}

// ColorPalette converts the palette for use with image.Paletted and the
// image/draw quantizers.
func (p *Palette) ColorPalette() color.Palette {
	pal := make(color.Palette, len(p.Colors))
	for i, c := range p.Colors {
		pal[i] = c
	}
	return pal
}
