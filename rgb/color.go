package rgb

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"strings"

	"pixquant/failure"
)

// Color is an opaque 8-bit RGB triple. It is comparable and can be used as a
// map key.
type Color struct {
	R, G, B uint8
}

var _ color.Color = Color{}

// RGBA implements color.Color. The alpha channel is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Hex returns the color as six uppercase hexadecimal digits, without '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	return "#" + c.Hex()
}

// ParseHex reads a RRGGBB triple. A single leading '#' is accepted.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: hex color %q must have 6 digits", failure.ErrFormat, s)
	}

	b, err := hex.DecodeString(h)
	if err != nil {
		return Color{}, fmt.Errorf("%w: invalid hex color %q: %v", failure.ErrFormat, s, err)
	}

	return Color{R: b[0], G: b[1], B: b[2]}, nil
}

// FromColor returns the straight RGB value of c. Alpha is discarded.
func FromColor(c color.Color) Color {
	switch v := c.(type) {
	case Color:
		return v
	case color.NRGBA:
		return Color{R: v.R, G: v.G, B: v.B}
	}

	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// Distance is the Euclidean distance between a and b in RGB space.
func Distance(a, b Color) float64 {
	dr := float64(int(a.R) - int(b.R))
	dg := float64(int(a.G) - int(b.G))
	db := float64(int(a.B) - int(b.B))
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Mean returns the per-channel mean of colors, truncated toward zero. An
// empty slice yields black.
func Mean(colors []Color) Color {
	if len(colors) == 0 {
		return Color{}
	}

	var r, g, b int
	for _, c := range colors {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}

	n := len(colors)
	return Color{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
}
