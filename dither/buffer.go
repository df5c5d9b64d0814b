package dither

import (
	"fmt"
	"image"

	"pixquant/failure"
	"pixquant/palette"
	"pixquant/rgb"
)

// Buffer is a row-major grid of colors that dithering rewrites in place.
// The pixel at (x, y) is Pix[y*Width+x].
type Buffer struct {
	Width, Height int
	Pix           []rgb.Color
}

func NewBuffer(width, height int) *Buffer {
	return &Buffer{Width: width, Height: height, Pix: make([]rgb.Color, width*height)}
}

// FromImage copies img into a new buffer, discarding alpha. The buffer
// origin is img.Bounds().Min.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	buf := NewBuffer(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			buf.Pix[i] = rgb.FromColor(img.At(x, y))
			i++
		}
	}
	return buf
}

func (b *Buffer) At(x, y int) rgb.Color {
	return b.Pix[y*b.Width+x]
}

func (b *Buffer) Set(x, y int, c rgb.Color) {
	b.Pix[y*b.Width+x] = c
}

func (b *Buffer) Check() error {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: pixel buffer is empty", failure.ErrInvalidArgument)
	}
	if len(b.Pix) != b.Width*b.Height {
		return fmt.Errorf("%w: pixel buffer holds %d pixels, want %dx%d", failure.ErrInvalidArgument, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// Population returns the distinct colors of the buffer in raster order.
func (b *Buffer) Population() *rgb.Population {
	return rgb.NewPopulation(b.Pix...)
}

// Image returns an opaque RGBA copy of the buffer.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, c := range b.Pix {
		o := i * 4
		img.Pix[o+0] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 0xff
	}
	return img
}

// Paletted returns the buffer as an indexed image over pal. Colors missing
// from pal map to their nearest entry.
func (b *Buffer) Paletted(pal *palette.Palette) (*image.Paletted, error) {
	if err := pal.Check(); err != nil {
		return nil, err
	}
	if len(pal.Colors) > 256 {
		return nil, fmt.Errorf("%w: indexed images hold at most 256 colors, palette %q has %d", failure.ErrInvalidArgument, pal.Name, len(pal.Colors))
	}

	img := image.NewPaletted(image.Rect(0, 0, b.Width, b.Height), pal.ColorPalette())
	for i, c := range b.Pix {
		img.Pix[i] = uint8(pal.Index(c))
	}
	return img, nil
}

// Indexed returns the buffer as an indexed image over its own distinct
// colors, so no pixel changes. It fails when there are more than 256.
func (b *Buffer) Indexed() (*image.Paletted, error) {
	pop := b.Population()
	if pop.Len() > 256 {
		return nil, fmt.Errorf("%w: indexed images hold at most 256 colors, buffer has %d", failure.ErrInvalidArgument, pop.Len())
	}
	return b.Paletted(palette.New("buffer", pop.Colors()...))
}
