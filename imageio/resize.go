package imageio

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"pixquant/failure"

	"golang.org/x/image/draw"
)

// Resize scales img to fit inside width x height, keeping its aspect ratio.
// A zero dimension is derived from the other one.
func Resize(logger *slog.Logger, img image.Image, width, height int) (image.Image, error) {
	switch {
	case width < 0:
		return nil, fmt.Errorf("%w: invalid resize width: %d", failure.ErrInvalidArgument, width)
	case height < 0:
		return nil, fmt.Errorf("%w: invalid resize height: %d", failure.ErrInvalidArgument, height)
	case width == 0 && height == 0:
		return img, nil
	}

	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())
	srcAR := srcWidth / srcHeight

	destWidth, destHeight := float64(width), float64(height)
	switch {
	case width == 0:
		destWidth = destHeight * srcAR
	case height == 0:
		destHeight = destWidth / srcAR
	case srcAR < destWidth/destHeight:
		destWidth = destHeight * srcAR
	default:
		destHeight = destWidth / srcAR
	}

	w := max(1, int(math.Round(destWidth)))
	h := max(1, int(math.Round(destHeight)))
	if w == srcBounds.Dx() && h == srcBounds.Dy() {
		return img, nil
	}

	logger.Info("resizing", "width", w, "height", h)
	dest := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, srcBounds, draw.Src, nil)

	return dest, nil
}
