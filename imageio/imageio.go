// Package imageio is the image codec boundary: decoding, resampling and
// encoding. Everything past it works on dither.Buffer.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"pixquant/failure"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Open decodes the image at path, applying any EXIF orientation. It also
// returns the format name reported by the decoder.
func Open(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not open image %q: %v", failure.ErrIO, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not read image %q: %v", failure.ErrIO, path, err)
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("%w: could not rewind image %q: %v", failure.ErrIO, path, err)
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not decode image %q: %v", failure.ErrIO, path, err)
	}
	return img, format, nil
}

// Pixelate shrinks img by factor and scales it back to its original size,
// both times with filter, leaving factor x factor blocks. In practice
// filter is imaging.Box or imaging.NearestNeighbor.
func Pixelate(img image.Image, factor int, filter imaging.ResampleFilter) (image.Image, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: pixelation factor must be at least 1, got %d", failure.ErrInvalidArgument, factor)
	}
	if factor == 1 {
		return img, nil
	}

	b := img.Bounds()
	w, h := max(1, b.Dx()/factor), max(1, b.Dy()/factor)
	small := imaging.Resize(img, w, h, filter)
	return imaging.Resize(small, b.Dx(), b.Dy(), imaging.NearestNeighbor), nil
}

// Filter resolves a resampling filter name.
func Filter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(name) {
	case "box":
		return imaging.Box, nil
	case "nearest", "nearest-neighbor":
		return imaging.NearestNeighbor, nil
	case "linear":
		return imaging.Linear, nil
	case "lanczos":
		return imaging.Lanczos, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("%w: unknown resampling filter %q", failure.ErrInvalidArgument, name)
}
