package imageio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pixquant/failure"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

var extFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

// Extensions lists the output format names with their canonical extension.
var Extensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"gif":  "gif",
	"bmp":  "bmp",
	"tiff": "tiff",
}

// FormatOf maps a file name to an output format by its extension.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: unsupported file extension %q", failure.ErrIO, ext)
}

// Save encodes img to path in format, or in the format implied by the path
// extension when format is empty. The file is written under a temporary
// name and renamed into place.
func Save(img image.Image, path, format string) (err error) {
	if format == "" {
		if format, err = FormatOf(path); err != nil {
			return err
		}
	}
	if _, ok := Extensions[format]; !ok {
		return fmt.Errorf("%w: unsupported output format: %s", failure.ErrIO, format)
	}

	destDir, destName := filepath.Split(path)
	if destDir == "" {
		destDir = "."
	}
	outFile, err := os.CreateTemp(destDir, destName+".*")
	if err != nil {
		return fmt.Errorf("%w: could not create temporary destination %q: %v", failure.ErrIO, destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("%w: could not flush temporary destination %q: %v", failure.ErrIO, destName, defErr)
			canRename = false
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("%w: could not close temporary destination %q: %v", failure.ErrIO, destName, defErr)
			canRename = false
		}

		if canRename {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("%w: could not rename destination file %q: %v", failure.ErrIO, destName, defErr)
			}
		} else {
			_ = os.Remove(outFile.Name())
		}
	}()

	switch format {
	case "gif":
		// draw.Src maps colors without dithering when img is not already
		// indexed.
		if err = gif.Encode(outFile, img, &gif.Options{NumColors: 256, Drawer: draw.Src}); err != nil {
			return fmt.Errorf("%w: could not encode GIF destination %q: %v", failure.ErrIO, destName, err)
		}
	case "jpeg":
		if err = jpeg.Encode(outFile, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("%w: could not encode JPEG destination %q: %v", failure.ErrIO, destName, err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err = enc.Encode(outFile, img); err != nil {
			return fmt.Errorf("%w: could not encode PNG destination %q: %v", failure.ErrIO, destName, err)
		}
	case "bmp":
		if err = bmp.Encode(outFile, img); err != nil {
			return fmt.Errorf("%w: could not encode BMP destination %q: %v", failure.ErrIO, destName, err)
		}
	case "tiff":
		if err = tiff.Encode(outFile, img, nil); err != nil {
			return fmt.Errorf("%w: could not encode TIFF destination %q: %v", failure.ErrIO, destName, err)
		}
	}

	canRename = true
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
