// Package convert implements the convert command: decode, optionally
// pixelate and resize, reduce to a palette, and encode.
package convert

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"pixquant/dither"
	"pixquant/imageio"
	"pixquant/palette"
	"pixquant/parallel"
	"pixquant/quantize"

	"github.com/alecthomas/kong"
)

// ModeNone selects plain nearest-color replacement without dithering.
const ModeNone = "none"

type CLICmd struct {
	Inputs     []string `arg:"" help:"Images to convert" type:"existingfile"`
	Out        string   `help:"Destination folder for converted images" default:"output" short:"o"`
	Palette    string   `help:"Palette name in the palette folder, or path to a palette file" required:"" short:"p"`
	Mode       string   `help:"Dither mode: none, bayer, blue-noise or an error-diffusion kernel name" default:"floyd-steinberg" short:"m"`
	BayerOrder int      `help:"Bayer matrix order, the matrix side is 2^order" default:"2" group:"ordered"`
	Noise      string   `help:"Blue-noise threshold bucket" enum:"low,medium,high" default:"medium" group:"blue-noise"`
	Seed       uint64   `help:"Seed for blue-noise dithering, 0 picks a random one" group:"blue-noise"`
	Pixelate   int      `help:"Pixelation factor, 1 disables" default:"1" group:"resize"`
	Filter     string   `help:"Downscale filter used when pixelating" enum:"box,nearest,linear,lanczos" default:"nearest" group:"resize"`
	Width      int      `help:"Max width" group:"resize"`
	Height     int      `help:"Max height" group:"resize"`
	Format     string   `help:"Output format of converted images" enum:"same,png,jpeg,gif,bmp,tiff" default:"png"`

	mode dither.Mode `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Pixelate < 1 {
		return fmt.Errorf("invalid pixelation factor: %d", c.Pixelate)
	}
	if c.Width < 0 {
		return fmt.Errorf("invalid resize width: %d", c.Width)
	}
	if c.Height < 0 {
		return fmt.Errorf("invalid resize height: %d", c.Height)
	}

	if !strings.EqualFold(c.Mode, ModeNone) {
		level, err := dither.ParseNoiseLevel(c.Noise)
		if err != nil {
			return err
		}
		if c.mode, err = dither.ParseMode(c.Mode, c.BayerOrder, level); err != nil {
			return err
		}
	}

	return nil
}

// Run converts every input on the pool. A failed file is logged and counted
// and does not stop the others.
func (c *CLICmd) Run(pool *parallel.Pool, store *palette.Store) error {
	pal, err := store.Load(c.Palette)
	if err != nil {
		return err
	}
	if err := pal.Check(); err != nil {
		return fmt.Errorf("palette %q: %w", c.Palette, err)
	}

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Out, err)
	}

	remapWorkers := bandWorkers(pool.Size(), len(c.Inputs))

	var processedCount, errCount atomic.Uint64
	for _, input := range c.Inputs {
		pool.Do(func() {
			logger := slog.Default().With("file", input)
			if err := c.convert(logger, input, pal, remapWorkers); err != nil {
				errCount.Add(1)
				logger.Error("could not convert image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// bandWorkers shares the pool's workers between the files converted at
// once, so the row bands of every remap add up to the hardware parallelism.
func bandWorkers(poolSize, files int) int {
	return max(1, poolSize/max(1, files))
}

func (c *CLICmd) convert(logger *slog.Logger, input string, pal *palette.Palette, remapWorkers int) error {
	img, imgType, err := imageio.Open(input)
	if err != nil {
		return err
	}

	if c.Pixelate > 1 {
		filter, err := imageio.Filter(c.Filter)
		if err != nil {
			return err
		}
		logger.Info("pixelating", "factor", c.Pixelate, "filter", c.Filter)
		if img, err = imageio.Pixelate(img, c.Pixelate, filter); err != nil {
			return fmt.Errorf("could not pixelate image: %w", err)
		}
	}

	if c.Width > 0 || c.Height > 0 {
		if img, err = imageio.Resize(logger, img, c.Width, c.Height); err != nil {
			return fmt.Errorf("could not resize image: %w", err)
		}
	}

	format := c.Format
	if format == "same" {
		format = imgType
		if _, ok := imageio.Extensions[format]; !ok {
			format = "png"
		}
	}

	palLog := logger.With("palette", pal.Name)
	out, err := c.repalette(palLog, img, pal, remapWorkers, format)
	if err != nil {
		return fmt.Errorf("could not change image palette: %w", err)
	}
	base := filepath.Base(input)
	dest := filepath.Join(c.Out, strings.TrimSuffix(base, filepath.Ext(base))+"."+imageio.Extensions[format])

	logger.Info("saving", "dest", dest, "format", format)
	return imageio.Save(out, dest, format)
}

func (c *CLICmd) repalette(logger *slog.Logger, img image.Image, pal *palette.Palette, remapWorkers int, format string) (image.Image, error) {
	buf := dither.FromImage(img)

	if c.mode == nil {
		logger.Info("applying palette", "colors", pal.Len())
		if err := dither.Remap(buf, pal, remapWorkers); err != nil {
			return nil, err
		}
	} else {
		logger.Info("dithering", "colors", pal.Len(), "mode", c.mode)
		var opts dither.Options
		if c.Seed != 0 {
			opts.Rand = rand.New(rand.NewPCG(c.Seed, c.Seed))
		}
		if err := dither.Apply(buf, pal, c.mode, opts); err != nil {
			return nil, err
		}
	}

	if format != "gif" {
		return buf.Image(), nil
	}
	return gifFrame(logger, buf, pal, c.mode)
}

// gifFrame indexes buf so the GIF encoder writes its colors unchanged.
// Only remap and error diffusion are guaranteed to leave palette colors;
// other output is indexed over its own colors, and reduced with median cut
// when there are more than 256 of them.
func gifFrame(logger *slog.Logger, buf *dither.Buffer, pal *palette.Palette, mode dither.Mode) (*image.Paletted, error) {
	switch mode.(type) {
	case nil, dither.Diffusion:
		if pal.Len() <= 256 {
			return buf.Paletted(pal)
		}
	}

	if img, err := buf.Indexed(); err == nil {
		return img, nil
	}

	pop := buf.Population()
	res, err := quantize.Quantize(pop, pal.Name, quantize.Options{
		Strategy: quantize.MedianCut,
		Colors:   256,
	})
	if err != nil {
		return nil, err
	}
	logger.Warn("too many colors for GIF, reducing with median cut", "colors", pop.Len())
	return buf.Paletted(res.Palette)
}
