// Package palcmd implements the palette commands: generating a palette from
// an image, listing the palette folder and printing a palette.
package palcmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"pixquant/imageio"
	"pixquant/palette"
	"pixquant/quantize"
	"pixquant/rgb"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Gen  GenCmd  `cmd:"" help:"Generate a palette from the colors of an image"`
	Ls   LsCmd   `cmd:"" help:"List palettes in the palette folder"`
	Show ShowCmd `cmd:"" help:"Print the colors of a palette"`
}

type GenCmd struct {
	Image         string `arg:"" help:"Source image" type:"existingfile"`
	Name          string `help:"Palette file name, '.pal' selects the RIFF format" required:"" short:"n"`
	Colors        int    `help:"Number of colors to generate" default:"16" short:"c"`
	Strategy      string `help:"Quantization strategy" enum:"random,average,kmeans,median-cut" default:"kmeans" short:"s"`
	Seed          uint64 `help:"Seed for the random and kmeans strategies, the same seed always gives the same palette"`
	MaxIterations int    `help:"K-means iteration cap" default:"1000"`

	strategy quantize.Strategy `kong:"-"`
}

func (c *GenCmd) Validate(kctx *kong.Context) error {
	if c.Colors < 1 {
		return fmt.Errorf("invalid color count: %d", c.Colors)
	}
	var err error
	c.strategy, err = quantize.ParseStrategy(c.Strategy)
	return err
}

func (c *GenCmd) Run(store *palette.Store) error {
	logger := slog.Default().With("file", c.Image, "strategy", c.strategy)

	img, _, err := imageio.Open(c.Image)
	if err != nil {
		return err
	}

	pop := rgb.Extract(img)
	logger.Info("extracted raw palette", "colors", pop.Len())

	res, err := quantize.Quantize(pop, c.Name, quantize.Options{
		Strategy:      c.strategy,
		Colors:        c.Colors,
		Seed:          c.Seed,
		MaxIterations: c.MaxIterations,
	})
	if err != nil {
		return fmt.Errorf("could not generate palette: %w", err)
	}

	if !res.Converged {
		logger.Warn("k-means stopped before converging", "iterations", res.Iterations)
	}
	if res.Shortfall() != 0 {
		logger.Warn("palette size differs from request", "requested", res.Requested, "generated", res.Palette.Len())
	}

	if err := store.Save(res.Palette); err != nil {
		return err
	}
	logger.Info("palette saved", "path", store.Path(c.Name), "colors", res.Palette.Len(), "iterations", res.Iterations)
	return nil
}

type LsCmd struct{}

func (c *LsCmd) Run(store *palette.Store) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	return printLines(os.Stdout, names)
}

type ShowCmd struct {
	Name string `arg:"" help:"Palette name or path"`
}

func (c *ShowCmd) Run(store *palette.Store) error {
	pal, err := store.Load(c.Name)
	if err != nil {
		return err
	}
	_, err = pal.WriteHex(os.Stdout)
	return err
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("could not print: %w", err)
		}
	}
	return nil
}
