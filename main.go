package main

import (
	"log/slog"
	"os"

	"pixquant/convert"
	"pixquant/palcmd"
	"pixquant/palette"
	"pixquant/parallel"

	"github.com/alecthomas/kong"
)

type cli struct {
	Palettes string     `help:"Palette folder" default:"palettes" env:"PIXQUANT_PALETTES" type:"path"`
	Workers  int        `help:"Number of workers, 0 uses all CPUs" default:"0" env:"PIXQUANT_WORKERS" short:"j"`
	LogLevel slog.Level `help:"Log level (debug, info, warn, error)" default:"info" env:"PIXQUANT_LOG_LEVEL"`

	Convert convert.CLICmd `cmd:"" help:"Reduce images to a palette, with optional dithering"`
	Palette palcmd.CLICmd  `cmd:"" help:"Generate, list and show palettes"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("pixquant"),
		kong.Description("Palette quantization and dithering for pixel-art conversion."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "/etc/pixquant.json", "~/.config/pixquant.json"),
	)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel})))
	slog.Debug("running", "command", kctx.Command(), "palettes", c.Palettes, "workers", parallel.Workers(c.Workers))

	pool := parallel.Start(c.Workers)
	err := kctx.Run(pool, palette.NewStore(c.Palettes))
	pool.Wait()
	if err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
