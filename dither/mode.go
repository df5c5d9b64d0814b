package dither

import (
	"fmt"
	"strings"

	"pixquant/failure"
	"pixquant/kernel"
)

// Mode selects one dithering algorithm. It is implemented by Diffusion,
// Ordered and BlueNoise only.
type Mode interface {
	fmt.Stringer
	isMode()
}

// Diffusion is error diffusion with the given kernel.
type Diffusion struct {
	Kernel kernel.Kernel
}

// Ordered is Bayer ordered dithering with a 2^Order square matrix.
type Ordered struct {
	Order int
}

// BlueNoise quantizes each pixel, nudges it toward its original value when
// a random byte beats a threshold drawn from Level, and then diffuses the
// error with Floyd-Steinberg.
type BlueNoise struct {
	Level NoiseLevel
}

func (Diffusion) isMode() {}
func (Ordered) isMode()   {}
func (BlueNoise) isMode() {}

func (m Diffusion) String() string { return m.Kernel.Name }
func (m Ordered) String() string   { return fmt.Sprintf("bayer(%d)", m.Order) }
func (m BlueNoise) String() string { return fmt.Sprintf("blue-noise(%s)", m.Level) }

type NoiseLevel int

const (
	Low NoiseLevel = iota
	Medium
	High
)

// Bounds returns the inclusive range the global noise threshold is drawn
// from.
func (l NoiseLevel) Bounds() (lo, hi int) {
	switch l {
	case Medium:
		return 86, 170
	case High:
		return 171, 254
	}
	return 0, 85
}

func (l NoiseLevel) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return fmt.Sprintf("NoiseLevel(%d)", int(l))
}

func ParseNoiseLevel(s string) (NoiseLevel, error) {
	switch strings.ToLower(s) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return 0, fmt.Errorf("%w: unknown noise level %q", failure.ErrInvalidArgument, s)
}

// ParseMode resolves a mode name: "bayer", "blue-noise", or any kernel name
// known to the kernel package. order and level parameterize the first two.
func ParseMode(name string, order int, level NoiseLevel) (Mode, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "_", "-") {
	case "bayer", "ordered":
		return Ordered{Order: order}, nil
	case "blue-noise", "bluenoise":
		return BlueNoise{Level: level}, nil
	}

	k, ok := kernel.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown dither mode %q", failure.ErrInvalidArgument, name)
	}
	return Diffusion{Kernel: k}, nil
}
