package imageio

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"testing"

	"pixquant/failure"

	"github.com/disintegration/imaging"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(((x + y) % 2) * 255)
			img.SetNRGBA(x, y, color.NRGBA{v, uint8(x * 16), uint8(y * 16), 255})
		}
	}
	return img
}

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	src := checker(6, 4)

	for _, name := range []string{"out.png", "out.bmp", "out.tiff", "out.gif"} {
		path := filepath.Join(dir, name)
		if err := Save(src, path, ""); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}

		img, format, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		want, _ := FormatOf(name)
		if format != want {
			t.Errorf("Open(%s) format = %q, want %q", name, format, want)
		}
		if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
			t.Errorf("Open(%s) bounds = %v", name, img.Bounds())
		}
		if name == "out.gif" {
			continue
		}
		if got, want := color.NRGBAModel.Convert(img.At(3, 1)), src.At(3, 1); got != want {
			t.Errorf("%s: pixel (3,1) = %v, want %v", name, got, want)
		}
	}
}

func TestUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	if err := Save(checker(2, 2), filepath.Join(dir, "out.xyz"), ""); !errors.Is(err, failure.ErrIO) {
		t.Errorf("Save(.xyz): got %v, want ErrIO", err)
	}
	if err := Save(checker(2, 2), filepath.Join(dir, "out.png"), "avif"); !errors.Is(err, failure.ErrIO) {
		t.Errorf("Save(avif): got %v, want ErrIO", err)
	}
	if _, _, err := Open(filepath.Join(dir, "missing.png")); !errors.Is(err, failure.ErrIO) {
		t.Errorf("Open(missing): got %v, want ErrIO", err)
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]string{
		"a.PNG": "png", "b.jpg": "jpeg", "c.jpeg": "jpeg", "d.tif": "tiff", "e.bmp": "bmp", "f.gif": "gif",
	} {
		if got, err := FormatOf(path); err != nil || got != want {
			t.Errorf("FormatOf(%q) = %q, %v", path, got, err)
		}
	}
}

func TestPixelate(t *testing.T) {
	src := checker(8, 6)
	img, err := Pixelate(src, 2, imaging.NearestNeighbor)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("Pixelate bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
	for y := 0; y < 6; y += 2 {
		for x := 0; x < 8; x += 2 {
			c := img.At(x, y)
			for _, p := range []image.Point{{x + 1, y}, {x, y + 1}, {x + 1, y + 1}} {
				if img.At(p.X, p.Y) != c {
					t.Errorf("block at (%d,%d) is not uniform", x, y)
				}
			}
		}
	}

	if same, _ := Pixelate(src, 1, imaging.Box); same != image.Image(src) {
		t.Error("factor 1 should return the input")
	}
	if _, err := Pixelate(src, 0, imaging.Box); !errors.Is(err, failure.ErrInvalidArgument) {
		t.Errorf("factor 0: got %v", err)
	}
}

func TestResize(t *testing.T) {
	src := checker(40, 20)
	testCases := []struct {
		w, h         int
		wantW, wantH int
	}{
		{20, 0, 20, 10},
		{0, 5, 10, 5},
		{10, 10, 10, 5},
		{100, 10, 20, 10},
	}
	for _, tc := range testCases {
		img, err := Resize(slog.Default(), src, tc.w, tc.h)
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != tc.wantW || b.Dy() != tc.wantH {
			t.Errorf("Resize(%d, %d) = %dx%d, want %dx%d", tc.w, tc.h, b.Dx(), b.Dy(), tc.wantW, tc.wantH)
		}
	}

	if _, err := Resize(slog.Default(), src, -1, 0); !errors.Is(err, failure.ErrInvalidArgument) {
		t.Errorf("negative width: got %v", err)
	}
}

func TestFilter(t *testing.T) {
	for _, name := range []string{"box", "Nearest", "linear", "lanczos"} {
		if _, err := Filter(name); err != nil {
			t.Errorf("Filter(%q): %v", name, err)
		}
	}
	if _, err := Filter("sinc"); err == nil {
		t.Error("Filter(sinc) succeeded")
	}
}
