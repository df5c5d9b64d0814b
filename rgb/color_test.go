package rgb

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"pixquant/failure"
)

func TestDistance(t *testing.T) {
	colors := []Color{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {12, 200, 7}, {128, 128, 128},
	}

	for _, a := range colors {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range colors {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("Distance(%v, %v) is not symmetric", a, b)
			}
		}
	}

	if got, want := Distance(Color{0, 0, 0}, Color{255, 255, 255}), math.Sqrt(3*255*255); got != want {
		t.Errorf("black/white distance = %v, want %v", got, want)
	}
	if got := Distance(Color{3, 0, 0}, Color{0, 4, 0}); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{"000000", "FFFFFF", "FF0000", "00FF00", "0000FF", "1A2B3C", "ABCDEF", "09F0E1"} {
		c, err := ParseHex(s)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", s, err)
			continue
		}
		if got := c.Hex(); got != s {
			t.Errorf("ParseHex(%q).Hex() = %q", s, got)
		}
	}
}

func TestParseHex(t *testing.T) {
	testCases := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ff8000", want: Color{255, 128, 0}},
		{in: "ff8000", want: Color{255, 128, 0}},
		{in: "#FF8000", want: Color{255, 128, 0}},
		{in: "FF800", wantErr: true},
		{in: "FF80000", wantErr: true},
		{in: "GG0000", wantErr: true},
		{in: "##FF0000", wantErr: true},
		{in: "", wantErr: true},
		{in: " FF000", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseHex(tc.in)
		if tc.wantErr {
			if !errors.Is(err, failure.ErrFormat) {
				t.Errorf("ParseHex(%q): got err %v, want ErrFormat", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHex(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFromColor(t *testing.T) {
	if got := FromColor(color.NRGBA{10, 20, 30, 0}); got != (Color{10, 20, 30}) {
		t.Errorf("FromColor(NRGBA) = %v, alpha must be dropped", got)
	}
	if got := FromColor(color.RGBA{128, 64, 0, 128}); got != (Color{255, 127, 0}) {
		t.Errorf("FromColor(premultiplied RGBA) = %v", got)
	}
	if got := FromColor(color.Gray{77}); got != (Color{77, 77, 77}) {
		t.Errorf("FromColor(Gray) = %v", got)
	}

	r, g, b, a := Color{255, 0, 1}.RGBA()
	if r != 0xffff || g != 0 || b != 0x0101 || a != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
}

func TestMean(t *testing.T) {
	got := Mean([]Color{{0, 0, 0}, {255, 1, 3}})
	if want := (Color{127, 0, 1}); got != want {
		t.Errorf("Mean = %v, want %v", got, want)
	}
	if got := Mean(nil); got != (Color{}) {
		t.Errorf("Mean(nil) = %v, want black", got)
	}
}

func TestExtract(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	px := []Color{{1, 1, 1}, {2, 2, 2}, {1, 1, 1}, {3, 3, 3}, {2, 2, 2}, {1, 1, 1}}
	for i, c := range px {
		img.SetNRGBA(i%3, i/3, color.NRGBA{c.R, c.G, c.B, 255})
	}

	pop := Extract(img)
	want := []Color{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	got := pop.Colors()
	if len(got) != len(want) {
		t.Fatalf("Extract: got %d colors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extract[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !pop.Contains(Color{3, 3, 3}) || pop.Contains(Color{4, 4, 4}) {
		t.Error("Contains disagrees with extracted colors")
	}
}

func TestPopulationAdd(t *testing.T) {
	var p Population
	if !p.Add(Color{1, 2, 3}) {
		t.Error("first Add reported duplicate")
	}
	if p.Add(Color{1, 2, 3}) {
		t.Error("second Add did not report duplicate")
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}
