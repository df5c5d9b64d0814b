package quantize

import (
	"slices"

	"pixquant/rgb"
)

type box []rgb.Color

type channel int

const (
	red channel = iota
	green
	blue
)

func (ch channel) of(c rgb.Color) uint8 {
	switch ch {
	case green:
		return c.G
	case blue:
		return c.B
	}
	return c.R
}

// widest returns the channel with the largest value range. Ties prefer red,
// then green.
func (b box) widest() channel {
	lo := [3]uint8{255, 255, 255}
	var hi [3]uint8
	for _, c := range b {
		for ch := red; ch <= blue; ch++ {
			v := ch.of(c)
			lo[ch] = min(lo[ch], v)
			hi[ch] = max(hi[ch], v)
		}
	}

	best := red
	for ch := green; ch <= blue; ch++ {
		if int(hi[ch])-int(lo[ch]) > int(hi[best])-int(lo[best]) {
			best = ch
		}
	}
	return best
}

// split sorts the box on its widest channel and cuts it at len/2.
func (b box) split() (box, box) {
	ch := b.widest()
	slices.SortStableFunc(b, func(x, y rgb.Color) int {
		return int(ch.of(x)) - int(ch.of(y))
	})
	mid := len(b) / 2
	return b[:mid:mid], b[mid:]
}

// medianCut splits boxes pass by pass until there are n of them. A pass
// visits the boxes in order and stops splitting once n is reached, so the
// result never exceeds n. When every box is down to a single color the loop
// ends early and fewer than n colors are returned.
func medianCut(colors []rgb.Color, n int) ([]rgb.Color, int) {
	boxes := []box{slices.Clone(colors)}
	passes := 0
	for len(boxes) < n {
		next := make([]box, 0, 2*len(boxes))
		split := false
		for i, b := range boxes {
			if len(b) <= 1 || len(next)+len(boxes)-i >= n {
				next = append(next, b)
				continue
			}
			lo, hi := b.split()
			next = append(next, lo, hi)
			split = true
		}
		boxes = next
		passes++
		if !split {
			break
		}
	}

	res := make([]rgb.Color, len(boxes))
	for i, b := range boxes {
		res[i] = rgb.Mean(b)
	}
	return res, passes
}
