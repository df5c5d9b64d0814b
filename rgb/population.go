package rgb

import "image"

// Population is a deduplicated collection of colors. It iterates in
// insertion order, so anything derived from it is reproducible.
type Population struct {
	colors []Color
	seen   map[Color]struct{}
}

// NewPopulation builds a population from colors, keeping first occurrences.
func NewPopulation(colors ...Color) *Population {
	p := &Population{seen: make(map[Color]struct{}, len(colors))}
	for _, c := range colors {
		p.Add(c)
	}
	return p
}

// Add inserts c and reports whether it was not already present.
func (p *Population) Add(c Color) bool {
	if p.seen == nil {
		p.seen = make(map[Color]struct{})
	}
	if _, ok := p.seen[c]; ok {
		return false
	}
	p.seen[c] = struct{}{}
	p.colors = append(p.colors, c)
	return true
}

func (p *Population) Contains(c Color) bool {
	_, ok := p.seen[c]
	return ok
}

func (p *Population) Len() int {
	if p == nil {
		return 0
	}
	return len(p.colors)
}

// Colors returns a copy of the population in insertion order.
func (p *Population) Colors() []Color {
	if p == nil {
		return nil
	}
	return append([]Color(nil), p.colors...)
}

// Extract collects every distinct color of img. Pixels are visited
// row-major, so the population order is the order of first appearance.
func Extract(img image.Image) *Population {
	b := img.Bounds()
	p := &Population{seen: make(map[Color]struct{})}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.Add(FromColor(img.At(x, y)))
		}
	}
	return p
}
