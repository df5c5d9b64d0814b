package palette

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"pixquant/failure"
	"pixquant/rgb"
)

// ReadHex reads one RRGGBB color per line. A malformed line fails the whole
// read.
func ReadHex(r io.Reader, name string) (*Palette, error) {
	p := &Palette{Name: name}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		c, err := rgb.ParseHex(strings.TrimSuffix(sc.Text(), "\r"))
		if err != nil {
			return nil, fmt.Errorf("palette %q line %d: %w", name, line, err)
		}
		p.Colors = append(p.Colors, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: could not read palette %q: %v", failure.ErrIO, name, err)
	}

	return p, nil
}

// WriteHex writes the palette as uppercase RRGGBB lines.
func (p *Palette) WriteHex(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for i, c := range p.Colors {
		m, err := fmt.Fprintln(bw, c.Hex())
		n += int64(m)
		if err != nil {
			return n, fmt.Errorf("%w: could not write color %d/%d: %v", failure.ErrIO, i, len(p.Colors), err)
		}
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("%w: could not flush palette %q: %v", failure.ErrIO, p.Name, err)
	}
	return n, nil
}
