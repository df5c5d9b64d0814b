package palette

import (
	"encoding/binary"
	"fmt"
	"io"

	"pixquant/failure"
	"pixquant/rgb"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 0x0300

// ReadRIFF reads a RIFF PAL document. Colors of every data chunk, including
// those nested in PAL lists, are concatenated in file order.
func ReadRIFF(r io.Reader, name string) (*Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open RIFF stream: %v", failure.ErrFormat, err)
	} else if formType != palType {
		return nil, fmt.Errorf("%w: unsupported RIFF content type: %s", failure.ErrFormat, string(formType[:]))
	}

	p := &Palette{Name: name}
	if err := readChunks(rd, name, p); err != nil {
		return nil, err
	}
	return p, nil
}

func readChunks(r *riff.Reader, ident string, p *Palette) error {
	for i := 0; ; i++ {
		id, size, data, err := r.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("%w: could not read chunk %s#%d: %v", failure.ErrFormat, ident, i, err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return fmt.Errorf("%w: could not read list from chunk %s#%d: %v", failure.ErrFormat, ident, i, err)
			} else if listType != palType {
				return fmt.Errorf("%w: chunk %s#%d unsupported list type: %s", failure.ErrFormat, ident, i, string(listType[:]))
			}
			if err := readChunks(list, fmt.Sprintf("%s#%d", ident, i), p); err != nil {
				return err
			}
		case dataType:
			if err := readData(data, fmt.Sprintf("%s#%d", ident, i), p); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unsupported chunk type in %s#%d: %s", failure.ErrFormat, ident, i, string(id[:]))
		}
	}
}

func readData(r io.Reader, ident string, p *Palette) error {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("%w: could not read header of chunk %s: %v", failure.ErrFormat, ident, err)
	}

	if ver := binary.LittleEndian.Uint16(hdr[:2]); ver != palVersion {
		return fmt.Errorf("%w: unsupported palette version in chunk %s: %#04x", failure.ErrFormat, ident, ver)
	}

	count := binary.LittleEndian.Uint16(hdr[2:])
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return fmt.Errorf("%w: could not read color %d/%d from chunk %s: %v", failure.ErrFormat, i, count, ident, err)
		}
		p.Colors = append(p.Colors, rgb.Color{R: entry[0], G: entry[1], B: entry[2]})
	}

	return nil
}

// WriteRIFF writes the palette as a single-chunk RIFF PAL document and
// returns the number of bytes written.
func (p *Palette) WriteRIFF(w io.Writer) (int64, error) {
	if len(p.Colors) > 0xffff {
		return 0, fmt.Errorf("%w: RIFF palettes hold at most 65535 colors, got %d", failure.ErrInvalidArgument, len(p.Colors))
	}

	// palVersion + palNumEntries + 4 bytes/color
	chunk := 4 + len(p.Colors)*4

	buf := make([]byte, 0, 12+8+chunk)
	buf = append(buf, riffType[:]...)
	// form type + chunk header + chunk
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+chunk))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunk))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(p.Colors)))
	for _, c := range p.Colors {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("%w: could not write palette %q: %v", failure.ErrIO, p.Name, err)
	} else if n != len(buf) {
		return int64(n), fmt.Errorf("%w: wrote only %d/%d bytes", failure.ErrIO, n, len(buf))
	}

	return int64(n), nil
}
