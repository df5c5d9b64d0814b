package dither

import (
	"pixquant/palette"
	"pixquant/parallel"
)

// Remap replaces every pixel with its nearest palette color. Rows are cut
// into one contiguous band per worker and each worker owns its band's slice
// of Pix, so no locking is needed. workers below one selects GOMAXPROCS.
func Remap(buf *Buffer, pal *palette.Palette, workers int) error {
	if err := buf.Check(); err != nil {
		return err
	}
	if err := pal.Check(); err != nil {
		return err
	}

	bands := parallel.Split(buf.Height, parallel.Workers(workers))
	pool := parallel.Start(len(bands))
	for _, band := range bands {
		rows := buf.Pix[band.Lo*buf.Width : band.Hi*buf.Width]
		pool.Do(func() {
			for i, c := range rows {
				rows[i] = pal.Nearest(c)
			}
		})
	}
	pool.Wait()

	return nil
}
