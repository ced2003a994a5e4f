package tftspi

import (
	"errors"
	"image"

	"github.com/flavioheleno/tftspi/rgb565"
)

// DrawImage copies a w×h block of pixels, row-major, to (x, y). The part
// outside the screen is dropped.
func (d *Dev) DrawImage(x, y, w, h int, pix []rgb565.Color) error {
	if w < 0 || h < 0 || len(pix) < w*h {
		return errors.New("tftspi: pixel slice shorter than w*h")
	}
	return d.run(func() {
		r := image.Rect(x, y, x+w, y+h).Intersect(d.Bounds())
		if r.Empty() || !d.setWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1) {
			return
		}
		s := d.stream(true)
		for row := r.Min.Y; row < r.Max.Y; row++ {
			i := (row-y)*w + r.Min.X - x
			for _, c := range pix[i : i+r.Dx()] {
				s.put(c)
			}
		}
		s.flush()
	})
}

// DrawBitmap draws the set bits of a 1-bit mask in color c, leaving clear
// bits untouched. Rows are (w+7)/8 bytes long and the most significant bit
// is the leftmost pixel.
func (d *Dev) DrawBitmap(x, y, w, h int, bitmap []byte, c rgb565.Color) error {
	stride := (w + 7) / 8
	if w < 0 || h < 0 || len(bitmap) < stride*h {
		return errors.New("tftspi: bitmap shorter than its size")
	}
	return d.run(func() {
		for j := 0; j < h; j++ {
			row := bitmap[j*stride:]
			run := 0
			for i := 0; i <= w; i++ {
				if i < w && row[i/8]&(0x80>>(i&7)) != 0 {
					run++
					continue
				}
				if run > 0 {
					d.drawFastHLine(x+i-run, y+j, run, c)
					run = 0
				}
			}
		}
	})
}

// Draw implements display.Drawer. The source is converted to RGB565 and
// streamed into the clipped destination window.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}
	r := dst.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(dst.Min))
	return d.run(func() {
		if !d.setWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1) {
			return
		}
		s := d.stream(true)
		if img, ok := src.(*rgb565.Image); ok && (image.Rectangle{Min: sp, Max: sp.Add(r.Size())}).In(img.Rect) {
			for y := 0; y < r.Dy(); y++ {
				s.putWire(img.Row(sp.Y+y, sp.X, sp.X+r.Dx()))
			}
		} else {
			for y := 0; y < r.Dy(); y++ {
				for x := 0; x < r.Dx(); x++ {
					s.put(rgb565.Convert(src.At(sp.X+x, sp.Y+y)))
				}
			}
		}
		s.flush()
	})
}

// ReadPixel reads one pixel back from the panel RAM. It needs a bus
// implementing Reader. Outside the screen it returns Black.
func (d *Dev) ReadPixel(x, y int) (rgb565.Color, error) {
	if _, ok := d.bus.(Reader); !ok {
		return rgb565.Black, ErrNoRead
	}
	c, readable := rgb565.Black, true
	err := d.run(func() {
		if d.inBounds(x, y) {
			c, readable = d.readBack(x, y)
		}
	})
	if err == nil && !readable {
		return rgb565.Black, ErrNoRead
	}
	return c, err
}

// readPixel returns white when the pixel cannot be read, which is what the
// blending paths expect as a backdrop.
func (d *Dev) readPixel(x, y int) rgb565.Color {
	c, _ := d.readBack(x, y)
	return c
}

// readBack reads one pixel with RAMRD, which answers with a dummy byte and
// then one left-aligned byte per channel. It reports false when the bus
// cannot read; other failures are kept in d.err. Both cases yield white.
func (d *Dev) readBack(x, y int) (rgb565.Color, bool) {
	rd, ok := d.bus.(Reader)
	if !ok {
		return rgb565.White, false
	}
	if !d.address(x, y, x, y) {
		return rgb565.White, true
	}
	var b [4]byte
	err := rd.ReadCommand(cmdRAMRD, b[:])
	if errors.Is(err, ErrNoRead) {
		return rgb565.White, false
	}
	if err != nil {
		d.err = err
		return rgb565.White, true
	}
	return rgb565.RGB(b[1], b[2], b[3]), true
}
