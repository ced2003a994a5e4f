package tftspi

import (
	"errors"
	"image/color"
	"math"

	"github.com/flavioheleno/tftspi/rgb565"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// ErrNoFont is returned by the text cursor methods before SetFont.
var ErrNoFont = errors.New("tftspi: no font set")

// Font is a fixed-cell bitmap font.
//
// Data holds Height rows per glyph, starting with ' '. In each row bit 15 is
// the leftmost pixel, so Width is at most 16.
type Font struct {
	Width  int
	Height int
	Data   []uint16
}

// glyph returns the rows of r, or nil when the table does not cover it.
func (f *Font) glyph(r rune) []uint16 {
	i := int(r) - ' '
	if r < ' ' || (i+1)*f.Height > len(f.Data) {
		return nil
	}
	return f.Data[i*f.Height : (i+1)*f.Height]
}

// GetGlyph implements tinyfont.Fonter.
func (f *Font) GetGlyph(r rune) tinyfont.Glypher {
	return fontGlyph{f: f, r: r}
}

// GetYAdvance implements tinyfont.Fonter.
func (f *Font) GetYAdvance() uint8 {
	return uint8(f.Height)
}

// fontGlyph draws a cell with its bottom row on the baseline.
type fontGlyph struct {
	f *Font
	r rune
}

func (g fontGlyph) Draw(d drivers.Displayer, x, y int16, c color.RGBA) {
	top := y - int16(g.f.Height-1)
	for row, bits := range g.f.glyph(g.r) {
		for col := 0; col < g.f.Width; col++ {
			if bits&(0x8000>>col) != 0 {
				d.SetPixel(x+int16(col), top+int16(row), c)
			}
		}
	}
}

func (g fontGlyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    uint8(g.f.Width),
		Height:   uint8(g.f.Height),
		XAdvance: uint8(g.f.Width),
		YOffset:  -int8(g.f.Height - 1),
	}
}

// SetFont selects the font used by the cursor methods.
func (d *Dev) SetFont(f *Font) {
	d.font = f
}

// SetTextColor sets the glyph and cell background colors.
func (d *Dev) SetTextColor(fg, bg rgb565.Color) {
	d.fg, d.bg = fg, bg
}

// SetCursor moves the text cursor. Positions past the screen are ignored.
func (d *Dev) SetCursor(x, y int) {
	if x > d.w || y > d.h {
		return
	}
	d.cx, d.cy = x, y
}

// Cursor returns the text cursor position.
func (d *Dev) Cursor() (x, y int) {
	return d.cx, d.cy
}

// WriteChar draws one glyph cell at (x, y). A cell that does not fit on the
// screen is not drawn.
func (d *Dev) WriteChar(x, y int, r rune) error {
	if d.font == nil {
		return ErrNoFont
	}
	return d.run(func() { d.drawGlyph(x, y, r) })
}

// WriteString draws s from (x, y) to the right, stopping at the first cell
// that does not fit.
func (d *Dev) WriteString(x, y int, s string) error {
	if d.font == nil {
		return ErrNoFont
	}
	return d.run(func() {
		for _, r := range s {
			if !d.drawGlyph(x, y, r) {
				return
			}
			x += d.font.Width
		}
	})
}

// Print draws s at the cursor and advances it. A newline moves the cursor to
// the start of the next line.
func (d *Dev) Print(s string) error {
	if d.font == nil {
		return ErrNoFont
	}
	return d.run(func() {
		for _, r := range s {
			if r == '\n' {
				d.cx = 0
				d.newline()
				continue
			}
			d.drawGlyph(d.cx, d.cy, r)
			d.cx += d.font.Width
		}
	})
}

// Println draws s starting at the cursor, wrapping to the left edge when a
// cell would cross the right one, and then moves the cursor one line down.
// The column is kept unless the text wrapped. Past the bottom the cursor
// returns to the top.
func (d *Dev) Println(s string) error {
	if d.font == nil {
		return ErrNoFont
	}
	return d.run(func() {
		x := d.cx
		for _, r := range s {
			if x+d.font.Width > d.w {
				x, d.cx = 0, 0
				d.newline()
			}
			d.drawGlyph(x, d.cy, r)
			x += d.font.Width
		}
		d.newline()
	})
}

func (d *Dev) newline() {
	if d.cy+d.font.Height > d.h {
		d.cy = 0
	} else {
		d.cy += d.font.Height
	}
}

// drawGlyph streams a whole cell, glyph pixels in the text color and the rest
// in the background color. Runes outside the font are drawn as blank cells.
func (d *Dev) drawGlyph(x, y int, r rune) bool {
	f := d.font
	if x < 0 || y < 0 || x+f.Width > d.w || y+f.Height > d.h {
		return false
	}
	if !d.setWindow(x, y, x+f.Width-1, y+f.Height-1) {
		return false
	}
	rows := f.glyph(r)
	s := d.stream(true)
	for i := 0; i < f.Height; i++ {
		var bits uint16
		if rows != nil {
			bits = rows[i]
		}
		for j := 0; j < f.Width; j++ {
			if bits&(0x8000>>j) != 0 {
				s.put(d.fg)
			} else {
				s.put(d.bg)
			}
		}
	}
	s.flush()
	return true
}

// DrawText renders s with any tinyfont font, y being the baseline. Only the
// glyph pixels are drawn.
func (d *Dev) DrawText(f tinyfont.Fonter, x, y int, s string, c rgb565.Color) error {
	return d.run(func() {
		tinyfont.WriteLine(d, f, clamp16(x), clamp16(y), s, c.RGBA8())
	})
}

// clamp16 saturates v to the int16 range tinyfont works in.
func clamp16(v int) int16 {
	return int16(max(math.MinInt16, min(v, math.MaxInt16)))
}
