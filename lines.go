package tftspi

import "github.com/flavioheleno/tftspi/rgb565"

// DrawPixel sets one pixel.
func (d *Dev) DrawPixel(x, y int, c rgb565.Color) error {
	return d.run(func() { d.drawPixel(x, y, c) })
}

// DrawFastHLine draws a horizontal line of w pixels starting at (x, y).
func (d *Dev) DrawFastHLine(x, y, w int, c rgb565.Color) error {
	return d.run(func() { d.drawFastHLine(x, y, w, c) })
}

// DrawFastVLine draws a vertical line of h pixels starting at (x, y).
func (d *Dev) DrawFastVLine(x, y, h int, c rgb565.Color) error {
	return d.run(func() { d.drawFastVLine(x, y, h, c) })
}

// DrawLine draws a line between two points, both inclusive.
func (d *Dev) DrawLine(x0, y0, x1, y1 int, c rgb565.Color) error {
	return d.run(func() { d.drawLine(x0, y0, x1, y1, c) })
}

func (d *Dev) drawPixel(x, y int, c rgb565.Color) {
	if !d.setWindow(x, y, x, y) {
		return
	}
	d.arg[0] = byte(c >> 8)
	d.arg[1] = byte(c)
	d.write(d.arg[:2], false)
}

func (d *Dev) drawFastHLine(x, y, w int, c rgb565.Color) {
	if y < 0 || y >= d.h {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	if x+w > d.w {
		w = d.w - x
	}
	switch {
	case w <= 0:
	case w == 1:
		d.drawPixel(x, y, c)
	default:
		if d.setWindow(x, y, x+w-1, y) {
			d.pushBlock(c, w, w > d.w/4)
		}
	}
}

func (d *Dev) drawFastVLine(x, y, h int, c rgb565.Color) {
	if x < 0 || x >= d.w {
		return
	}
	if y < 0 {
		h += y
		y = 0
	}
	if y+h > d.h {
		h = d.h - y
	}
	switch {
	case h <= 0:
	case h == 1:
		d.drawPixel(x, y, c)
	default:
		if d.setWindow(x, y, x, y+h-1) {
			d.pushBlock(c, h, h > d.h/4)
		}
	}
}

// drawLine is Bresenham's algorithm emitting each horizontal (or, for steep
// lines, vertical) run as one fast line.
func (d *Dev) drawLine(x0, y0, x1, y1 int, c rgb565.Color) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx, dy := x1-x0, abs(y1-y0)
	e := dx >> 1
	ystep := -1
	if y0 < y1 {
		ystep = 1
	}

	start, run := x0, 0
	for x := x0; x <= x1; x++ {
		run++
		e -= dy
		if e < 0 {
			d.lineRun(steep, start, y0, run, c)
			run = 0
			y0 += ystep
			start = x + 1
			e += dx
		}
	}
	if run > 0 {
		d.lineRun(steep, start, y0, run, c)
	}
}

func (d *Dev) lineRun(steep bool, start, y, n int, c rgb565.Color) {
	if steep {
		d.drawFastVLine(y, start, n, c)
	} else {
		d.drawFastHLine(start, y, n, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
