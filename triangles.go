package tftspi

import "github.com/flavioheleno/tftspi/rgb565"

// DrawTriangle outlines the triangle through three points.
func (d *Dev) DrawTriangle(x0, y0, x1, y1, x2, y2 int, c rgb565.Color) error {
	return d.run(func() {
		d.drawLine(x0, y0, x1, y1, c)
		d.drawLine(x1, y1, x2, y2, c)
		d.drawLine(x2, y2, x0, y0, c)
	})
}

// FillTriangle paints the triangle through three points.
func (d *Dev) FillTriangle(x0, y0, x1, y1, x2, y2 int, c rgb565.Color) error {
	return d.run(func() {
		triangleSpans(x0, y0, x1, y1, x2, y2, func(a, b, y int) {
			d.drawFastHLine(a, y, b-a+1, c)
		})
	})
}

// triangleSpans sorts the vertices by y and interpolates both edges of every
// scanline. span receives the inclusive x range and the row.
func triangleSpans(x0, y0, x1, y1, x2, y2 int, span func(a, b, y int)) {
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	// All points on one row.
	if y0 == y2 {
		a, b := x0, x0
		a = min(a, x1, x2)
		b = max(b, x1, x2)
		span(a, b, y0)
		return
	}

	dx01, dy01 := x1-x0, y1-y0
	dx02, dy02 := x2-x0, y2-y0
	dx12, dy12 := x2-x1, y2-y1
	sa, sb := 0, 0

	// The upper part stops one row short of y1 unless the bottom edge is
	// flat, in which case y1 is its last row.
	last := y1 - 1
	if y1 == y2 {
		last = y1
	}

	y := y0
	for ; y <= last; y++ {
		a := x0 + sa/dy01
		b := x0 + sb/dy02
		sa += dx01
		sb += dx02
		if a > b {
			a, b = b, a
		}
		span(a, b, y)
	}

	sa = dx12 * (y - y1)
	sb = dx02 * (y - y0)
	for ; y <= y2; y++ {
		a := x1 + sa/dy12
		b := x0 + sb/dy02
		sa += dx12
		sb += dx02
		if a > b {
			a, b = b, a
		}
		span(a, b, y)
	}
}
