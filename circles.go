package tftspi

import "github.com/flavioheleno/tftspi/rgb565"

// DrawCircle outlines the circle of radius r centered at (x0, y0).
func (d *Dev) DrawCircle(x0, y0, r int, c rgb565.Color) error {
	return d.run(func() { d.drawCircle(x0, y0, r, c) })
}

// FillCircle paints the circle of radius r centered at (x0, y0).
func (d *Dev) FillCircle(x0, y0, r int, c rgb565.Color) error {
	return d.run(func() { d.fillCircle(x0, y0, r, c) })
}

// DrawEllipse outlines an axis-aligned ellipse. Both radii must be at least 2.
func (d *Dev) DrawEllipse(x0, y0, rx, ry int, c rgb565.Color) error {
	return d.run(func() { d.drawEllipse(x0, y0, rx, ry, c) })
}

// FillEllipse paints an axis-aligned ellipse. Both radii must be at least 2.
func (d *Dev) FillEllipse(x0, y0, rx, ry int, c rgb565.Color) error {
	return d.run(func() { d.fillEllipse(x0, y0, rx, ry, c) })
}

// drawCircle is the midpoint algorithm over one octant. Once two or more
// consecutive steps share an offset they are emitted as fast lines in all
// eight octants.
func (d *Dev) drawCircle(x0, y0, r int, c rgb565.Color) {
	switch {
	case r < 0:
		return
	case r == 0:
		d.drawPixel(x0, y0, c)
		return
	}

	f := 1 - r
	ddy := -2 * r
	ddx := 1
	xs := -1
	xe := 0
	first := true

	for {
		for f < 0 {
			xe++
			ddx += 2
			f += ddx
		}
		ddy += 2
		f += ddy

		if xe-xs > 1 {
			if first {
				n := 2*(xe-xs) - 1
				d.drawFastHLine(x0-xe, y0+r, n, c)
				d.drawFastHLine(x0-xe, y0-r, n, c)
				d.drawFastVLine(x0+r, y0-xe, n, c)
				d.drawFastVLine(x0-r, y0-xe, n, c)
				first = false
			} else {
				n := xe - xs
				xs++
				d.drawFastHLine(x0-xe, y0+r, n, c)
				d.drawFastHLine(x0-xe, y0-r, n, c)
				d.drawFastHLine(x0+xs, y0-r, n, c)
				d.drawFastHLine(x0+xs, y0+r, n, c)

				d.drawFastVLine(x0+r, y0+xs, n, c)
				d.drawFastVLine(x0+r, y0-xe, n, c)
				d.drawFastVLine(x0-r, y0-xe, n, c)
				d.drawFastVLine(x0-r, y0+xs, n, c)
			}
		} else {
			xs++
			d.drawPixel(x0-xe, y0+r, c)
			d.drawPixel(x0-xe, y0-r, c)
			d.drawPixel(x0+xs, y0-r, c)
			d.drawPixel(x0+xs, y0+r, c)

			d.drawPixel(x0+r, y0+xs, c)
			d.drawPixel(x0+r, y0-xe, c)
			d.drawPixel(x0-r, y0-xe, c)
			d.drawPixel(x0-r, y0+xs, c)
		}
		xs = xe
		r--
		if xe >= r {
			return
		}
	}
}

// fillCircle paints symmetric spans around the center row.
func (d *Dev) fillCircle(x0, y0, r int, c rgb565.Color) {
	if r < 0 {
		return
	}
	x := 0
	dx := 1
	dy := 2 * r
	p := -(r >> 1)

	d.drawFastHLine(x0-r, y0, dy+1, c)

	for x < r {
		if p >= 0 {
			d.drawFastHLine(x0-x, y0+r, dx, c)
			d.drawFastHLine(x0-x, y0-r, dx, c)
			dy -= 2
			p -= dy
			r--
		}
		dx += 2
		p += dx
		x++
		d.drawFastHLine(x0-r, y0+x, dy+1, c)
		d.drawFastHLine(x0-r, y0-x, dy+1, c)
	}
}

// ellipse runs the two-region midpoint algorithm, calling plot with the
// quadrant offsets of every boundary point.
func ellipse(rx, ry int, plot func(x, y int)) {
	rx2 := rx * rx
	ry2 := ry * ry
	fx2 := 4 * rx2
	fy2 := 4 * ry2

	for x, y, s := 0, ry, 2*ry2+rx2*(1-2*ry); ry2*x <= rx2*y; x++ {
		plot(x, y)
		if s >= 0 {
			s += fx2 * (1 - y)
			y--
		}
		s += ry2 * (4*x + 6)
	}

	for x, y, s := rx, 0, 2*rx2+ry2*(1-2*rx); rx2*y <= ry2*x; y++ {
		plot(x, y)
		if s >= 0 {
			s += fy2 * (1 - x)
			x--
		}
		s += rx2 * (4*y + 6)
	}
}

func (d *Dev) drawEllipse(x0, y0, rx, ry int, c rgb565.Color) {
	if rx < 2 || ry < 2 {
		return
	}
	ellipse(rx, ry, func(x, y int) {
		d.drawPixel(x0+x, y0+y, c)
		d.drawPixel(x0-x, y0+y, c)
		d.drawPixel(x0-x, y0-y, c)
		d.drawPixel(x0+x, y0-y, c)
	})
}

func (d *Dev) fillEllipse(x0, y0, rx, ry int, c rgb565.Color) {
	if rx < 2 || ry < 2 {
		return
	}
	ellipse(rx, ry, func(x, y int) {
		d.drawFastHLine(x0-x, y0-y, 2*x+1, c)
		d.drawFastHLine(x0-x, y0+y, 2*x+1, c)
	})
}
