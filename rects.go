package tftspi

import "github.com/flavioheleno/tftspi/rgb565"

// Corner selects quarters of a circle.
type Corner uint8

const (
	TopLeft Corner = 1 << iota
	TopRight
	BottomRight
	BottomLeft

	AllCorners = TopLeft | TopRight | BottomRight | BottomLeft
)

// FillScreen paints the whole logical surface.
func (d *Dev) FillScreen(c rgb565.Color) error {
	return d.run(func() { d.fillRect(0, 0, d.w, d.h, c) })
}

// FillRect paints the w×h rectangle at (x, y), clipped to the screen.
func (d *Dev) FillRect(x, y, w, h int, c rgb565.Color) error {
	return d.run(func() { d.fillRect(x, y, w, h, c) })
}

// DrawRect outlines the w×h rectangle at (x, y).
func (d *Dev) DrawRect(x, y, w, h int, c rgb565.Color) error {
	return d.run(func() { d.drawRect(x, y, w, h, c) })
}

// DrawRoundRect outlines a rectangle with corners of radius r.
func (d *Dev) DrawRoundRect(x, y, w, h, r int, c rgb565.Color) error {
	return d.run(func() { d.drawRoundRect(x, y, w, h, r, c) })
}

// FillRoundRect paints a rectangle with corners of radius r.
func (d *Dev) FillRoundRect(x, y, w, h, r int, c rgb565.Color) error {
	return d.run(func() { d.fillRoundRect(x, y, w, h, r, c) })
}

// DrawCircleCorners outlines the selected quarters of the circle of radius r
// centered at (x0, y0).
func (d *Dev) DrawCircleCorners(x0, y0, r int, corners Corner, c rgb565.Color) error {
	return d.run(func() { d.drawCircleCorners(x0, y0, r, corners, c) })
}

// FillCircleCorners paints the upper half (TopLeft or TopRight set) and the
// lower half (BottomLeft or BottomRight set) of a circle of radius r centered
// at (x0, y0), stretched horizontally by delta pixels.
func (d *Dev) FillCircleCorners(x0, y0, r int, corners Corner, delta int, c rgb565.Color) error {
	return d.run(func() { d.fillCircleCorners(x0, y0, r, corners, delta, c) })
}

// clip intersects the rectangle with the screen.
func (d *Dev) clip(x, y, w, h int) (int, int, int, int) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > d.w {
		w = d.w - x
	}
	if y+h > d.h {
		h = d.h - y
	}
	return x, y, w, h
}

func (d *Dev) fillRect(x, y, w, h int, c rgb565.Color) {
	x, y, w, h = d.clip(x, y, w, h)
	if w <= 0 || h <= 0 {
		return
	}
	if d.setWindow(x, y, x+w-1, y+h-1) {
		d.pushBlock(c, w*h, true)
	}
}

func (d *Dev) drawRect(x, y, w, h int, c rgb565.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	d.drawFastHLine(x, y, w, c)
	d.drawFastHLine(x, y+h-1, w, c)
	d.drawFastVLine(x, y, h, c)
	d.drawFastVLine(x+w-1, y, h, c)
}

// cornerRadius limits r to half the shorter side.
func cornerRadius(w, h, r int) int {
	m := min(w, h) / 2
	if r > m {
		r = m
	}
	return max(r, 0)
}

func (d *Dev) drawRoundRect(x, y, w, h, r int, c rgb565.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r = cornerRadius(w, h, r)
	d.drawFastHLine(x+r, y, w-2*r, c)
	d.drawFastHLine(x+r, y+h-1, w-2*r, c)
	d.drawFastVLine(x, y+r, h-2*r, c)
	d.drawFastVLine(x+w-1, y+r, h-2*r, c)

	d.drawCircleCorners(x+r, y+r, r, TopLeft, c)
	d.drawCircleCorners(x+w-r-1, y+r, r, TopRight, c)
	d.drawCircleCorners(x+w-r-1, y+h-r-1, r, BottomRight, c)
	d.drawCircleCorners(x+r, y+h-r-1, r, BottomLeft, c)
}

func (d *Dev) fillRoundRect(x, y, w, h, r int, c rgb565.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r = cornerRadius(w, h, r)
	d.fillRect(x, y+r, w, h-2*r, c)
	d.fillCircleCorners(x+r, y+h-r-1, r, BottomLeft, w-2*r-1, c)
	d.fillCircleCorners(x+r, y+r, r, TopLeft, w-2*r-1, c)
}

// drawCircleCorners walks one octant with the midpoint algorithm and emits
// every run of equal offsets as a fast line.
func (d *Dev) drawCircleCorners(x0, y0, r int, corners Corner, c rgb565.Color) {
	if r <= 0 {
		return
	}
	f := 1 - r
	ddx := 1
	ddy := -2 * r
	xe, xs := 0, 0

	for xe < r {
		r--
		for f < 0 {
			xe++
			ddx += 2
			f += ddx
		}
		ddy += 2
		f += ddy

		if xe-xs == 1 {
			if corners&TopLeft != 0 {
				d.drawPixel(x0-xe, y0-r, c)
				d.drawPixel(x0-r, y0-xe, c)
			}
			if corners&TopRight != 0 {
				d.drawPixel(x0+r, y0-xe, c)
				d.drawPixel(x0+xs+1, y0-r, c)
			}
			if corners&BottomRight != 0 {
				d.drawPixel(x0+xs+1, y0+r, c)
				d.drawPixel(x0+r, y0+xs+1, c)
			}
			if corners&BottomLeft != 0 {
				d.drawPixel(x0-r, y0+xs+1, c)
				d.drawPixel(x0-xe, y0+r, c)
			}
		} else {
			n := xe - xs
			xs++
			if corners&TopLeft != 0 {
				d.drawFastHLine(x0-xe, y0-r, n, c)
				d.drawFastVLine(x0-r, y0-xe, n, c)
			}
			if corners&TopRight != 0 {
				d.drawFastVLine(x0+r, y0-xe, n, c)
				d.drawFastHLine(x0+xs, y0-r, n, c)
			}
			if corners&BottomRight != 0 {
				d.drawFastHLine(x0+xs, y0+r, n, c)
				d.drawFastVLine(x0+r, y0+xs, n, c)
			}
			if corners&BottomLeft != 0 {
				d.drawFastVLine(x0-r, y0+xs, n, c)
				d.drawFastHLine(x0-xe, y0+r, n, c)
			}
		}
		xs = xe
	}
}

func (d *Dev) fillCircleCorners(x0, y0, r int, corners Corner, delta int, c rgb565.Color) {
	d.circleSpans(x0, y0, r, corners, delta, func(x, y, w int) {
		d.drawFastHLine(x, y, w, c)
	})
}

// circleSpans produces the horizontal spans filling the selected halves of
// a circle. span receives the left x, the row and the width.
func (d *Dev) circleSpans(x0, y0, r int, corners Corner, delta int, span func(x, y, w int)) {
	lower := corners&(BottomLeft|BottomRight) != 0
	upper := corners&(TopLeft|TopRight) != 0
	f := 1 - r
	ddx := 1
	ddy := -2 * r
	y := 0
	delta++

	for y < r {
		if f >= 0 {
			if lower {
				span(x0-y, y0+r, 2*y+delta)
			}
			ddy += 2
			f += ddy
			if upper {
				span(x0-y, y0-r, 2*y+delta)
			}
			r--
		}
		y++
		if lower {
			span(x0-r, y0+y, 2*r+delta)
		}
		ddx += 2
		f += ddx
		if upper {
			span(x0-r, y0-y, 2*r+delta)
		}
	}
}
