package tftspi

import (
	"math"

	"github.com/flavioheleno/tftspi/rgb565"
)

// Coverage thresholds: at or below loAlpha a pixel is outside, above hiAlpha
// it is solid.
const (
	loAlpha   = 64.0 / 255.0
	hiAlpha   = 1.0 - loAlpha
	alphaGain = 255.0
)

// DrawWedgeLine draws an anti-aliased line from (ax, ay) with radius ar to
// (bx, by) with radius br. Edge pixels are blended with what the panel
// currently shows, read back per pixel, or with white when the bus cannot
// read.
func (d *Dev) DrawWedgeLine(ax, ay, bx, by, ar, br float32, fg rgb565.Color) error {
	return d.run(func() { d.drawWedge(ax, ay, bx, by, ar, br, fg, 0, false) })
}

// DrawWedgeLineBg is DrawWedgeLine blending edge pixels with bg.
func (d *Dev) DrawWedgeLineBg(ax, ay, bx, by, ar, br float32, fg, bg rgb565.Color) error {
	return d.run(func() { d.drawWedge(ax, ay, bx, by, ar, br, fg, bg, true) })
}

// DrawWideLine draws an anti-aliased line of width wd.
func (d *Dev) DrawWideLine(ax, ay, bx, by, wd float32, fg rgb565.Color) error {
	return d.run(func() { d.drawWedge(ax, ay, bx, by, wd/2, wd/2, fg, 0, false) })
}

// DrawWideLineBg is DrawWideLine blending edge pixels with bg.
func (d *Dev) DrawWideLineBg(ax, ay, bx, by, wd float32, fg, bg rgb565.Color) error {
	return d.run(func() { d.drawWedge(ax, ay, bx, by, wd/2, wd/2, fg, bg, true) })
}

// DrawRectAA outlines a rectangle with 1 pixel anti-aliased lines from
// (x, y) to (x+w, y+h).
func (d *Dev) DrawRectAA(x, y, w, h int, c rgb565.Color) error {
	return d.run(func() {
		if w < 0 || h < 0 {
			return
		}
		fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
		d.drawWideLine(fx, fy, fx+fw, fy, c)
		d.drawWideLine(fx, fy, fx, fy+fh, c)
		d.drawWideLine(fx+fw, fy, fx+fw, fy+fh, c)
		d.drawWideLine(fx, fy+fh, fx+fw, fy+fh, c)
	})
}

// FillRectAA paints a rectangle and smooths its border.
func (d *Dev) FillRectAA(x, y, w, h int, c rgb565.Color) error {
	return d.run(func() { d.fillRectAA(x, y, w, h, c) })
}

// FillRoundRectAA paints a rectangle with anti-aliased corners of radius r.
func (d *Dev) FillRoundRectAA(x, y, w, h, r int, c rgb565.Color) error {
	return d.run(func() {
		if w <= 0 || h <= 0 {
			return
		}
		r = cornerRadius(w, h, r)
		d.fillRectAA(x, y+r, w, h-2*r, c)
		wide := func(x, y, w int) {
			d.drawWideLine(float32(x), float32(y), float32(x+w), float32(y), c)
		}
		d.circleSpans(x+r, y+h-r-1, r, BottomLeft, w-2*r-1, wide)
		d.circleSpans(x+r, y+r, r, TopLeft, w-2*r-1, wide)
	})
}

// FillCircleAA paints an anti-aliased disc.
func (d *Dev) FillCircleAA(x, y, r float32, c rgb565.Color) error {
	return d.run(func() { d.drawWedge(x, y, x, y, r, r, c, 0, false) })
}

// DrawTriangleAA outlines a triangle with anti-aliased lines of the given
// thickness.
func (d *Dev) DrawTriangleAA(x0, y0, x1, y1, x2, y2, thickness int, c rgb565.Color) error {
	return d.run(func() {
		t := float32(thickness)
		d.drawWedge(float32(x0), float32(y0), float32(x1), float32(y1), t/2, t/2, c, 0, false)
		d.drawWedge(float32(x1), float32(y1), float32(x2), float32(y2), t/2, t/2, c, 0, false)
		d.drawWedge(float32(x2), float32(y2), float32(x0), float32(y0), t/2, t/2, c, 0, false)
	})
}

// FillTriangleAA paints a triangle with every scanline drawn as a 1 pixel
// anti-aliased line.
func (d *Dev) FillTriangleAA(x0, y0, x1, y1, x2, y2 int, c rgb565.Color) error {
	return d.run(func() {
		triangleSpans(x0, y0, x1, y1, x2, y2, func(a, b, y int) {
			d.drawWideLine(float32(a), float32(y), float32(b+1), float32(y), c)
		})
	})
}

func (d *Dev) drawWideLine(ax, ay, bx, by float32, c rgb565.Color) {
	d.drawWedge(ax, ay, bx, by, 0.5, 0.5, c, 0, false)
}

func (d *Dev) fillRectAA(x, y, w, h int, c rgb565.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	d.fillRect(x, y, w, h, c)
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	d.drawWideLine(fx, fy, fx+fw-1, fy, c)
	d.drawWideLine(fx, fy+fh-1, fx+fw-1, fy+fh-1, c)
	d.drawWideLine(fx, fy, fx, fy+fh-1, c)
	d.drawWideLine(fx+fw, fy, fx+fw, fy+fh-1, c)
}

// wedge holds the geometry of one wedge line, relative to its start point.
type wedge struct {
	ax, ay   float32
	bax, bay float32
	ar       float32 // start radius plus half a pixel
	dr       float32 // start radius minus end radius
	x1       int
	fg, bg   rgb565.Color
	hasBg    bool
}

// distance is the radius-adjusted distance from p-a to the segment a-b.
func (w *wedge) distance(xpax, ypay float32) float32 {
	h := (xpax*w.bax + ypay*w.bay) / (w.bax*w.bax + w.bay*w.bay)
	h = max(0, min(h, 1))
	dx, dy := xpax-w.bax*h, ypay-w.bay*h
	return float32(math.Sqrt(float64(dx*dx+dy*dy))) + h*w.dr
}

// drawWedge scans the bounding box from the start row outwards, down first
// and then up. Each row begins at the left edge found on the previous row.
func (d *Dev) drawWedge(ax, ay, bx, by, ar, br float32, fg, bg rgb565.Color, hasBg bool) {
	if abs32(ax-bx) < 0.01 && abs32(ay-by) < 0.01 {
		bx += 0.01
	}

	x0 := int(math.Floor(float64(min(ax-ar, bx-br))))
	x1 := int(math.Ceil(float64(max(ax+ar, bx+br))))
	y0 := int(math.Floor(float64(min(ay-ar, by-br))))
	y1 := int(math.Ceil(float64(max(ay+ar, by+br))))

	ys := int(ay)
	if ax-ar > bx-br {
		ys = int(by)
	}

	w := &wedge{
		ax: ax, ay: ay,
		bax: bx - ax, bay: by - ay,
		ar: ar + 0.5,
		dr: ar - br,
		x1: x1,
		fg: fg, bg: bg,
		hasBg: hasBg,
	}

	xs := x0
	for yp := ys; yp <= y1 && d.err == nil; yp++ {
		xs = d.wedgeRow(w, xs, yp)
	}
	xs = x0
	for yp := ys - 1; yp >= y0 && d.err == nil; yp-- {
		xs = d.wedgeRow(w, xs, yp)
	}
}

// wedgeRow renders one row starting at xs and returns where the next row
// should start: the first covered pixel, or xs if none was.
func (d *Dev) wedgeRow(w *wedge, xs, yp int) int {
	ypay := float32(yp) - w.ay
	open := false
	covered := false
	for xp := xs; xp <= w.x1; xp++ {
		alpha := w.ar - w.distance(float32(xp)-w.ax, ypay)
		if alpha <= loAlpha {
			if covered {
				break
			}
			continue
		}
		if !covered {
			covered = true
			xs = xp
		}
		if alpha > hiAlpha {
			d.wedgePixel(xp, yp, w.fg, &open)
			continue
		}
		a := uint8(alpha * alphaGain)
		if w.hasBg {
			d.wedgePixel(xp, yp, rgb565.Blend(a, w.fg, w.bg), &open)
			continue
		}
		if !d.inBounds(xp, yp) {
			open = false
			continue
		}
		under := d.readPixel(xp, yp)
		open = false
		d.wedgePixel(xp, yp, rgb565.Blend(a, w.fg, under), &open)
	}
	return xs
}

// wedgePixel writes one pixel. Consecutive pixels of a row share a window
// opened up to the right edge of the screen.
func (d *Dev) wedgePixel(x, y int, c rgb565.Color, open *bool) {
	if !d.inBounds(x, y) {
		*open = false
		return
	}
	if !*open {
		if !d.setWindow(x, y, d.w-1, y) {
			return
		}
		*open = true
	}
	d.pushBlock(c, 1, false)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
