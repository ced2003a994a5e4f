package xpt2046

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/flavioheleno/tftspi/rgb565"
	"tinygo.org/x/tinyfont"
)

// Screen is the drawing surface used by Calibrate. *tftspi.Dev implements
// it.
type Screen interface {
	Width() int
	Height() int
	FillScreen(c rgb565.Color) error
	FillRect(x, y, w, h int, c rgb565.Color) error
	DrawLine(x0, y0, x1, y1 int, c rgb565.Color) error
	DrawText(f tinyfont.Fonter, x, y int, s string, c rgb565.Color) error
}

// CalibrateOpts configures Calibrate.
type CalibrateOpts struct {
	// Font for the readings (default: tinyfont.TomThumb)
	Font tinyfont.Fonter

	// Corner arrow size in pixels (default: 10)
	Marker int

	// Arrow and text color, and screen color (default: magenta on black)
	Foreground rgb565.Color
	Background rgb565.Color

	// Pause after each recorded corner
	Settle time.Duration

	// Interval between contact checks (default: 10ms)
	Poll time.Duration
}

type calState int

const (
	showTarget calState = iota
	awaitTouch
	awaitRelease
	record
	done
)

// calibration is one run of the corner routine.
type calibration struct {
	d    *Dev
	s    Screen
	font tinyfont.Fonter
	size int
	fg   rgb565.Color
	bg   rgb565.Color
	opts CalibrateOpts
	raw  [8]int
}

// Calibrate asks the user to touch the four corners of s in the order
// top-left, bottom-left, top-right, bottom-right, and derives the edge
// readings for the current rotation. The new calibration is stored only once
// all four corners were recorded; if ctx is done first, ctx.Err() is
// returned and the previous calibration stays in use.
func (d *Dev) Calibrate(ctx context.Context, s Screen, opts *CalibrateOpts) (Calibration, error) {
	c := &calibration{d: d, s: s}
	if opts != nil {
		c.opts = *opts
	}
	c.font = c.opts.Font
	if c.font == nil {
		c.font = &tinyfont.TomThumb
	}
	c.size = c.opts.Marker
	if c.size <= 0 {
		c.size = 10
	}
	c.fg, c.bg = c.opts.Foreground, c.opts.Background
	if c.fg == 0 && c.bg == 0 {
		c.fg, c.bg = rgb565.Magenta, rgb565.Black
	}
	if c.opts.Poll <= 0 {
		c.opts.Poll = 10 * time.Millisecond
	}

	if err := c.run(ctx); err != nil {
		return d.cal, err
	}
	d.cal = PairCorners(d.rot, c.raw)
	l := int(c.font.GetYAdvance())
	if err := s.DrawText(c.font, 0, 180+l, "Calibration completed!", c.fg); err != nil {
		return d.cal, err
	}
	return d.cal, nil
}

func (c *calibration) run(ctx context.Context) error {
	if err := c.s.FillScreen(c.bg); err != nil {
		return err
	}
	var p image.Point
	i := 0
	state := showTarget
	for state != done {
		switch state {
		case showTarget:
			if err := c.target(i); err != nil {
				return err
			}
			state = awaitTouch
		case awaitTouch:
			pt, ok, err := c.d.ReadRaw()
			if err != nil {
				return err
			}
			if ok {
				p = pt
				state = awaitRelease
				continue
			}
			if err := sleep(ctx, c.opts.Poll); err != nil {
				return err
			}
		case awaitRelease:
			if !c.d.Pressed() {
				state = record
				continue
			}
			if err := sleep(ctx, c.opts.Poll); err != nil {
				return err
			}
		case record:
			c.raw[2*i], c.raw[2*i+1] = p.X, p.Y
			l := int(c.font.GetYAdvance())
			msg := fmt.Sprintf("x%d = %d y%d = %d", i, p.X, i, p.Y)
			if err := c.s.DrawText(c.font, 0, 30+(i+1)*l, msg, c.fg); err != nil {
				return err
			}
			if err := sleep(ctx, c.opts.Settle); err != nil {
				return err
			}
			i++
			state = showTarget
			if i == 4 {
				state = done
			}
		}
	}
	return nil
}

// target clears the four corners and draws the arrow pointing at corner i.
func (c *calibration) target(i int) error {
	s, n := c.s, c.size
	w, h := s.Width(), s.Height()
	corners := [...]image.Point{{0, 0}, {0, h - n - 1}, {w - n - 1, 0}, {w - n - 1, h - n - 1}}
	for _, p := range corners {
		if err := s.FillRect(p.X, p.Y, n+1, n+1, c.bg); err != nil {
			return err
		}
	}

	var lines [3][4]int
	switch i {
	case 0:
		lines = [3][4]int{{0, 0, 0, n}, {0, 0, n, 0}, {0, 0, n, n}}
	case 1:
		lines = [3][4]int{{0, h - n - 1, 0, h - 1}, {0, h - 1, n, h - 1}, {n, h - n - 1, 0, h - 1}}
	case 2:
		lines = [3][4]int{{w - n - 1, 0, w - 1, 0}, {w - n - 1, n, w - 1, 0}, {w - 1, n, w - 1, 0}}
	case 3:
		lines = [3][4]int{{w - n - 1, h - n - 1, w - 1, h - 1}, {w - 1, h - 1 - n, w - 1, h - 1}, {w - 1 - n, h - 1, w - 1, h - 1}}
	}
	for _, l := range lines {
		if err := s.DrawLine(l[0], l[1], l[2], l[3], c.fg); err != nil {
			return err
		}
	}
	return nil
}

// PairCorners derives the edge readings from the raw points recorded at the
// top-left, bottom-left, top-right and bottom-right corners, given as
// x0, y0, ..., x3, y3.
func PairCorners(rot int, c [8]int) Calibration {
	switch rot % 4 {
	case 1:
		return Calibration{MinX: (c[0] + c[4]) / 2, MaxX: (c[2] + c[6]) / 2, MinY: (c[1] + c[3]) / 2, MaxY: (c[5] + c[7]) / 2}
	case 2:
		return Calibration{MinX: (c[0] + c[2]) / 2, MaxX: (c[4] + c[6]) / 2, MinY: (c[3] + c[7]) / 2, MaxY: (c[1] + c[5]) / 2}
	case 3:
		return Calibration{MinX: (c[2] + c[6]) / 2, MaxX: (c[0] + c[4]) / 2, MinY: (c[5] + c[7]) / 2, MaxY: (c[1] + c[3]) / 2}
	default:
		return Calibration{MinX: (c[4] + c[6]) / 2, MaxX: (c[0] + c[2]) / 2, MinY: (c[1] + c[5]) / 2, MaxY: (c[3] + c[7]) / 2}
	}
}

// sleep pauses for t or until ctx is done.
func sleep(ctx context.Context, t time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t <= 0 {
		return nil
	}
	tm := time.NewTimer(t)
	defer tm.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tm.C:
		return nil
	}
}
