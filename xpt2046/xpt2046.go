// Package xpt2046 reads the XPT2046 resistive touch controller.
//
// The controller shares the SPI bus with the display and signals contact on
// an active low IRQ line. Each position is the average of several
// conversions, mapped to screen coordinates with a per-panel calibration and
// the display rotation.
//
// # Usage
//
//	ts, err := xpt2046.NewSPI(port, csPin, irqPin, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if p, ok, err := ts.Read(); err == nil && ok {
//		fmt.Println(p)
//	}
//
// Calibrate runs the four corner routine on a screen and stores the result.
package xpt2046

import (
	"errors"
	"fmt"
	"image"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers/touch"
)

// Conversion commands: 12-bit differential measurement of one axis.
const (
	cmdReadX = 0xD0
	cmdReadY = 0x90
)

// MaxSamples is the largest number of conversions averaged per read.
const MaxSamples = 16

// Calibration holds the raw readings at the edges of the touch plates. X is
// the plate sampled by the 0xD0 conversion and Y the one sampled by 0x90,
// whatever the rotation, so the same values serve every rotation.
type Calibration struct {
	MinX, MaxX int
	MinY, MaxY int
}

// DefaultCalibration fits a typical 2.8" 240x320 module.
var DefaultCalibration = Calibration{MinX: 1600, MaxX: 29600, MinY: 2400, MaxY: 30700}

// Opts is the configuration for the touch controller.
type Opts struct {
	// Panel size in portrait orientation (default: 240x320)
	W int
	H int

	// Conversions averaged per read, 1 to 16 (default: 16)
	Samples int

	// Rotation matching the display, 0 to 3
	Rotation int

	// Raw edge readings (default: DefaultCalibration)
	Calibration Calibration
}

// Dev is a handle to the touch controller.
type Dev struct {
	c   conn.Conn
	cs  gpio.PinOut
	irq gpio.PinIn

	w, h           int
	rot            int
	scaleX, scaleY int
	readX, readY   byte
	samples        int
	cal            Calibration

	wbuf [3]byte
	rbuf [3]byte
}

// NewSPI returns a touch controller on an SPI port.
//
// The port is configured for 2MHz, Mode0, 8-bit transfers. cs can be nil when
// the port drives chip select itself.
func NewSPI(p spi.Port, cs gpio.PinOut, irq gpio.PinIn, opts *Opts) (*Dev, error) {
	c, err := p.Connect(2*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("xpt2046: failed to connect: %w", err)
	}
	return New(c, cs, irq, opts)
}

// New returns a touch controller on a full-duplex connection.
func New(c conn.Conn, cs gpio.PinOut, irq gpio.PinIn, opts *Opts) (*Dev, error) {
	if c == nil {
		return nil, errors.New("xpt2046: connection is required")
	}
	if irq == nil {
		return nil, errors.New("xpt2046: irq pin is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	w, h := opts.W, opts.H
	if w == 0 && h == 0 {
		w, h = 240, 320
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New("xpt2046: width and height must be positive")
	}
	if err := irq.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("xpt2046: failed to configure IRQ: %w", err)
	}
	if cs != nil {
		if err := cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("xpt2046: failed to set CS: %w", err)
		}
	}
	d := &Dev{c: c, cs: cs, irq: irq, w: w, h: h, cal: opts.Calibration}
	if d.cal == (Calibration{}) {
		d.cal = DefaultCalibration
	}
	n := opts.Samples
	if n == 0 {
		n = MaxSamples
	}
	d.SetSamples(n)
	d.SetRotation(opts.Rotation)
	return d, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("xpt2046.Dev{%s}", d.c)
}

// Pressed reports whether the screen is being touched.
func (d *Dev) Pressed() bool {
	return d.irq.Read() == gpio.Low
}

// SetRotation selects the axis mapping. Values are taken modulo 4.
func (d *Dev) SetRotation(r int) {
	r %= 4
	if r < 0 {
		r += 4
	}
	d.rot = r
	if r%2 == 0 {
		d.scaleX, d.scaleY = d.w, d.h
		d.readX, d.readY = cmdReadX, cmdReadY
	} else {
		d.scaleX, d.scaleY = d.h, d.w
		d.readX, d.readY = cmdReadY, cmdReadX
	}
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() int {
	return d.rot
}

// SetSamples sets the number of conversions averaged per read, clamped to
// 1..MaxSamples. It applies from the next read.
func (d *Dev) SetSamples(n int) {
	d.samples = max(1, min(n, MaxSamples))
}

// Samples returns the number of conversions averaged per read.
func (d *Dev) Samples() int {
	return d.samples
}

// SetCalibration replaces the raw edge readings.
func (d *Dev) SetCalibration(c Calibration) {
	d.cal = c
}

// Calibration returns the raw edge readings in use.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

// ReadRaw returns the averaged raw readings of the X and Y plates, whatever
// the rotation. ok is false when the screen is not touched for the whole
// read.
func (d *Dev) ReadRaw() (p image.Point, ok bool, err error) {
	x, y, ok, err := d.sample()
	if !ok || err != nil {
		return image.Point{}, false, err
	}
	if d.rot%2 == 1 {
		x, y = y, x
	}
	return image.Pt(x, y), true, nil
}

// Read returns the touched point in screen coordinates for the current
// rotation. ok is false when the screen is not touched or the calibration is
// degenerate.
func (d *Dev) Read() (p image.Point, ok bool, err error) {
	c := d.cal
	if c.MaxX <= c.MinX || c.MaxY <= c.MinY {
		return image.Point{}, false, nil
	}
	raw, ok, err := d.ReadRaw()
	if !ok || err != nil {
		return image.Point{}, false, err
	}
	px := max(c.MinX, min(raw.X, c.MaxX))
	py := max(c.MinY, min(raw.Y, c.MaxY))

	// The plates do not turn with the screen: at odd rotations the X plate
	// spans the screen height.
	x := (px - c.MinX) * d.w / (c.MaxX - c.MinX)
	y := (py - c.MinY) * d.h / (c.MaxY - c.MinY)
	if d.rot%2 == 1 {
		x, y = y, x
	}
	switch d.rot {
	case 0:
		x = d.scaleX - x
	case 2:
		y = d.scaleY - y
	case 3:
		x = d.scaleX - x
		y = d.scaleY - y
	}
	x = max(0, min(x, d.scaleX-1))
	y = max(0, min(y, d.scaleY-1))
	return image.Pt(x, y), true, nil
}

// ReadTouchPoint implements touch.Pointer. Z is 1 while touched and the
// point is zero otherwise.
func (d *Dev) ReadTouchPoint() touch.Point {
	p, ok, err := d.Read()
	if !ok || err != nil {
		return touch.Point{}
	}
	return touch.Point{X: p.X, Y: p.Y, Z: 1}
}

// sample averages the conversions of the rotated X and Y channels. Contact
// is checked before every sample and a release aborts the read.
func (d *Dev) sample() (x, y int, ok bool, err error) {
	if !d.Pressed() {
		return 0, 0, false, nil
	}
	if err := d.selectChip(gpio.Low); err != nil {
		return 0, 0, false, err
	}
	sx, sy := 0, 0
	ok = true
	for i := 0; i < d.samples; i++ {
		if i > 0 && !d.Pressed() {
			ok = false
			break
		}
		var vx, vy int
		if vy, err = d.convert(d.readY); err != nil {
			break
		}
		if vx, err = d.convert(d.readX); err != nil {
			break
		}
		sx += vx
		sy += vy
	}
	if serr := d.selectChip(gpio.High); err == nil {
		err = serr
	}
	if err != nil || !ok {
		return 0, 0, false, err
	}
	return sx / d.samples, sy / d.samples, true, nil
}

// convert runs one conversion: the command byte, then 16 bits clocked in.
func (d *Dev) convert(cmd byte) (int, error) {
	d.wbuf = [3]byte{cmd, 0, 0}
	if err := d.c.Tx(d.wbuf[:], d.rbuf[:]); err != nil {
		return 0, fmt.Errorf("xpt2046: conversion failed: %w", err)
	}
	return int(d.rbuf[1])<<8 | int(d.rbuf[2]), nil
}

func (d *Dev) selectChip(l gpio.Level) error {
	if d.cs == nil {
		return nil
	}
	if err := d.cs.Out(l); err != nil {
		return fmt.Errorf("xpt2046: failed to set CS: %w", err)
	}
	return nil
}

var _ touch.Pointer = &Dev{}
