package tftspi

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/flavioheleno/tftspi/rgb565"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"
)

// Command set shared by both controllers.
const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVOFF  = 0x20
	cmdINVON   = 0x21
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdRAMRD   = 0x2E
	cmdTEOFF   = 0x34
	cmdTEON    = 0x35
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// ErrHalted is returned by every operation after Halt.
var ErrHalted = errors.New("tftspi: halted")

// ErrNoRead is returned by ReadPixel when the bus cannot read, and by a
// Reader whose wiring does not allow reads.
var ErrNoRead = errors.New("tftspi: bus does not support reads")

// Rotation selects one of the four panel orientations.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Opts is the configuration for the display.
type Opts struct {
	// Physical panel size in pixels, at most 32767 each (default: 240x320)
	W int
	H int

	// Controller command set (default: ST7789)
	Controller Controller

	// Initial rotation
	Rotation Rotation

	// Scratch buffer capacity in pixels (default: 1024)
	BufferSize int

	// Optional hardware reset pin
	RST gpio.PinIO
}

// Dev is the device handle for the display.
type Dev struct {
	// Communication
	bus   Bus
	ctrl  Controller
	rst   gpio.PinIO
	sleep func(time.Duration)

	// Geometry
	physW, physH int
	w, h         int
	rot          Rotation
	win          window

	// Scratch buffer in wire order, two bytes per pixel
	buf []byte
	arg [4]byte

	// Text cursor
	cx, cy int
	fg, bg rgb565.Color
	font   *Font

	// State
	err    error
	halted bool
}

// NewSPI returns a display connected over SPI.
//
// The SPI port is configured for 40MHz, Mode0, 8-bit transfers. The dc
// (Data/Command) pin must be provided. Chip select is left to the SPI port.
//
// opts can be nil to use defaults (240x320 ST7789).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("tftspi: dc pin is required")
	}
	c, err := p.Connect(40*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("tftspi: failed to connect: %w", err)
	}
	return New(NewConnBus(c, dc, nil), opts)
}

// New returns a display on an arbitrary bus, resetting and initializing the
// controller.
func New(bus Bus, opts *Opts) (*Dev, error) {
	d, err := newDev(bus, opts)
	if err != nil {
		return nil, err
	}
	var rot Rotation
	if opts != nil {
		rot = opts.Rotation
	}
	if err := d.init(rot); err != nil {
		return nil, err
	}
	return d, nil
}

// newDev applies defaults and allocates the device without touching the bus.
func newDev(bus Bus, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, errors.New("tftspi: bus is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	w, h := opts.W, opts.H
	if w == 0 && h == 0 {
		w, h = 240, 320
	}
	if w <= 0 || w > math.MaxInt16 || h <= 0 || h > math.MaxInt16 {
		return nil, errors.New("tftspi: width and height must be between 1 and 32767")
	}
	size := opts.BufferSize
	if size == 0 {
		size = 1024
	}
	if size < 0 {
		return nil, errors.New("tftspi: buffer size must be positive")
	}
	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = ST7789
	}
	d := &Dev{
		bus:   bus,
		ctrl:  ctrl,
		rst:   opts.RST,
		sleep: time.Sleep,
		physW: w,
		physH: h,
		w:     w,
		h:     h,
		win:   noWindow,
		buf:   make([]byte, 2*size),
		fg:    rgb565.White,
		bg:    rgb565.Black,
	}
	return d, nil
}

// init resets the panel, runs the controller sequence and clears the RAM.
func (d *Dev) init(rot Rotation) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("tftspi: failed to pull RST low: %w", err)
		}
		d.sleep(20 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("tftspi: failed to pull RST high: %w", err)
		}
		d.sleep(150 * time.Millisecond)
	}
	if err := d.ctrl.Init(sender{d}); err != nil {
		return fmt.Errorf("tftspi: %s init: %w", d.ctrl, err)
	}
	d.setRotation(rot)
	d.fillRect(0, 0, d.w, d.h, rgb565.Black)
	return d.takeErr()
}

// sender hands the bus to a Controller during Init.
type sender struct {
	d *Dev
}

func (s sender) Command(cmd byte, args ...byte) error {
	s.d.command(cmd)
	if len(args) > 0 {
		s.d.write(args, false)
	}
	return s.d.takeErr()
}

func (s sender) Sleep(t time.Duration) {
	s.d.sleep(t)
}

// run executes one public operation. Once an I/O step fails the following
// steps are skipped, and the first error is returned.
func (d *Dev) run(f func()) error {
	if d.halted {
		return ErrHalted
	}
	f()
	return d.takeErr()
}

func (d *Dev) takeErr() error {
	err := d.err
	d.err = nil
	return err
}

// command sends one command byte unless an earlier step failed.
func (d *Dev) command(cmd byte) {
	if d.err != nil {
		return
	}
	d.err = d.bus.Command(cmd)
}

// Width returns the logical width for the current rotation.
func (d *Dev) Width() int {
	return d.w
}

// Height returns the logical height for the current rotation.
func (d *Dev) Height() int {
	return d.h
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() Rotation {
	return d.rot
}

// SetRotation changes the panel orientation. Values are taken modulo 4.
func (d *Dev) SetRotation(r Rotation) error {
	return d.run(func() { d.setRotation(r) })
}

func (d *Dev) setRotation(r Rotation) {
	r %= 4
	d.command(cmdMADCTL)
	d.arg[0] = d.ctrl.MemoryAccess(r)
	d.write(d.arg[:1], false)
	d.rot = r
	if r == Rotation90 || r == Rotation270 {
		d.w, d.h = d.physH, d.physW
	} else {
		d.w, d.h = d.physW, d.physH
	}
	d.win = noWindow
}

// InvertColors switches the panel color inversion on or off.
func (d *Dev) InvertColors(on bool) error {
	cmd := byte(cmdINVOFF)
	if on {
		cmd = cmdINVON
	}
	return d.run(func() { d.command(cmd) })
}

// TearEffect switches the tearing effect output line on or off.
func (d *Dev) TearEffect(on bool) error {
	cmd := byte(cmdTEOFF)
	if on {
		cmd = cmdTEON
	}
	return d.run(func() { d.command(cmd) })
}

// Halt turns the display off. Every later call returns ErrHalted.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	d.halted = true
	d.err = nil
	d.command(cmdDISPOFF)
	return d.takeErr()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("tftspi.Dev{%s %dx%d}", d.ctrl, d.w, d.h)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer. It reflects the current rotation.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.w, d.h)
}

// Size implements drivers.Displayer.
func (d *Dev) Size() (x, y int16) {
	return int16(d.w), int16(d.h)
}

// SetPixel implements drivers.Displayer. A bus error is kept and returned by
// the next Display call.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	if d.halted {
		return
	}
	d.drawPixel(int(x), int(y), rgb565.RGB(c.R, c.G, c.B))
}

// Display implements drivers.Displayer. Pixels are already on the panel, so
// it only reports errors left by SetPixel.
func (d *Dev) Display() error {
	if d.halted {
		return ErrHalted
	}
	return d.takeErr()
}

var (
	_ display.Drawer    = &Dev{}
	_ drivers.Displayer = &Dev{}
)
