// Package panelsim emulates an SPI TFT controller and an XPT2046 touch ADC
// in memory.
//
// Panel decodes the command stream a tftspi.Dev sends (address window,
// memory access control and RAM writes) into a frame buffer and records the
// traffic, so drawing code can be checked without hardware. Touch answers the
// touch controller conversion requests over a periph.io connection.
//
// The package does not import tftspi; Panel satisfies tftspi.Bus and
// tftspi.Reader structurally.
package panelsim

import (
	"fmt"
	"image"
	"sync"

	"github.com/flavioheleno/tftspi/rgb565"
)

// Controller commands understood by Panel.
const (
	CASET  = 0x2A
	RASET  = 0x2B
	RAMWR  = 0x2C
	RAMRD  = 0x2E
	MADCTL = 0x36
)

// MADCTL bits applied to the address mapping. The color order bit is
// ignored.
const (
	MY = 0x80
	MX = 0x40
	MV = 0x20
)

// Transfer is one data block received by the panel.
type Transfer struct {
	Bytes int
	Async bool
}

// Stats is the traffic seen since the last ResetStats.
type Stats struct {
	// Commands counts every command byte.
	Commands map[byte]int
	// Transfers lists the data blocks in order.
	Transfers []Transfer
}

// Panel is an emulated controller with a W×H frame buffer in portrait
// orientation.
//
// Set Fail to make bus calls return an error. The first FailAfter calls
// still succeed.
type Panel struct {
	Fail      error
	FailAfter int

	mu     sync.Mutex
	w, h   int
	ram    []rgb565.Color
	madctl byte

	cmd  byte
	args []byte
	half int // pending high byte of a pixel, -1 if none

	x0, x1, y0, y1 int
	col, row       int

	calls int
	stats Stats
}

// New returns a blank w×h panel with the address window covering it.
func New(w, h int) *Panel {
	p := &Panel{
		w:    w,
		h:    h,
		ram:  make([]rgb565.Color, w*h),
		half: -1,
		x1:   w - 1,
		y1:   h - 1,
	}
	p.ResetStats()
	return p
}

// String implements fmt.Stringer.
func (p *Panel) String() string {
	return fmt.Sprintf("panelsim.Panel{%dx%d}", p.w, p.h)
}

// fail reports the injected error once FailAfter calls have gone through.
func (p *Panel) fail() error {
	p.calls++
	if p.Fail != nil && p.calls > p.FailAfter {
		return p.Fail
	}
	return nil
}

// Command receives one command byte.
func (p *Panel) Command(cmd byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return err
	}
	p.stats.Commands[cmd]++
	p.begin(cmd)
	return nil
}

// Data receives a block of parameters or pixels.
func (p *Panel) Data(b []byte) error {
	return p.data(b, false)
}

// StartData receives a block like Data, recording it as asynchronous.
func (p *Panel) StartData(b []byte) error {
	return p.data(b, true)
}

// Wait completes immediately; StartData has already consumed its block.
func (p *Panel) Wait() error {
	return nil
}

// ReadCommand answers RAMRD with a dummy byte followed by one left-aligned
// byte per channel for every pixel, starting at the window origin. Other
// commands read as zeros.
func (p *Panel) ReadCommand(cmd byte, b []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return err
	}
	p.stats.Commands[cmd]++
	p.begin(cmd)
	clear(b)
	if cmd != RAMRD || len(b) == 0 {
		return nil
	}
	for i := 1; i+2 < len(b); i += 3 {
		c := p.pixel(p.col, p.row)
		r, g, bl := c.Channels()
		b[i] = r << 3
		b[i+1] = g << 2
		b[i+2] = bl << 3
		p.advance()
	}
	return nil
}

func (p *Panel) begin(cmd byte) {
	p.cmd = cmd
	p.args = p.args[:0]
	p.half = -1
	if cmd == RAMWR || cmd == RAMRD {
		p.col, p.row = p.x0, p.y0
	}
}

func (p *Panel) data(b []byte, async bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return err
	}
	p.stats.Transfers = append(p.stats.Transfers, Transfer{Bytes: len(b), Async: async})
	if p.cmd == RAMWR {
		p.pixels(b)
		return nil
	}
	p.args = append(p.args, b...)
	switch {
	case p.cmd == CASET && len(p.args) >= 4:
		p.x0, p.x1 = addr(p.args[0:2]), addr(p.args[2:4])
	case p.cmd == RASET && len(p.args) >= 4:
		p.y0, p.y1 = addr(p.args[0:2]), addr(p.args[2:4])
	case p.cmd == MADCTL && len(p.args) >= 1:
		p.madctl = p.args[0]
	}
	return nil
}

func addr(b []byte) int {
	return int(b[0])<<8 | int(b[1])
}

// pixels writes big-endian pixel data. A pixel may be split across blocks.
func (p *Panel) pixels(b []byte) {
	for _, v := range b {
		if p.half < 0 {
			p.half = int(v)
			continue
		}
		p.setPixel(p.col, p.row, rgb565.Color(p.half<<8|int(v)))
		p.half = -1
		p.advance()
	}
}

// advance moves the RAM pointer through the window, wrapping to its origin.
func (p *Panel) advance() {
	p.col++
	if p.col > p.x1 {
		p.col = p.x0
		p.row++
		if p.row > p.y1 {
			p.row = p.y0
		}
	}
}

// logical returns the address space size for the current MADCTL.
func (p *Panel) logical() (int, int) {
	if p.madctl&MV != 0 {
		return p.h, p.w
	}
	return p.w, p.h
}

// offset maps a column/row address to the frame buffer, or -1.
func (p *Panel) offset(col, row int) int {
	lw, lh := p.logical()
	if col < 0 || col >= lw || row < 0 || row >= lh {
		return -1
	}
	x, y := col, row
	if p.madctl&MV != 0 {
		x, y = row, col
	}
	if p.madctl&MX != 0 {
		x = p.w - 1 - x
	}
	if p.madctl&MY != 0 {
		y = p.h - 1 - y
	}
	return y*p.w + x
}

func (p *Panel) setPixel(col, row int, c rgb565.Color) {
	if i := p.offset(col, row); i >= 0 {
		p.ram[i] = c
	}
}

func (p *Panel) pixel(col, row int) rgb565.Color {
	if i := p.offset(col, row); i >= 0 {
		return p.ram[i]
	}
	return rgb565.Black
}

// At returns the pixel at (x, y) in the current orientation.
func (p *Panel) At(x, y int) rgb565.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pixel(x, y)
}

// Physical returns the pixel at (x, y) of the unrotated frame buffer.
func (p *Panel) Physical(x, y int) rgb565.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	if x < 0 || x >= p.w || y < 0 || y >= p.h {
		return rgb565.Black
	}
	return p.ram[y*p.w+x]
}

// Bounds returns the address space in the current orientation.
func (p *Panel) Bounds() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h := p.logical()
	return image.Rect(0, 0, w, h)
}

// MemoryAccess returns the last MADCTL value.
func (p *Panel) MemoryAccess() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.madctl
}

// Window returns the programmed address window, inclusive.
func (p *Panel) Window() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return image.Rect(p.x0, p.y0, p.x1+1, p.y1+1)
}

// Snapshot copies the frame buffer in the current orientation.
func (p *Panel) Snapshot() *rgb565.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h := p.logical()
	img := rgb565.NewImage(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGB565(x, y, p.pixel(x, y))
		}
	}
	return img
}

// Stats returns a copy of the traffic counters.
func (p *Panel) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Stats{
		Commands:  make(map[byte]int, len(p.stats.Commands)),
		Transfers: append([]Transfer(nil), p.stats.Transfers...),
	}
	for k, v := range p.stats.Commands {
		s.Commands[k] = v
	}
	return s
}

// ResetStats clears the traffic counters.
func (p *Panel) ResetStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = Stats{Commands: map[byte]int{}}
}
