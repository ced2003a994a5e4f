package panelsim

import (
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Touch controller conversion commands.
const (
	ReadX = 0xD0
	ReadY = 0x90
)

// Touch emulates an XPT2046 behind a full-duplex connection.
//
// Each conversion is a 3-byte exchange: the command byte, then the 16-bit
// result big-endian. IRQ is low while the screen is pressed.
type Touch struct {
	IRQ *gpiotest.Pin

	// ReleaseAfter lifts the pen after that many conversions of a press.
	// Zero keeps it down.
	ReleaseAfter int

	mu    sync.Mutex
	x, y  uint16
	count int
}

// NewTouch returns a released touch controller.
func NewTouch() *Touch {
	return &Touch{IRQ: &gpiotest.Pin{N: "T_IRQ", L: gpio.High}}
}

// String implements conn.Resource.
func (t *Touch) String() string {
	return "panelsim.Touch"
}

// Duplex implements conn.Conn.
func (t *Touch) Duplex() conn.Duplex {
	return conn.Full
}

// Tx implements conn.Conn.
func (t *Touch) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(r)
	if len(w) == 0 || len(r) < 3 {
		return nil
	}
	var v uint16
	switch w[0] {
	case ReadX:
		v = t.x
	case ReadY:
		v = t.y
	default:
		return nil
	}
	r[1], r[2] = byte(v>>8), byte(v)
	t.count++
	if t.ReleaseAfter > 0 && t.count >= t.ReleaseAfter {
		t.IRQ.Out(gpio.High)
	}
	return nil
}

// Press puts the pen down with the given raw X and Y conversion results.
func (t *Touch) Press(x, y uint16) {
	t.mu.Lock()
	t.x, t.y = x, y
	t.count = 0
	t.mu.Unlock()
	t.IRQ.Out(gpio.Low)
}

// Release lifts the pen.
func (t *Touch) Release() {
	t.IRQ.Out(gpio.High)
}

// Conversions returns how many X and Y results were read since the last
// press.
func (t *Touch) Conversions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

var _ conn.Conn = &Touch{}
