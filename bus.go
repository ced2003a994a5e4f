package tftspi

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"tinygo.org/x/drivers"
)

// Bus is the command/data channel to the controller.
//
// Command sends one byte with DC low. Data sends a block with DC high and
// returns once it is on the wire. StartData does the same but may return
// before the transfer completes; p must not be modified until Wait returns.
type Bus interface {
	Command(cmd byte) error
	Data(p []byte) error
	StartData(p []byte) error
	Wait() error
}

// Reader is implemented by buses that can read from the controller.
//
// ReadCommand sends cmd and then clocks len(p) bytes in, keeping the chip
// selected for the whole exchange.
type Reader interface {
	ReadCommand(cmd byte, p []byte) error
}

// ConnBus is a Bus over a periph.io connection and a DC pin.
type ConnBus struct {
	c       conn.Conn
	dc      gpio.PinOut
	cs      gpio.PinOut
	max     int
	cmd     [1]byte
	done    chan error
	pending bool
}

// NewConnBus returns a Bus writing to c, using dc as the Data/Command line.
//
// cs is optional: pass nil when the SPI port drives chip select itself.
// Reads need a GPIO chip select since the command and the reply must share
// one selection; without it ReadCommand returns ErrNoRead.
func NewConnBus(c conn.Conn, dc, cs gpio.PinOut) *ConnBus {
	b := &ConnBus{c: c, dc: dc, cs: cs, done: make(chan error, 1)}
	if l, ok := c.(conn.Limits); ok {
		b.max = l.MaxTxSize()
	}
	return b
}

// String implements conn.Resource.
func (b *ConnBus) String() string {
	return fmt.Sprintf("tftspi.ConnBus{%s}", b.c)
}

// Command implements Bus.
func (b *ConnBus) Command(cmd byte) error {
	if err := b.Wait(); err != nil {
		return err
	}
	b.cmd[0] = cmd
	return b.tx(gpio.Low, b.cmd[:])
}

// Data implements Bus.
func (b *ConnBus) Data(p []byte) error {
	if err := b.Wait(); err != nil {
		return err
	}
	return b.tx(gpio.High, p)
}

// StartData implements Bus. The transfer runs on its own goroutine and is
// joined by Wait.
func (b *ConnBus) StartData(p []byte) error {
	if err := b.Wait(); err != nil {
		return err
	}
	if err := b.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("tftspi: failed to set DC: %w", err)
	}
	if err := b.selectChip(gpio.Low); err != nil {
		return err
	}
	b.pending = true
	go func() {
		b.done <- b.write(p)
	}()
	return nil
}

// Wait implements Bus.
func (b *ConnBus) Wait() error {
	if !b.pending {
		return nil
	}
	err := <-b.done
	b.pending = false
	if serr := b.selectChip(gpio.High); err == nil {
		err = serr
	}
	return err
}

// ReadCommand implements Reader.
func (b *ConnBus) ReadCommand(cmd byte, p []byte) error {
	if b.cs == nil {
		return ErrNoRead
	}
	if err := b.Wait(); err != nil {
		return err
	}
	if err := b.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("tftspi: failed to set DC: %w", err)
	}
	if err := b.selectChip(gpio.Low); err != nil {
		return err
	}
	b.cmd[0] = cmd
	err := b.c.Tx(b.cmd[:], nil)
	if err == nil {
		err = b.dc.Out(gpio.High)
	}
	if err == nil {
		w := make([]byte, len(p))
		for i := range w {
			w[i] = 0xFF
		}
		err = b.c.Tx(w, p)
	}
	if serr := b.selectChip(gpio.High); err == nil {
		err = serr
	}
	return err
}

func (b *ConnBus) tx(dc gpio.Level, p []byte) error {
	if err := b.dc.Out(dc); err != nil {
		return fmt.Errorf("tftspi: failed to set DC: %w", err)
	}
	if err := b.selectChip(gpio.Low); err != nil {
		return err
	}
	err := b.write(p)
	if serr := b.selectChip(gpio.High); err == nil {
		err = serr
	}
	return err
}

// write splits p to the connection's transfer limit, if it has one.
func (b *ConnBus) write(p []byte) error {
	for len(p) > 0 {
		n := len(p)
		if b.max > 0 && n > b.max {
			n = b.max
		}
		if err := b.c.Tx(p[:n], nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (b *ConnBus) selectChip(l gpio.Level) error {
	if b.cs == nil {
		return nil
	}
	if err := b.cs.Out(l); err != nil {
		return fmt.Errorf("tftspi: failed to set CS: %w", err)
	}
	return nil
}

// Pin is a TinyGo output pin, as machine.Pin.
type Pin interface {
	Set(high bool)
}

// DriversBus is a Bus over a TinyGo SPI. Transfers are always synchronous.
type DriversBus struct {
	s   drivers.SPI
	dc  Pin
	cs  Pin
	cmd [1]byte
}

// NewDriversBus returns a Bus writing to s. cs may be nil.
func NewDriversBus(s drivers.SPI, dc, cs Pin) *DriversBus {
	return &DriversBus{s: s, dc: dc, cs: cs}
}

// Command implements Bus.
func (b *DriversBus) Command(cmd byte) error {
	b.cmd[0] = cmd
	return b.tx(false, b.cmd[:])
}

// Data implements Bus.
func (b *DriversBus) Data(p []byte) error {
	return b.tx(true, p)
}

// StartData implements Bus. It completes the transfer before returning.
func (b *DriversBus) StartData(p []byte) error {
	return b.tx(true, p)
}

// Wait implements Bus.
func (b *DriversBus) Wait() error {
	return nil
}

// ReadCommand implements Reader.
func (b *DriversBus) ReadCommand(cmd byte, p []byte) error {
	b.dc.Set(false)
	b.selectChip(false)
	defer b.selectChip(true)
	b.cmd[0] = cmd
	if err := b.s.Tx(b.cmd[:], nil); err != nil {
		return err
	}
	b.dc.Set(true)
	w := make([]byte, len(p))
	for i := range w {
		w[i] = 0xFF
	}
	return b.s.Tx(w, p)
}

func (b *DriversBus) tx(data bool, p []byte) error {
	b.dc.Set(data)
	b.selectChip(false)
	err := b.s.Tx(p, nil)
	b.selectChip(true)
	return err
}

func (b *DriversBus) selectChip(high bool) {
	if b.cs != nil {
		b.cs.Set(high)
	}
}

var (
	_ Bus    = &ConnBus{}
	_ Reader = &ConnBus{}
	_ Bus    = &DriversBus{}
	_ Reader = &DriversBus{}
)
