package tftspi

import (
	"github.com/flavioheleno/tftspi/rgb565"
	"tinygo.org/x/tinyfont"
)

// Platform controls the MCU flash accelerator.
//
// Implementations live next to the board support code; the engine only
// toggles the cache through this interface.
type Platform interface {
	InstructionCacheEnabled() bool
	EnableInstructionCache()
	DisableInstructionCache()
}

// ToggleCache flips the instruction cache, clears the screen and writes the
// new state in the top left corner using f. It returns the new state.
func (d *Dev) ToggleCache(p Platform, f tinyfont.Fonter) (bool, error) {
	if d.halted {
		return p.InstructionCacheEnabled(), ErrHalted
	}
	on := !p.InstructionCacheEnabled()
	msg := "cache disabled"
	if on {
		p.EnableInstructionCache()
		msg = "cache enabled"
	} else {
		p.DisableInstructionCache()
	}
	err := d.run(func() {
		d.fillRect(0, 0, d.w, d.h, rgb565.Black)
		d.cx, d.cy = 0, 0
		tinyfont.WriteLine(d, f, 0, int16(f.GetYAdvance()), msg, rgb565.Red.RGBA8())
	})
	return on, err
}
