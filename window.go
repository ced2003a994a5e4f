package tftspi

// window is the last address range programmed into the controller.
type window struct {
	x0, y0, x1, y1 int
}

// noWindow never matches a real range, so the next window is always sent.
var noWindow = window{-1, -1, -1, -1}

func (d *Dev) inBounds(x, y int) bool {
	return x >= 0 && x < d.w && y >= 0 && y < d.h
}

// SetWindow programs the address window (x0,y0)-(x1,y1), inclusive, and arms
// a RAM write. It does nothing when a corner lies outside the logical bounds
// or when x0 > x1 or y0 > y1.
func (d *Dev) SetWindow(x0, y0, x1, y1 int) error {
	return d.run(func() { d.setWindow(x0, y0, x1, y1) })
}

// setWindow reports whether the window was armed. Callers must not stream
// pixels when it returns false.
func (d *Dev) setWindow(x0, y0, x1, y1 int) bool {
	if !d.address(x0, y0, x1, y1) {
		return false
	}
	d.command(cmdRAMWR)
	return d.err == nil
}

// address sends CASET and RASET for the ranges that differ from the cache.
func (d *Dev) address(x0, y0, x1, y1 int) bool {
	if !d.inBounds(x0, y0) || !d.inBounds(x1, y1) || x0 > x1 || y0 > y1 {
		return false
	}
	if d.err != nil {
		return false
	}
	if d.win.x0 != x0 || d.win.x1 != x1 {
		d.command(cmdCASET)
		d.sendRange(x0, x1)
		if d.err != nil {
			return false
		}
		d.win.x0, d.win.x1 = x0, x1
	}
	if d.win.y0 != y0 || d.win.y1 != y1 {
		d.command(cmdRASET)
		d.sendRange(y0, y1)
		if d.err != nil {
			return false
		}
		d.win.y0, d.win.y1 = y0, y1
	}
	return true
}

// sendRange sends two big-endian 16-bit addresses.
func (d *Dev) sendRange(a, b int) {
	d.arg[0] = byte(a >> 8)
	d.arg[1] = byte(a)
	d.arg[2] = byte(b >> 8)
	d.arg[3] = byte(b)
	d.write(d.arg[:4], false)
}
