package tftspi

import "github.com/flavioheleno/tftspi/rgb565"

// capacity is the scratch buffer size in pixels.
func (d *Dev) capacity() int {
	return len(d.buf) / 2
}

// write sends p as pixel data. The async path starts the transfer and waits
// for it, so p is free again when write returns.
func (d *Dev) write(p []byte, async bool) {
	if d.err != nil {
		return
	}
	if !async {
		d.err = d.bus.Data(p)
		return
	}
	if d.err = d.bus.StartData(p); d.err != nil {
		return
	}
	d.err = d.bus.Wait()
}

// PushBlock streams n pixels of color c into the current window.
func (d *Dev) PushBlock(c rgb565.Color, n int) error {
	return d.run(func() { d.pushBlock(c, n, n > d.w/4) })
}

// PushPixels streams p into the current window.
func (d *Dev) PushPixels(p []rgb565.Color) error {
	return d.run(func() { d.pushPixels(p, len(p) > d.w/4) })
}

// pushBlock refills the scratch buffer only when the chunk size changes.
func (d *Dev) pushBlock(c rgb565.Color, n int, async bool) {
	last := 0
	for n > 0 && d.err == nil {
		chunk := min(n, d.capacity())
		if chunk != last {
			fill(d.buf[:2*chunk], c)
			last = chunk
		}
		d.write(d.buf[:2*chunk], async)
		n -= chunk
	}
}

func (d *Dev) pushPixels(p []rgb565.Color, async bool) {
	s := d.stream(async)
	for _, c := range p {
		s.put(c)
	}
	s.flush()
}

func fill(b []byte, c rgb565.Color) {
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i < len(b); i += 2 {
		b[i] = hi
		b[i+1] = lo
	}
}

// stream packs pixels into the scratch buffer and sends every full chunk.
type stream struct {
	d     *Dev
	n     int
	async bool
}

func (d *Dev) stream(async bool) *stream {
	return &stream{d: d, async: async}
}

func (s *stream) put(c rgb565.Color) {
	i := 2 * s.n
	s.d.buf[i] = byte(c >> 8)
	s.d.buf[i+1] = byte(c)
	s.n++
	if s.n == s.d.capacity() {
		s.flush()
	}
}

// putWire copies pixels that are already in wire order.
func (s *stream) putWire(p []byte) {
	for len(p) > 0 {
		n := copy(s.d.buf[2*s.n:], p)
		s.n += n / 2
		p = p[n:]
		if s.n == s.d.capacity() {
			s.flush()
		}
	}
}

func (s *stream) flush() {
	if s.n == 0 {
		return
	}
	s.d.write(s.d.buf[:2*s.n], s.async)
	s.n = 0
}
