package tftspi

import (
	"bytes"
	"image"
	"testing"

	"github.com/flavioheleno/tftspi/panelsim"
	"github.com/flavioheleno/tftspi/rgb565"
)

// checkPixels compares panel pixels against expectations.
func checkPixels(t *testing.T, p *panelsim.Panel, want map[[2]int]rgb565.Color) {
	t.Helper()
	for pt, c := range want {
		if got := p.At(pt[0], pt[1]); got != c {
			t.Errorf("At(%d, %d) = %#04x, want %#04x", pt[0], pt[1], got, c)
		}
	}
}

func TestSetWindowCache(t *testing.T) {
	d, p := newTestDev(t, nil)
	steps := []struct {
		x0, y0, x1, y1      int
		caset, raset, ramwr int
	}{
		{0, 0, 9, 9, 1, 1, 1},
		{0, 0, 9, 9, 1, 1, 2},
		{0, 5, 9, 9, 1, 2, 3},
		{3, 5, 9, 9, 2, 2, 4},
	}
	for i, s := range steps {
		if err := d.SetWindow(s.x0, s.y0, s.x1, s.y1); err != nil {
			t.Fatal(err)
		}
		c := p.Stats().Commands
		if c[cmdCASET] != s.caset || c[cmdRASET] != s.raset || c[cmdRAMWR] != s.ramwr {
			t.Errorf("step %d: CASET %d RASET %d RAMWR %d, want %d %d %d",
				i, c[cmdCASET], c[cmdRASET], c[cmdRAMWR], s.caset, s.raset, s.ramwr)
		}
	}
}

func TestSetWindowRejects(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"x past width", 0, 0, 240, 10},
		{"y past height", 0, 0, 10, 320},
		{"negative", -1, 0, 10, 10},
		{"inverted x", 5, 0, 4, 10},
		{"inverted y", 0, 9, 10, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, p := newTestDev(t, nil)
			if err := d.SetWindow(tt.x0, tt.y0, tt.x1, tt.y1); err != nil {
				t.Fatal(err)
			}
			if n := len(p.Stats().Commands); n != 0 {
				t.Errorf("sent %d commands, want none", n)
			}
		})
	}
}

func TestFillChunks(t *testing.T) {
	tests := []struct {
		name      string
		buffer    int
		transfers int
		last      int
	}{
		{"default buffer", 0, 75, 2048},
		{"1000 pixel buffer", 1000, 77, 1600},
		{"whole screen buffer", 240 * 320, 1, 240 * 320 * 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, p := newTestDev(t, &Opts{BufferSize: tt.buffer})
			if err := d.FillScreen(rgb565.Navy); err != nil {
				t.Fatal(err)
			}
			var data []panelsim.Transfer
			for _, tr := range p.Stats().Transfers {
				if !tr.Async {
					t.Fatalf("fill sent a synchronous transfer of %d bytes", tr.Bytes)
				}
				data = append(data, tr)
			}
			if len(data) != tt.transfers {
				t.Fatalf("%d transfers, want %d", len(data), tt.transfers)
			}
			if data[len(data)-1].Bytes != tt.last {
				t.Errorf("last transfer %d bytes, want %d", data[len(data)-1].Bytes, tt.last)
			}
			for i := 0; i < len(data)-1; i++ {
				if data[i].Bytes != 2*d.capacity() {
					t.Fatalf("transfer %d is %d bytes, want %d", i, data[i].Bytes, 2*d.capacity())
				}
			}
			checkPixels(t, p, map[[2]int]rgb565.Color{{0, 0}: rgb565.Navy, {239, 319}: rgb565.Navy})
		})
	}
}

// scribbleBus records data blocks and then clobbers them, so a block reused
// without a refill arrives zeroed.
type scribbleBus struct {
	blocks [][]byte
}

func (b *scribbleBus) Command(cmd byte) error   { return nil }
func (b *scribbleBus) StartData(p []byte) error { return b.Data(p) }
func (b *scribbleBus) Wait() error              { return nil }

func (b *scribbleBus) Data(p []byte) error {
	b.blocks = append(b.blocks, append([]byte(nil), p...))
	clear(p)
	return nil
}

func TestPushBlockFillsOnlyOnSizeChange(t *testing.T) {
	bus := &scribbleBus{}
	d, err := newDev(bus, &Opts{BufferSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	d.pushBlock(rgb565.White, 10, false)

	want := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0xFF, 0xFF, 0xFF, 0xFF},
	}
	if len(bus.blocks) != len(want) {
		t.Fatalf("%d blocks, want %d", len(bus.blocks), len(want))
	}
	for i := range want {
		if !bytes.Equal(bus.blocks[i], want[i]) {
			t.Errorf("block %d = % x, want % x", i, bus.blocks[i], want[i])
		}
	}
}

func TestPushPixels(t *testing.T) {
	d, p := newTestDev(t, &Opts{BufferSize: 3})
	px := []rgb565.Color{rgb565.Red, rgb565.Green, rgb565.Blue, rgb565.White, rgb565.Yellow}
	if err := d.SetWindow(10, 20, 14, 20); err != nil {
		t.Fatal(err)
	}
	if err := d.PushPixels(px); err != nil {
		t.Fatal(err)
	}
	for i, c := range px {
		if got := p.At(10+i, 20); got != c {
			t.Errorf("At(%d, 20) = %#04x, want %#04x", 10+i, got, c)
		}
	}
	if err := d.PushBlock(rgb565.Cyan, 5); err != nil {
		t.Fatal(err)
	}
	if got := p.At(14, 20); got != rgb565.Cyan {
		t.Errorf("At(14, 20) = %#04x after PushBlock, want cyan", got)
	}
}

func TestFastLineTransfers(t *testing.T) {
	tests := []struct {
		name  string
		draw  func(d *Dev) error
		bytes int
		async bool
	}{
		{"single pixel", func(d *Dev) error { return d.DrawFastHLine(5, 5, 1, rgb565.Red) }, 2, false},
		{"short hline", func(d *Dev) error { return d.DrawFastHLine(0, 1, 60, rgb565.Red) }, 120, false},
		{"long hline", func(d *Dev) error { return d.DrawFastHLine(0, 0, 61, rgb565.Red) }, 122, true},
		{"short vline", func(d *Dev) error { return d.DrawFastVLine(0, 0, 80, rgb565.Red) }, 160, false},
		{"long vline", func(d *Dev) error { return d.DrawFastVLine(1, 0, 81, rgb565.Red) }, 162, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, p := newTestDev(t, nil)
			if err := tt.draw(d); err != nil {
				t.Fatal(err)
			}
			tr := p.Stats().Transfers
			last := tr[len(tr)-1]
			if last.Bytes != tt.bytes || last.Async != tt.async {
				t.Errorf("pixel transfer = %+v, want %d bytes async %v", last, tt.bytes, tt.async)
			}
		})
	}
}

func TestSinglePixelLineUsesPixelWindow(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.DrawFastVLine(7, 8, 1, rgb565.Green); err != nil {
		t.Fatal(err)
	}
	if got, want := p.Window(), image.Rect(7, 8, 8, 9); got != want {
		t.Errorf("Window() = %v, want %v", got, want)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{{7, 8}: rgb565.Green, {7, 9}: rgb565.Black})
}

func TestClipping(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.FillRect(-10, -10, 20, 20, rgb565.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawFastHLine(230, 100, 50, rgb565.Green); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawFastVLine(100, -5, 10, rgb565.Blue); err != nil {
		t.Fatal(err)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{
		{0, 0}:     rgb565.Red,
		{9, 9}:     rgb565.Red,
		{10, 10}:   rgb565.Black,
		{9, 10}:    rgb565.Black,
		{230, 100}: rgb565.Green,
		{239, 100}: rgb565.Green,
		{100, 0}:   rgb565.Blue,
		{100, 4}:   rgb565.Blue,
		{100, 5}:   rgb565.Black,
	})

	p.ResetStats()
	for _, err := range []error{
		d.DrawPixel(-1, 0, rgb565.White),
		d.DrawPixel(240, 0, rgb565.White),
		d.FillRect(300, 300, 10, 10, rgb565.White),
		d.DrawFastHLine(0, 320, 10, rgb565.White),
		d.FillRect(0, 0, 0, 10, rgb565.White),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	if n := len(p.Stats().Commands); n != 0 {
		t.Errorf("off-screen drawing sent %d commands", n)
	}
}

func TestDrawLine(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.DrawLine(0, 0, 5, 5, rgb565.Red); err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= 5; i++ {
		if got := p.At(i, i); got != rgb565.Red {
			t.Errorf("At(%d, %d) = %#04x, want red", i, i, got)
		}
	}
	if got := p.At(1, 0); got != rgb565.Black {
		t.Errorf("At(1, 0) = %#04x, want black", got)
	}

	// Steep line drawn right to left: one pixel per row.
	if err := d.DrawLine(52, 16, 50, 10, rgb565.Green); err != nil {
		t.Fatal(err)
	}
	for y := 10; y <= 16; y++ {
		n := 0
		for x := 48; x <= 54; x++ {
			if p.At(x, y) == rgb565.Green {
				n++
			}
		}
		if n != 1 {
			t.Errorf("row %d has %d pixels, want 1", y, n)
		}
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{{50, 10}: rgb565.Green, {52, 16}: rgb565.Green})
}

func TestDrawRect(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.DrawRect(10, 10, 5, 4, rgb565.White); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]rgb565.Color{
		{10, 10}: rgb565.White,
		{14, 10}: rgb565.White,
		{10, 13}: rgb565.White,
		{14, 13}: rgb565.White,
		{12, 13}: rgb565.White,
		{11, 11}: rgb565.Black,
		{15, 10}: rgb565.Black,
		{10, 14}: rgb565.Black,
	}
	checkPixels(t, p, want)
}

func TestRoundRects(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.FillRoundRect(100, 100, 30, 20, 5, rgb565.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawRoundRect(10, 200, 30, 20, 50, rgb565.Green); err != nil {
		t.Fatal(err)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{
		{115, 110}: rgb565.Red,
		{100, 110}: rgb565.Red,
		{129, 110}: rgb565.Red,
		{115, 100}: rgb565.Red,
		{115, 119}: rgb565.Red,
		{100, 100}: rgb565.Black,
		{129, 119}: rgb565.Black,
		{25, 200}:  rgb565.Green,
		{25, 210}:  rgb565.Black,
		{10, 200}:  rgb565.Black,
	})
}

func TestCircles(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.FillCircle(50, 50, 5, rgb565.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawCircle(100, 100, 5, rgb565.Green); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawCircle(150, 150, 0, rgb565.Blue); err != nil {
		t.Fatal(err)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{
		{50, 50}:   rgb565.Red,
		{50, 45}:   rgb565.Red,
		{50, 55}:   rgb565.Red,
		{45, 50}:   rgb565.Red,
		{55, 50}:   rgb565.Red,
		{56, 50}:   rgb565.Black,
		{55, 55}:   rgb565.Black,
		{105, 100}: rgb565.Green,
		{95, 100}:  rgb565.Green,
		{100, 95}:  rgb565.Green,
		{100, 105}: rgb565.Green,
		{100, 100}: rgb565.Black,
		{150, 150}: rgb565.Blue,
	})
}

func TestCircleSymmetry(t *testing.T) {
	d, p := newTestDev(t, nil)
	const x0, y0, r = 120, 160, 37
	if err := d.DrawCircle(x0, y0, r, rgb565.White); err != nil {
		t.Fatal(err)
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			a := p.At(x0+dx, y0+dy)
			for _, m := range [][2]int{{-dx, dy}, {dx, -dy}, {dy, dx}} {
				if b := p.At(x0+m[0], y0+m[1]); a != b {
					t.Fatalf("pixel (%d, %d) = %#04x but mirror (%d, %d) = %#04x", dx, dy, a, m[0], m[1], b)
				}
			}
		}
	}
}

func TestEllipses(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.FillEllipse(60, 60, 8, 4, rgb565.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawEllipse(150, 60, 10, 5, rgb565.Green); err != nil {
		t.Fatal(err)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{
		{60, 60}:  rgb565.Red,
		{60, 56}:  rgb565.Red,
		{60, 64}:  rgb565.Red,
		{52, 60}:  rgb565.Red,
		{68, 60}:  rgb565.Red,
		{69, 60}:  rgb565.Black,
		{60, 55}:  rgb565.Black,
		{160, 60}: rgb565.Green,
		{140, 60}: rgb565.Green,
		{150, 55}: rgb565.Green,
		{150, 65}: rgb565.Green,
		{150, 60}: rgb565.Black,
	})

	p.ResetStats()
	if err := d.FillEllipse(10, 10, 1, 5, rgb565.White); err != nil {
		t.Fatal(err)
	}
	if n := len(p.Stats().Commands); n != 0 {
		t.Errorf("ellipse with radius 1 sent %d commands", n)
	}
}

func TestTriangles(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.FillTriangle(10, 10, 20, 10, 10, 20, rgb565.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawTriangle(100, 100, 120, 100, 100, 120, rgb565.Green); err != nil {
		t.Fatal(err)
	}
	if err := d.FillTriangle(5, 200, 50, 200, 30, 200, rgb565.Blue); err != nil {
		t.Fatal(err)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{
		{10, 10}:   rgb565.Red,
		{20, 10}:   rgb565.Red,
		{10, 20}:   rgb565.Red,
		{12, 12}:   rgb565.Red,
		{19, 19}:   rgb565.Black,
		{100, 100}: rgb565.Green,
		{110, 100}: rgb565.Green,
		{110, 110}: rgb565.Green,
		{105, 105}: rgb565.Black,
		{5, 200}:   rgb565.Blue,
		{50, 200}:  rgb565.Blue,
		{51, 200}:  rgb565.Black,
	})
}
