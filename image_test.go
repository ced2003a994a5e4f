package tftspi

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/flavioheleno/tftspi/panelsim"
	"github.com/flavioheleno/tftspi/rgb565"
)

func TestDrawImage(t *testing.T) {
	pix := []rgb565.Color{
		rgb565.Red, rgb565.Green, rgb565.Blue,
		rgb565.White, rgb565.Yellow, rgb565.Cyan,
	}
	tests := []struct {
		name string
		x, y int
		want map[[2]int]rgb565.Color
	}{
		{
			"inside", 10, 20,
			map[[2]int]rgb565.Color{
				{10, 20}: rgb565.Red, {12, 20}: rgb565.Blue,
				{10, 21}: rgb565.White, {12, 21}: rgb565.Cyan,
				{13, 20}: rgb565.Black,
			},
		},
		{
			"clipped left and top", -1, -1,
			map[[2]int]rgb565.Color{
				{0, 0}: rgb565.Yellow, {1, 0}: rgb565.Cyan,
				{2, 0}: rgb565.Black, {0, 1}: rgb565.Black,
			},
		},
		{
			"clipped right", 238, 319,
			map[[2]int]rgb565.Color{
				{238, 319}: rgb565.Red, {239, 319}: rgb565.Green,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, p := newTestDev(t, nil)
			if err := d.DrawImage(tt.x, tt.y, 3, 2, pix); err != nil {
				t.Fatal(err)
			}
			checkPixels(t, p, tt.want)
		})
	}
}

func TestDrawImageShortSlice(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.DrawImage(0, 0, 3, 3, make([]rgb565.Color, 8)); err == nil {
		t.Error("DrawImage() with a short slice succeeded")
	}
	if n := len(p.Stats().Commands); n != 0 {
		t.Errorf("%d commands sent for a rejected image", n)
	}
}

func TestDrawBitmap(t *testing.T) {
	d, p := newTestDev(t, nil)
	if err := d.FillScreen(rgb565.Blue); err != nil {
		t.Fatal(err)
	}
	// 10 pixels wide, so every row takes two bytes.
	bitmap := []byte{
		0b1000_0001, 0b0100_0000,
		0b0111_1110, 0b1000_0000,
	}
	if err := d.DrawBitmap(5, 5, 10, 2, bitmap, rgb565.Yellow); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]rgb565.Color{}
	rows := []string{
		"Y......Y.Y",
		".YYYYYY.Y.",
	}
	for j, row := range rows {
		for i, c := range row {
			want[[2]int{5 + i, 5 + j}] = rgb565.Blue
			if c == 'Y' {
				want[[2]int{5 + i, 5 + j}] = rgb565.Yellow
			}
		}
	}
	checkPixels(t, p, want)

	if err := d.DrawBitmap(0, 0, 9, 2, bitmap[:3], rgb565.Yellow); err == nil {
		t.Error("DrawBitmap() with a short bitmap succeeded")
	}
}

func TestDrawRGB565Image(t *testing.T) {
	d, p := newTestDev(t, nil)
	img := rgb565.NewImage(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGB565(x, y, rgb565.Color(y*4+x+1))
		}
	}
	// dst starts one pixel off the left edge: the first source column is
	// skipped and the window starts at x=0.
	if err := d.Draw(image.Rect(-1, 10, 2, 12), img, image.Pt(1, 1)); err != nil {
		t.Fatal(err)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{
		{0, 10}: 7, {1, 10}: 8,
		{0, 11}: 11, {1, 11}: 12,
		{2, 10}: rgb565.Black,
	})
	if got := p.Stats().Commands[cmdRAMWR]; got != 1 {
		t.Errorf("%d RAM writes, want 1", got)
	}
}

func TestDrawGenericImage(t *testing.T) {
	d, p := newTestDev(t, nil)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	src.Set(1, 0, color.RGBA{G: 0xFF, A: 0xFF})
	src.Set(0, 1, color.RGBA{B: 0xFF, A: 0xFF})
	src.Set(1, 1, color.White)
	if err := d.Draw(image.Rect(100, 100, 102, 102), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	checkPixels(t, p, map[[2]int]rgb565.Color{
		{100, 100}: rgb565.Red, {101, 100}: rgb565.Green,
		{100, 101}: rgb565.Blue, {101, 101}: rgb565.White,
	})

	p.ResetStats()
	if err := d.Draw(image.Rect(300, 400, 310, 410), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if n := len(p.Stats().Commands); n != 0 {
		t.Errorf("off-screen Draw sent %d commands", n)
	}
}

// writeOnly hides the Reader side of a panel.
type writeOnly struct {
	p *panelsim.Panel
}

func (w writeOnly) Command(cmd byte) error   { return w.p.Command(cmd) }
func (w writeOnly) Data(b []byte) error      { return w.p.Data(b) }
func (w writeOnly) StartData(b []byte) error { return w.p.StartData(b) }
func (w writeOnly) Wait() error              { return w.p.Wait() }

func TestReadPixel(t *testing.T) {
	d, _ := newTestDev(t, nil)
	c := rgb565.RGB(0x88, 0x44, 0xCC)
	if err := d.DrawPixel(12, 34, c); err != nil {
		t.Fatal(err)
	}
	got, err := d.ReadPixel(12, 34)
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Errorf("ReadPixel(12, 34) = %#04x, want %#04x", got, c)
	}
	if got, err := d.ReadPixel(-1, 400); err != nil || got != rgb565.Black {
		t.Errorf("ReadPixel() off screen = %#04x, %v", got, err)
	}

	// A write after a read must work on a window armed for writing.
	if err := d.DrawPixel(12, 34, rgb565.Red); err != nil {
		t.Fatal(err)
	}
	if got, _ := d.ReadPixel(12, 34); got != rgb565.Red {
		t.Errorf("ReadPixel() after redraw = %#04x, want red", got)
	}
}

func TestReadPixelNoReader(t *testing.T) {
	d, err := newDev(writeOnly{panelsim.New(240, 320)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(time.Duration) {}
	if err := d.init(Rotation0); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ReadPixel(0, 0); !errors.Is(err, ErrNoRead) {
		t.Errorf("ReadPixel() error = %v, want %v", err, ErrNoRead)
	}
}
