package rgb565

import (
	"image"
	"image/color"
)

// Color is a packed 5/6/5 pixel.
type Color uint16

// Common colors.
const (
	Black       Color = 0x0000
	White       Color = 0xFFFF
	Gray        Color = 0x8430
	LightGray   Color = 0xD69A
	DarkGray    Color = 0x7BEF
	Red         Color = 0xF800
	Green       Color = 0x07E0
	DarkGreen   Color = 0x03E0
	Blue        Color = 0x001F
	LightBlue   Color = 0x7D7C
	DarkBlue    Color = 0x01CF
	SkyBlue     Color = 0x867D
	Yellow      Color = 0xFFE0
	Purple      Color = 0x780F
	Magenta     Color = 0xF81F
	Violet      Color = 0x915C
	Cyan        Color = 0x7FFF
	DarkCyan    Color = 0x03EF
	Orange      Color = 0xFB20
	Pink        Color = 0xFE19
	Brown       Color = 0x9A60
	Gold        Color = 0xFEA0
	Silver      Color = 0xC618
	Navy        Color = 0x000F
	Maroon      Color = 0x7800
	Olive       Color = 0x7BE0
	GreenYellow Color = 0xB7E0
)

// RGB packs 8-bit channels into a Color, keeping the high bits of each.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// Channels returns the raw 5-bit red, 6-bit green and 5-bit blue fields.
func (c Color) Channels() (r, g, b uint8) {
	return uint8(c>>11) & 0x1F, uint8(c>>5) & 0x3F, uint8(c) & 0x1F
}

// RGB8 expands the color to 8 bits per channel, replicating the high bits
// into the low ones so that white maps to 0xFF.
func (c Color) RGB8() (r, g, b uint8) {
	r5, g6, b5 := c.Channels()
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB8()
	return uint32(r8) * 0x101, uint32(g8) * 0x101, uint32(b8) * 0x101, 0xFFFF
}

// RGBA8 returns the color as an opaque color.RGBA.
func (c Color) RGBA8() color.RGBA {
	r, g, b := c.RGB8()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// To8 reduces the color to the 8-bit RRRGGGBB palette.
func (c Color) To8() uint8 {
	return uint8((c&0xE000)>>8 | (c&0x0700)>>6 | (c&0x0018)>>3)
}

// blue2to5 maps the 2-bit palette blue onto the 5-bit field.
var blue2to5 = [4]uint16{0, 11, 21, 31}

// From8 expands an RRRGGGBB palette entry to a Color.
func From8(p uint8) Color {
	c := uint16(p)
	c16 := (c&0x1C)<<6 | (c&0xC0)<<5 | (c&0xE0)<<8
	c16 |= (c&0x1C)<<3 | blue2to5[c&0x03]
	return Color(c16)
}

// Blend mixes fg over bg. alpha 255 yields fg and 0 yields bg.
//
// Each channel is widened by one bit and biased by 1 so the final shift
// rounds instead of truncating.
func Blend(alpha uint8, fg, bg Color) Color {
	fgR := (uint32(fg)>>10)&0x3E + 1
	fgG := (uint32(fg)>>4)&0x7E + 1
	fgB := (uint32(fg)<<1)&0x3E + 1

	bgR := (uint32(bg)>>10)&0x3E + 1
	bgG := (uint32(bg)>>4)&0x7E + 1
	bgB := (uint32(bg)<<1)&0x3E + 1

	a := uint32(alpha)
	// Shift right 1 to drop the rounding bit and 8 to divide by 256.
	r := (fgR*a + bgR*(255-a)) >> 9
	g := (fgG*a + bgG*(255-a)) >> 9
	b := (fgB*a + bgB*(255-a)) >> 9

	return Color(r<<11 | g<<5 | b)
}

func toRGB565(c color.Color) color.Color {
	if p, ok := c.(Color); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts colors to Color.
var Model = color.ModelFunc(toRGB565)

// Convert returns c as a Color.
func Convert(c color.Color) Color {
	return Model.Convert(c).(Color)
}

// Image is an RGB565 image whose pixels are stored most significant byte
// first, two bytes per pixel.
type Image struct {
	Pix    []byte          // Pixel data in wire order
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewImage creates an Image with the specified bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y), or Black outside the bounds.
func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	i := p.PixOffset(x, y)
	return Color(uint16(p.Pix[i])<<8 | uint16(p.Pix[i+1]))
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Convert(c))
}

// SetRGB565 sets the pixel at (x, y) without color conversion.
func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = byte(c >> 8)
	p.Pix[i+1] = byte(c)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// Row returns the wire-order bytes of row y between x0 and x1 (exclusive).
// The slice aliases Pix.
func (p *Image) Row(y, x0, x1 int) []byte {
	return p.Pix[p.PixOffset(x0, y):p.PixOffset(x1, y)]
}
