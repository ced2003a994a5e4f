// Package rgb565 provides the 16-bit packed pixel format used by SPI TFT
// controllers such as the ST7789 and the ILI9341.
//
// A Color is stored as rrrrrggggggbbbbb: 5 bits of red, 6 bits of green and
// 5 bits of blue. On the wire the controllers expect each pixel most
// significant byte first, so Image keeps its pixels in that order and can be
// streamed without conversion.
//
// Memory layout example for a 2-pixel row:
//
//	Pixels: 0      1
//	Colors: 0xF800 0x001F   (red, blue)
//	Bytes:  F8 00  00 1F
//
// Conversions:
//
// - RGB packs 8-bit channels by truncation; it is lossless at 565 precision.
// - Color.To8 and From8 move to and from an 8-bit RRRGGGBB palette. They are
// approximations and not inverses of each other: a round trip drops the low
// bits of every channel.
// - Blend mixes two colors with an 8-bit alpha in fixed point.
//
// Example usage:
//
//	img := rgb565.NewImage(image.Rect(0, 0, 32, 32))
//	img.SetRGB565(4, 4, rgb565.RGB(0xFF, 0x80, 0x00))
//	draw.Draw(img, img.Bounds(), image.NewUniform(rgb565.Navy), image.Point{}, draw.Src)
package rgb565
