// Package tftspi drives ST7789 and ILI9341 TFT controllers over SPI.
//
// The controllers have no framebuffer on the host side: every primitive
// programs an address window on the panel (CASET, RASET) and streams RGB565
// pixels into it (RAMWR). The driver keeps only a fixed scratch buffer, sized
// once at construction, and splits larger payloads into chunks of that size.
// This driver implements the display.Drawer interface from periph.io and the
// drivers.Displayer interface from TinyGo.
//
// # Features
//
// - Four rotations, with logical width and height swapped at 90° and 270°
// - Address window cache: unchanged column or row ranges are not re-sent
// - Lines, rectangles, rounded rectangles, circles, ellipses and triangles
// - Anti-aliased wedge lines with per-end radius, and the shapes built on them
// - Fixed-cell bitmap text with a cursor, plus any tinyfont.Fonter
// - Pixel read-back through RAMRD when the bus can read
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	SDO/MISO    → SPI Data (MISO), only for read-back
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select, or a GPIO handed to NewConnBus
//	RST         → Optional: GPIO for hardware reset
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//
//		"github.com/flavioheleno/tftspi"
//		"github.com/flavioheleno/tftspi/rgb565"
//	)
//
//	func main() {
//		host.Init()
//
//		p, _ := spireg.Open("")
//		dc := gpioreg.ByName("GPIO25")
//
//		dev, _ := tftspi.NewSPI(p, dc, &tftspi.Opts{
//			Controller: tftspi.ILI9341,
//			Rotation:   tftspi.Rotation90,
//		})
//		defer dev.Halt()
//
//		dev.FillScreen(rgb565.Black)
//		dev.DrawWideLine(10, 10, 200, 120, 3, rgb565.Yellow)
//		dev.FillCircle(160, 120, 40, rgb565.Red)
//	}
//
// # Errors
//
// Drawing outside the logical bounds is not an error: the primitive is
// clipped or dropped without any bus traffic. The first bus error inside a
// call stops the remaining transfers of that call and is returned. SetPixel
// has no error result, so its error is kept and returned by the next
// Display call.
//
// # Transports
//
// Dev talks to the panel through the Bus interface. NewConnBus adapts a
// periph.io conn.Conn with a DC pin and runs bulk transfers on a goroutine
// joined by Wait; NewDriversBus adapts a TinyGo drivers.SPI. The panelsim
// package provides an in-memory panel behind the same interface.
package tftspi
