package tftspi

import "time"

// MADCTL bits.
const (
	madctlMY  = 0x80
	madctlMX  = 0x40
	madctlMV  = 0x20
	madctlBGR = 0x08
	madctlRGB = 0x00
)

// Sender is the channel a Controller uses to send its init sequence.
type Sender interface {
	// Command sends cmd followed by its parameter bytes.
	Command(cmd byte, args ...byte) error
	Sleep(t time.Duration)
}

// Controller is a TFT controller command set.
//
// Init sends the power-up sequence. It must leave the panel awake, in 16-bit
// color mode, with the display on. MemoryAccess returns the MADCTL value for
// a rotation.
type Controller interface {
	Init(s Sender) error
	MemoryAccess(r Rotation) byte
}

var (
	// ST7789 is the Sitronix ST7789 command set.
	ST7789 Controller = st7789{}
	// ILI9341 is the Ilitek ILI9341 command set.
	ILI9341 Controller = ili9341{}
)

type st7789 struct{}

func (st7789) String() string { return "ST7789" }

func (st7789) MemoryAccess(r Rotation) byte {
	switch r % 4 {
	case Rotation90:
		return madctlMX | madctlMV | madctlRGB
	case Rotation180:
		return madctlMX | madctlMY | madctlRGB
	case Rotation270:
		return madctlMV | madctlMY | madctlRGB
	default:
		return madctlRGB
	}
}

func (st7789) Init(s Sender) error {
	s.Sleep(5 * time.Millisecond)
	if err := s.Command(cmdSWRESET); err != nil {
		return err
	}
	s.Sleep(250 * time.Millisecond)

	seq := []struct {
		cmd  byte
		args []byte
	}{
		{cmdCOLMOD, []byte{0x55}},                         // 16-bit color
		{0xB2, []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}},      // Porch control
		{0xB7, []byte{0x35}},                              // Gate control
		{0xBB, []byte{0x19}},                              // VCOM
		{0xC0, []byte{0x2C}},                              // LCM control
		{0xC2, []byte{0x01}},                              // VDV and VRH enable
		{0xC3, []byte{0x12}},                              // VRH
		{0xC4, []byte{0x20}},                              // VDV
		{0xC6, []byte{0x02}},                              // Frame rate 105Hz
		{0xD0, []byte{0xA4, 0xA1}},                        // Power control 1
		{0xE0, []byte{0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F, 0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23}},
		{0xE1, []byte{0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F, 0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23}},
		{cmdINVON, nil},
		{cmdSLPOUT, nil},
		{cmdNORON, nil},
		{cmdDISPON, nil},
	}
	for _, c := range seq {
		if err := s.Command(c.cmd, c.args...); err != nil {
			return err
		}
	}
	s.Sleep(50 * time.Millisecond)
	return nil
}

type ili9341 struct{}

func (ili9341) String() string { return "ILI9341" }

func (ili9341) MemoryAccess(r Rotation) byte {
	switch r % 4 {
	case Rotation90:
		return madctlMV | madctlBGR
	case Rotation180:
		return madctlMY | madctlBGR
	case Rotation270:
		return madctlMX | madctlMY | madctlMV | madctlBGR
	default:
		return madctlMX | madctlBGR
	}
}

func (ili9341) Init(s Sender) error {
	s.Sleep(5 * time.Millisecond)
	if err := s.Command(cmdSWRESET); err != nil {
		return err
	}
	s.Sleep(150 * time.Millisecond)

	seq := []struct {
		cmd  byte
		args []byte
	}{
		{0xCB, []byte{0x39, 0x2C, 0x00, 0x34, 0x02}}, // Power control A
		{0xCF, []byte{0x00, 0xC1, 0x30}},             // Power control B
		{0xE8, []byte{0x85, 0x00, 0x78}},             // Driver timing control A
		{0xEA, []byte{0x00, 0x00}},                   // Driver timing control B
		{0xED, []byte{0x64, 0x03, 0x12, 0x81}},       // Power on sequence
		{0xF7, []byte{0x20}},                         // Pump ratio
		{0xC0, []byte{0x23}},                         // Power control 1
		{0xC1, []byte{0x10}},                         // Power control 2
		{0xC5, []byte{0x3E, 0x28}},                   // VCM control 1
		{0xC7, []byte{0x86}},                         // VCM control 2
		{cmdCOLMOD, []byte{0x55}},                    // 16-bit color
		{0xB1, []byte{0x00, 0x18}},                   // Frame rate
		{0xB6, []byte{0x08, 0x82, 0x27}},             // Display function control
		{0xF2, []byte{0x00}},                         // 3-gamma off
		{0x26, []byte{0x01}},                         // Gamma curve 1
		{0xE0, []byte{0x0F, 0x31, 0x2B, 0x0C, 0x0E, 0x08, 0x4E, 0xF1, 0x37, 0x07, 0x10, 0x03, 0x0E, 0x09, 0x00}},
		{0xE1, []byte{0x00, 0x0E, 0x14, 0x03, 0x11, 0x07, 0x31, 0xC1, 0x48, 0x08, 0x0F, 0x0C, 0x31, 0x36, 0x0F}},
	}
	for _, c := range seq {
		if err := s.Command(c.cmd, c.args...); err != nil {
			return err
		}
	}
	if err := s.Command(cmdSLPOUT); err != nil {
		return err
	}
	s.Sleep(120 * time.Millisecond)
	return s.Command(cmdDISPON)
}
