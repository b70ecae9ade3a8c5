//go:build rp2040 || rp2350

package main

import (
	"image/color"
	"machine"
	"strconv"

	"tinygo.org/x/drivers/encoders"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"monovox/cv"
)

var textWhite = color.RGBA{255, 255, 255, 255}

// Panel is the front-panel UI: a rotary encoder that selects the MIDI
// channel, its push button cycling the aux CV mode, and a 128x64 OLED
// showing the converter state. Scan handles input, Redraw the display.
type Panel struct {
	conv    *cv.Converter
	enc     *encoders.QuadratureDevice
	button  machine.Pin
	display ssd1306.Device

	lastPos    int
	btnWasDown bool

	// Last drawn state, to skip redundant I2C traffic
	drawnChannel uint8
	drawnMode    cv.Mode
	drawnNote    uint8
	drawnGate    bool
	dirty        bool
}

// NewPanel configures the encoder, button and display.
func NewPanel(conv *cv.Converter) *Panel {
	enc := encoders.NewQuadratureViaInterrupt(pinEncA, pinEncB)
	enc.Configure(encoders.QuadratureConfig{
		Precision: 4,
	})

	button := pinEncBtn
	button.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	i2c := machine.I2C0
	i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       pinOLEDSDA,
		SCL:       pinOLEDSCL,
	})

	display := ssd1306.NewI2C(i2c)
	display.Configure(ssd1306.Config{
		Address: 0x3C,
		Width:   128,
		Height:  64,
	})
	display.ClearDisplay()

	return &Panel{
		conv:    conv,
		enc:     enc,
		button:  button,
		display: display,
		lastPos: enc.Position(),
		dirty:   true,
	}
}

// Scan reads the encoder and button and applies changes to the converter.
func (p *Panel) Scan() {
	if pos := p.enc.Position(); pos != p.lastPos {
		ch := int(p.conv.MIDIChannel())
		if pos > p.lastPos {
			ch++
		} else {
			ch--
		}
		// Wrap around the 1-16 channel range
		if ch > 16 {
			ch = 1
		} else if ch < 1 {
			ch = 16
		}
		p.conv.SetMIDIChannel(uint8(ch))
		p.lastPos = pos
	}

	// Active-low button; act on the press edge only
	down := !p.button.Get()
	if down && !p.btnWasDown {
		switch p.conv.Mode() {
		case cv.ModeVelocity:
			p.conv.SetMode(cv.ModeUnison)
		case cv.ModeUnison:
			p.conv.SetMode(cv.ModeModWheel)
		default:
			p.conv.SetMode(cv.ModeVelocity)
		}
	}
	p.btnWasDown = down
}

// Redraw repaints the display when converter state changed since last call.
func (p *Panel) Redraw() {
	channel := p.conv.MIDIChannel()
	mode := p.conv.Mode()
	note := p.conv.Sounding()
	gate := p.conv.GateOn()

	if !p.dirty && channel == p.drawnChannel && mode == p.drawnMode &&
		note == p.drawnNote && gate == p.drawnGate {
		return
	}
	p.drawnChannel = channel
	p.drawnMode = mode
	p.drawnNote = note
	p.drawnGate = gate
	p.dirty = false

	p.display.ClearBuffer()

	tinyfont.WriteLine(&p.display, &proggy.TinySZ8pt7b, 4, 12,
		"CH "+strconv.Itoa(int(channel)), textWhite)
	tinyfont.WriteLine(&p.display, &proggy.TinySZ8pt7b, 64, 12,
		modeLabel(mode), textWhite)

	noteLine := "NOTE " + strconv.Itoa(int(note))
	if gate {
		noteLine += " *"
	}
	tinyfont.WriteLine(&p.display, &proggy.TinySZ8pt7b, 4, 36, noteLine, textWhite)

	p.display.Display()
}

func modeLabel(m cv.Mode) string {
	switch m {
	case cv.ModeUnison:
		return "UNISON"
	case cv.ModeModWheel:
		return "MODWHEEL"
	default:
		return "VELOCITY"
	}
}
