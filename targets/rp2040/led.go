//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

// Raw GRB colors for the WS2812B (green in the high byte)
const (
	ledOff      = 0x000000FF
	ledGateOn   = 0xFF0000FF // green
	ledActivity = 0x0000FFFF // blue
)

const activityHold = 30 * time.Millisecond

// StatusLED drives a single WS2812B pixel through a PIO state machine.
// Gate state sets the steady color; MIDI activity overrides it briefly.
type StatusLED struct {
	ws         *piolib.WS2812B
	current    uint32
	activityAt time.Time
}

// NewStatusLED claims a PIO state machine for the pixel on the given pin.
func NewStatusLED(pin machine.Pin) *StatusLED {
	sm, _ := pio.PIO0.ClaimStateMachine()
	ws, _ := piolib.NewWS2812B(sm, pin)
	ws.EnableDMA(true)
	led := &StatusLED{ws: ws}
	led.write(ledOff)
	return led
}

// Activity flashes the LED for the next few Sync calls.
func (l *StatusLED) Activity() {
	l.activityAt = time.Now()
}

// Sync updates the pixel from the gate state, honoring a recent Activity.
func (l *StatusLED) Sync(gateOn bool) {
	c := uint32(ledOff)
	if gateOn {
		c = ledGateOn
	}
	if time.Since(l.activityAt) < activityHold {
		c = ledActivity
	}
	l.write(c)
}

func (l *StatusLED) write(c uint32) {
	if c == l.current {
		return
	}
	l.current = c
	l.ws.WriteRaw([]uint32{c})
}
