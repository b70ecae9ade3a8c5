//go:build rp2040 || rp2350

package main

import "machine"

// GatePin drives the gate output on a GPIO pin.
type GatePin struct {
	pin machine.Pin
}

// NewGatePin configures the pin as output, starting low.
func NewGatePin(pin machine.Pin) *GatePin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &GatePin{pin: pin}
}

// Set drives the gate high or low.
func (g *GatePin) Set(high bool) {
	g.pin.Set(high)
}
