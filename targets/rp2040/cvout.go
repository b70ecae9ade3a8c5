//go:build rp2040 || rp2350

package main

import (
	"machine"

	"monovox/cv"
)

// pwmPeriodNs sets the PWM carrier period. 25µs (40kHz) keeps the carrier
// far above the RC filter cutoff while leaving >3000 counts of resolution.
const pwmPeriodNs = 25000

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// PWMVoltageOutput drives the two CV outputs as filtered PWM. Both pins
// must map to the same PWM slice (even/odd pair on the RP2040) so one
// period configuration covers both channels. The board's output stage
// low-passes and scales the duty cycle into the 0-5V CV range.
type PWMVoltageOutput struct {
	pins     [2]machine.Pin
	pwm      pwmPeripheral
	channels [2]uint8
	top      uint32
}

// NewPWMVoltageOutput creates the output for the given pitch and aux pins.
func NewPWMVoltageOutput(pitchPin, auxPin machine.Pin) *PWMVoltageOutput {
	return &PWMVoltageOutput{pins: [2]machine.Pin{pitchPin, auxPin}}
}

// Configure sets up the shared PWM slice and resolves both channels.
func (o *PWMVoltageOutput) Configure() error {
	// GPIO pin N maps to slice (N >> 1) & 0x7
	slice := uint8((uint32(o.pins[0]) >> 1) & 0x7)
	o.pwm = pwmForSlice(slice)

	if err := o.pwm.Configure(machine.PWMConfig{Period: pwmPeriodNs}); err != nil {
		return err
	}
	o.top = o.pwm.Top()

	for i, pin := range o.pins {
		ch, err := o.pwm.Channel(pin)
		if err != nil {
			return err
		}
		o.channels[i] = ch
	}

	// Both outputs start at 0V
	o.SetVoltage(cv.ChannelA, 0)
	o.SetVoltage(cv.ChannelB, 0)
	return nil
}

// SetVoltage writes a voltage to one channel, clamped to 0..MaxVoltage.
func (o *PWMVoltageOutput) SetVoltage(ch cv.Channel, volts float32) {
	if o.pwm == nil {
		return
	}
	if volts < 0 {
		volts = 0
	} else if volts > cv.MaxVoltage {
		volts = cv.MaxVoltage
	}

	duty := uint32(volts / cv.MaxVoltage * float32(o.top))
	o.pwm.Set(o.channels[ch], duty)
}

// pwmForSlice returns the PWM peripheral for a slice number (0-7).
func pwmForSlice(slice uint8) pwmPeripheral {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
