//go:build rp2040 || rp2350

// monovox firmware: monophonic MIDI-to-CV converter for RP2040 boards.
//
// A reader goroutine moves UART bytes into the ring buffer; the main loop
// drains the buffer through the converter and services the panel. The only
// state shared between the two contexts is the ring buffer and the rxError
// flag.
package main

import (
	"machine"
	"sync/atomic"
	"time"

	"monovox/cv"
	"monovox/midi"
)

// Board pin assignment
const (
	pinMIDIRx  = machine.GPIO9  // UART1 RX
	pinPitchCV = machine.GPIO14 // PWM slice 7 channel A
	pinAuxCV   = machine.GPIO15 // PWM slice 7 channel B
	pinGate    = machine.GPIO16
	pinLED     = machine.GPIO17 // WS2812B status LED
	pinEncA    = machine.GPIO2
	pinEncB    = machine.GPIO3
	pinEncBtn  = machine.GPIO4
	pinOLEDSDA = machine.GPIO12 // I2C0
	pinOLEDSCL = machine.GPIO13
)

const defaultMIDIChannel = 1

var (
	queue     *midi.RingBuffer
	converter *cv.Converter

	// rxError is set by the reader goroutine on UART errors and consumed
	// by the main loop (atomic: crosses execution contexts)
	rxError uint32

	// Debug counters
	bytesReceived uint32
	overruns      uint32
)

func main() {
	queue = midi.NewRingBuffer(midi.DefaultBufferSize)

	dac := NewPWMVoltageOutput(pinPitchCV, pinAuxCV)
	if err := dac.Configure(); err != nil {
		// CV output is the whole point; signal failure on the LED and halt
		blinkForever()
	}
	gate := NewGatePin(pinGate)

	converter = cv.NewConverter(queue, dac, gate, cv.Config{
		MIDIChannel:  defaultMIDIChannel,
		PitchChannel: cv.ChannelA,
		Mode:         cv.ModeVelocity,
	})

	led := NewStatusLED(pinLED)
	converter.SetNoteOnTap(func(note, velocity, channel uint8) {
		led.Activity()
	})

	panel := NewPanel(converter)

	initMIDIUART()
	go midiReaderLoop()

	lastPanel := time.Now()
	for {
		// Transport errors reported by the UART reader discard any
		// partial message before more bytes are decoded
		if atomic.SwapUint32(&rxError, 0) != 0 {
			converter.TransportError()
		}

		converter.Update()
		led.Sync(converter.GateOn())

		// Panel input and display are slow I2C traffic; keep them off
		// the per-byte path
		if time.Since(lastPanel) > 20*time.Millisecond {
			panel.Scan()
			panel.Redraw()
			lastPanel = time.Now()
		}

		time.Sleep(100 * time.Microsecond)
	}
}

// blinkForever signals an unrecoverable init failure on the bare LED pin.
func blinkForever() {
	pinLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		pinLED.High()
		time.Sleep(100 * time.Millisecond)
		pinLED.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
