//go:build rp2040 || rp2350

package main

import (
	"machine"
	"sync/atomic"
	"time"
)

var midiUART = machine.UART1

// initMIDIUART configures the MIDI input UART: 31250 baud, 8 data bits,
// 1 stop bit, no parity, receive only.
func initMIDIUART() {
	midiUART.Configure(machine.UARTConfig{
		BaudRate: 31250,
		RX:       pinMIDIRx,
		TX:       machine.NoPin,
	})
}

// midiReaderLoop is the producer side of the ring buffer: it moves bytes
// from the UART into the queue and never touches the parser directly.
// UART read errors are surfaced through the rxError flag so the main loop
// can reset the decoder between messages.
func midiReaderLoop() {
	for {
		if midiUART.Buffered() == 0 {
			// Yield; at 31250 baud a byte takes 320µs on the wire
			time.Sleep(100 * time.Microsecond)
			continue
		}

		b, err := midiUART.ReadByte()
		if err != nil {
			atomic.StoreUint32(&rxError, 1)
			continue
		}

		atomic.AddUint32(&bytesReceived, 1)
		if !queue.Push(b) {
			// Queue full: drop the byte, count it, keep running
			atomic.AddUint32(&overruns, 1)
		}
	}
}
