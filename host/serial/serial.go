// Package serial is the host-side link to the converter board: a raw byte
// stream carrying MIDI at the hardware wire rate.
package serial

import (
	"io"
)

// Port is the byte stream a connected converter shows up as. The native
// implementation wraps a real serial device; code that only consumes bytes
// (the monitor) can take any io.Reader instead and stay port-agnostic.
type Port interface {
	io.ReadWriteCloser

	// Flush drops any driver-buffered input so decoding starts clean.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate. Hardware MIDI runs at 31250; USB serial bridges
	// typically ignore the value.
	Baud int

	// Read timeout in milliseconds (0 = blocking). A timeout keeps the
	// monitor's read loop responsive on an idle MIDI line.
	ReadTimeout int
}

// DefaultConfig returns a configuration at MIDI line rate.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        31250,
		ReadTimeout: 100,
	}
}
