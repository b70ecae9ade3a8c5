package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort is a Port backed by a real serial device via tarm/serial.
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens the serial device described by cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

// Read reads raw MIDI bytes from the device. With a ReadTimeout configured,
// an idle line surfaces as (0, io.EOF) once per timeout interval.
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write sends raw MIDI bytes to the device.
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port.
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush is a no-op: tarm/serial exposes no buffer control, and stale input
// is harmless to the decoder, which resyncs on the next status byte.
func (p *NativePort) Flush() error {
	return nil
}
