package cv

// Channel selects one of the two continuous voltage outputs.
type Channel uint8

const (
	ChannelA Channel = iota
	ChannelB
)

// MaxVoltage is the top of the CV output span in volts. Aux values derived
// from 7-bit MIDI data (velocity, mod wheel) are scaled into 0..MaxVoltage.
const MaxVoltage float32 = 5.0

// VoltageOutput is a continuous voltage sink, typically a DAC or filtered
// PWM pair. Implementations are expected to clamp to their supported range
// and to be configured for DC-coupled pass-through so the pitch voltage is
// not attenuated.
type VoltageOutput interface {
	SetVoltage(ch Channel, volts float32)
}

// GateOutput is a binary sink reflecting "at least one note is held".
type GateOutput interface {
	Set(high bool)
}

// NoteVoltage converts a MIDI note to 1V-per-octave pitch voltage, with
// ZeroVoltNote at 0V.
func NoteVoltage(note uint8) float32 {
	return (float32(note) - ZeroVoltNote) / 12.0
}

// midiValueToVoltage scales a 7-bit MIDI value into the CV output span.
func midiValueToVoltage(value uint8) float32 {
	return float32(value) * MaxVoltage / 127.0
}
