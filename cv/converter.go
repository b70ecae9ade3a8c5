package cv

import "monovox/midi"

// Mode selects what the second voltage channel carries alongside the pitch.
type Mode uint8

const (
	// ModeVelocity puts the sounding note's velocity on the aux channel.
	ModeVelocity Mode = iota
	// ModeUnison mirrors the pitch voltage on the aux channel.
	ModeUnison
	// ModeModWheel puts the mod wheel position (CC 1) on the aux channel.
	ModeModWheel
)

// EventTap observes note events after the converter has processed them.
type EventTap func(note, velocity, channel uint8)

// Config carries the initial converter settings.
type Config struct {
	// MIDIChannel is the channel filter (1-16, clamped).
	MIDIChannel uint8
	// Omni bypasses the channel filter.
	Omni bool
	// PitchChannel selects which voltage output carries the pitch CV;
	// the other channel becomes the aux output.
	PitchChannel Channel
	// Mode selects the aux channel source.
	Mode Mode
}

// Converter wires the MIDI parser into the note stack and drives the
// voltage and gate sinks. It owns its parser and stack; the ring buffer and
// both sinks are borrowed, supplied at construction.
//
// All methods run in the cooperative context. The byte producer interacts
// with the converter only through the shared ring buffer (or by calling
// Feed directly when no queue is involved).
type Converter struct {
	parser *midi.Parser
	stack  *NoteStack
	queue  *midi.RingBuffer
	dac    VoltageOutput
	gate   GateOutput

	pitchChannel Channel
	auxChannel   Channel
	mode         Mode

	gateOn    bool
	voltage   float32
	modWheel  uint8
	pitchBend int16

	noteOnTap  EventTap
	noteOffTap EventTap
	ccTap      func(controller, value, channel uint8)
}

// NewConverter creates a converter draining queue into the given sinks.
// Both outputs are initialized low/zero.
func NewConverter(queue *midi.RingBuffer, dac VoltageOutput, gate GateOutput, cfg Config) *Converter {
	c := &Converter{
		parser: midi.NewParser(cfg.MIDIChannel, cfg.Omni),
		stack:  NewNoteStack(),
		queue:  queue,
		dac:    dac,
		gate:   gate,
		mode:   cfg.Mode,
	}

	c.parser.SetNoteOnHandler(c.noteOn)
	c.parser.SetNoteOffHandler(c.noteOff)
	c.parser.SetControlChangeHandler(c.controlChange)
	c.parser.SetPitchBendHandler(c.pitchBendChanged)

	c.setPitchChannel(cfg.PitchChannel)
	c.setGate(false)
	return c
}

// Update drains the ring buffer through the parser once. Call it from the
// main loop at a rate fast enough that the queue cannot overflow under
// worst-case MIDI bursts (queue capacity / incoming byte rate).
func (c *Converter) Update() {
	if c.queue == nil {
		return
	}
	for {
		b, ok := c.queue.Pop()
		if !ok {
			return
		}
		c.parser.Feed(b)
	}
}

// Feed injects a single byte directly, bypassing the queue. Bounded time,
// no allocation; callable from an interrupt context.
func (c *Converter) Feed(b byte) {
	c.parser.Feed(b)
}

// TransportError discards any partially parsed message. The serial receiver
// calls this when it reports a framing, parity or overrun error.
func (c *Converter) TransportError() {
	c.parser.Reset()
}

// Reset clears parser and note stack state, drops the gate and returns the
// pitch output to the latched default.
func (c *Converter) Reset() {
	c.parser.Reset()
	c.stack.Reset()
	c.setGate(false)
	c.refresh()
}

func (c *Converter) noteOn(note, velocity, channel uint8) {
	c.stack.NoteOn(note, velocity)
	c.refresh()
	c.setGate(true)

	if c.noteOnTap != nil {
		c.noteOnTap(note, velocity, channel)
	}
}

func (c *Converter) noteOff(note, velocity, channel uint8) {
	c.stack.NoteOff(note)
	c.refresh()
	if c.stack.Held() == 0 {
		c.setGate(false)
	}

	if c.noteOffTap != nil {
		c.noteOffTap(note, velocity, channel)
	}
}

func (c *Converter) controlChange(controller, value, channel uint8) {
	if controller == 1 {
		c.modWheel = value
		if c.mode == ModeModWheel {
			c.dac.SetVoltage(c.auxChannel, midiValueToVoltage(c.modWheel))
		}
	}

	if c.ccTap != nil {
		c.ccTap(controller, value, channel)
	}
}

func (c *Converter) pitchBendChanged(value int16, channel uint8) {
	// Latched for inspection only; the pitch CV tracks the note stack.
	c.pitchBend = value
}

// refresh recomputes both voltage outputs from the sounding note.
func (c *Converter) refresh() {
	note, velocity := c.stack.Sounding()
	c.voltage = NoteVoltage(note)
	c.dac.SetVoltage(c.pitchChannel, c.voltage)

	switch c.mode {
	case ModeUnison:
		c.dac.SetVoltage(c.auxChannel, c.voltage)
	case ModeModWheel:
		c.dac.SetVoltage(c.auxChannel, midiValueToVoltage(c.modWheel))
	default:
		c.dac.SetVoltage(c.auxChannel, midiValueToVoltage(velocity))
	}
}

func (c *Converter) setGate(on bool) {
	c.gate.Set(on)
	c.gateOn = on
}

func (c *Converter) setPitchChannel(ch Channel) {
	// Zero both outputs before swapping roles so a stale aux value never
	// lingers on the new pitch channel.
	c.dac.SetVoltage(ChannelA, 0)
	c.dac.SetVoltage(ChannelB, 0)

	c.pitchChannel = ch
	if ch == ChannelA {
		c.auxChannel = ChannelB
	} else {
		c.auxChannel = ChannelA
	}
}

// SetPitchChannel moves the pitch CV to the given output channel; the other
// channel becomes the aux output.
func (c *Converter) SetPitchChannel(ch Channel) {
	c.setPitchChannel(ch)
	c.refresh()
}

// SetMIDIChannel changes the channel filter (1-16, clamped).
func (c *Converter) SetMIDIChannel(ch uint8) {
	c.parser.SetChannel(ch)
}

// MIDIChannel returns the active channel filter.
func (c *Converter) MIDIChannel() uint8 {
	return c.parser.Channel()
}

// SetOmni enables or disables omni mode on the decoder.
func (c *Converter) SetOmni(enabled bool) {
	c.parser.SetOmni(enabled)
}

// Omni reports whether omni mode is enabled.
func (c *Converter) Omni() bool {
	return c.parser.Omni()
}

// SetMode changes the aux channel source and refreshes the outputs.
func (c *Converter) SetMode(m Mode) {
	c.mode = m
	c.refresh()
}

// Mode returns the active aux channel mode.
func (c *Converter) Mode() Mode {
	return c.mode
}

// GateOn reports whether the gate output is currently high.
func (c *Converter) GateOn() bool {
	return c.gateOn
}

// Voltage returns the last pitch voltage written to the sink.
func (c *Converter) Voltage() float32 {
	return c.voltage
}

// Held returns the number of currently held notes.
func (c *Converter) Held() int {
	return c.stack.Held()
}

// Sounding returns the note and velocity driving the outputs.
func (c *Converter) Sounding() (note, velocity uint8) {
	return c.stack.Sounding()
}

// PitchBend returns the last decoded pitch bend value (-8192..8191).
func (c *Converter) PitchBend() int16 {
	return c.pitchBend
}

// ModWheel returns the last mod wheel position (CC 1, 0-127).
func (c *Converter) ModWheel() uint8 {
	return c.modWheel
}

// SetNoteOnTap registers an observer for note on events.
func (c *Converter) SetNoteOnTap(tap EventTap) {
	c.noteOnTap = tap
}

// SetNoteOffTap registers an observer for note off events.
func (c *Converter) SetNoteOffTap(tap EventTap) {
	c.noteOffTap = tap
}

// SetControlChangeTap registers an observer for control change events.
func (c *Converter) SetControlChangeTap(tap func(controller, value, channel uint8)) {
	c.ccTap = tap
}

// SetRealtimeHandler forwards system real-time bytes (clock, start, stop)
// to the given handler. The converter itself ignores them.
func (c *Converter) SetRealtimeHandler(h midi.RealtimeHandler) {
	c.parser.SetRealtimeHandler(h)
}
