package midi

// parserState tracks progress through a channel voice message.
type parserState uint8

const (
	stateIdle parserState = iota
	stateAwaitData1
	stateAwaitData2
)

// NoteHandler receives note on/off events. Channel is 1-16.
type NoteHandler func(note, velocity, channel uint8)

// ControlChangeHandler receives control change events. Channel is 1-16.
type ControlChangeHandler func(controller, value, channel uint8)

// PitchBendHandler receives pitch bend events with the 14-bit value
// re-centered to the signed range -8192..8191 (0 = center). Channel is 1-16.
type PitchBendHandler func(value int16, channel uint8)

// RealtimeHandler receives system real-time status bytes (0xF8-0xFF).
type RealtimeHandler func(status uint8)

// Parser reconstructs MIDI channel voice messages from an arbitrary byte
// stream, including running-status compression, and delivers them through
// typed handlers.
//
// Feed is bounded-time and allocation-free, so it may be called directly
// from an interrupt context. Handlers run inside Feed and inherit that
// constraint: keep them short.
type Parser struct {
	state         parserState
	runningStatus uint8
	currentStatus uint8
	data          [2]uint8
	expectedData  uint8

	channelFilter uint8 // 1-16
	omni          bool

	noteOn        NoteHandler
	noteOff       NoteHandler
	controlChange ControlChangeHandler
	pitchBend     PitchBendHandler
	realtime      RealtimeHandler
}

// NewParser creates a parser listening on the given channel (1-16, clamped).
// With omni set the channel filter is bypassed.
func NewParser(channel uint8, omni bool) *Parser {
	p := &Parser{omni: omni}
	p.SetChannel(channel)
	p.Reset()
	return p
}

// Reset clears all parse state including running status. Used to recover
// from transport errors (framing/parity) reported by the byte source.
func (p *Parser) Reset() {
	p.state = stateIdle
	p.runningStatus = 0
	p.currentStatus = 0
	p.data[0] = 0
	p.data[1] = 0
	p.expectedData = 0
}

// SetChannel sets the channel filter, clamped to 1-16.
func (p *Parser) SetChannel(ch uint8) {
	if ch < MinChannel {
		ch = MinChannel
	} else if ch > MaxChannel {
		ch = MaxChannel
	}
	p.channelFilter = ch
}

// Channel returns the current channel filter (1-16).
func (p *Parser) Channel() uint8 {
	return p.channelFilter
}

// SetOmni enables or disables omni mode (accept all channels).
func (p *Parser) SetOmni(enabled bool) {
	p.omni = enabled
}

// Omni reports whether omni mode is enabled.
func (p *Parser) Omni() bool {
	return p.omni
}

// SetNoteOnHandler sets the handler for note on events.
func (p *Parser) SetNoteOnHandler(h NoteHandler) {
	p.noteOn = h
}

// SetNoteOffHandler sets the handler for note off events. Note on with
// velocity 0 is delivered here, per MIDI convention.
func (p *Parser) SetNoteOffHandler(h NoteHandler) {
	p.noteOff = h
}

// SetControlChangeHandler sets the handler for control change events.
func (p *Parser) SetControlChangeHandler(h ControlChangeHandler) {
	p.controlChange = h
}

// SetPitchBendHandler sets the handler for pitch bend events.
func (p *Parser) SetPitchBendHandler(h PitchBendHandler) {
	p.pitchBend = h
}

// SetRealtimeHandler sets the handler for system real-time bytes.
func (p *Parser) SetRealtimeHandler(h RealtimeHandler) {
	p.realtime = h
}

// Feed consumes one byte of the stream. Messages split across any number of
// Feed calls decode identically to messages fed back to back.
func (p *Parser) Feed(b byte) {
	// Real-time bytes are dispatched inline and never disturb an
	// in-progress message or the running status.
	if IsRealtime(b) {
		if p.realtime != nil {
			p.realtime(b)
		}
		return
	}

	// System common (SysEx etc.) is not decoded; it terminates any partial
	// message and cancels running status.
	if isSystemCommon(b) {
		p.Reset()
		return
	}

	if isStatusByte(b) {
		p.currentStatus = b
		p.runningStatus = b
		p.expectedData = expectedDataBytes(b)

		if p.expectedData == 0 {
			p.dispatch()
			p.state = stateIdle
		} else {
			p.state = stateAwaitData1
		}
		return
	}

	// Data byte
	switch p.state {
	case stateIdle:
		if p.runningStatus == 0 {
			// Stray data byte with no status to attach to
			p.Reset()
			return
		}
		// Running status: behave as if the last status byte was repeated
		p.currentStatus = p.runningStatus
		p.expectedData = expectedDataBytes(p.currentStatus)
		p.data[0] = b
		if p.expectedData == 1 {
			p.dispatch()
			p.state = stateIdle
		} else {
			p.state = stateAwaitData2
		}

	case stateAwaitData1:
		p.data[0] = b
		if p.expectedData == 1 {
			p.dispatch()
			p.state = stateIdle
		} else {
			p.state = stateAwaitData2
		}

	case stateAwaitData2:
		p.data[1] = b
		p.dispatch()
		p.state = stateIdle
	}
}

// accepts applies the channel filter to a message channel (0-15).
func (p *Parser) accepts(messageChannel uint8) bool {
	if p.omni {
		return true
	}
	return messageChannel+1 == p.channelFilter
}

// dispatch delivers the completed message. Filtering happens here, after the
// message is fully parsed, so a discarded message still consumes its bytes
// and updates running status.
func (p *Parser) dispatch() {
	msgChannel := statusChannel(p.currentStatus)
	if !p.accepts(msgChannel) {
		return
	}
	channel := msgChannel + 1

	switch statusType(p.currentStatus) {
	case MsgNoteOn:
		note, velocity := p.data[0], p.data[1]
		if velocity == 0 {
			// Note on with velocity 0 means note off
			if p.noteOff != nil {
				p.noteOff(note, velocity, channel)
			}
		} else if p.noteOn != nil {
			p.noteOn(note, velocity, channel)
		}

	case MsgNoteOff:
		if p.noteOff != nil {
			p.noteOff(p.data[0], p.data[1], channel)
		}

	case MsgControlChange:
		if p.controlChange != nil {
			p.controlChange(p.data[0], p.data[1], channel)
		}

	case MsgPitchBend:
		if p.pitchBend != nil {
			// data[0] = low 7 bits, data[1] = high 7 bits; 8192 = center
			bend := uint16(p.data[1])<<7 | uint16(p.data[0])
			p.pitchBend(int16(bend)-8192, channel)
		}
	}
}

// expectedDataBytes returns the data byte count for a status byte. Message
// types that are not decoded expect none and dispatch (to nothing) at once.
func expectedDataBytes(status byte) uint8 {
	switch statusType(status) {
	case MsgNoteOn, MsgNoteOff, MsgControlChange, MsgPitchBend:
		return 2
	default:
		return 0
	}
}
