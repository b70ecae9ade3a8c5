// Package midi decodes a raw MIDI byte stream into channel voice events.
package midi

// Status byte types for channel voice messages (upper nibble)
const (
	MsgNoteOff       = 0x80
	MsgNoteOn        = 0x90
	MsgControlChange = 0xB0
	MsgPitchBend     = 0xE0
)

// Byte classification constants
const (
	statusTypeMask  = 0xF0
	channelMask     = 0x0F
	realtimeMin     = 0xF8
	systemCommonMin = 0xF0
	systemCommonMax = 0xF7
)

// Channel filter range accepted by the parser
const (
	MinChannel = 1
	MaxChannel = 16
)

func isStatusByte(b byte) bool {
	return b&0x80 != 0
}

// IsRealtime reports whether b is a system real-time byte (0xF8-0xFF).
// Real-time bytes may appear anywhere in the stream, including between the
// status and data bytes of another message.
func IsRealtime(b byte) bool {
	return b >= realtimeMin
}

func isSystemCommon(b byte) bool {
	return b >= systemCommonMin && b <= systemCommonMax
}

// statusType returns the message type nibble of a status byte.
func statusType(status byte) byte {
	return status & statusTypeMask
}

// statusChannel returns the embedded channel of a status byte (0-15).
func statusChannel(status byte) byte {
	return status & channelMask
}
