// Package cv turns decoded MIDI note events into a monophonic pitch CV and
// gate signal pair for an external synthesizer voice.
package cv

// noteStackSize bounds the number of simultaneously held keys tracked.
const noteStackSize = 25

// ZeroVoltNote is the MIDI note mapped to 0V on the pitch output (C1).
const ZeroVoltNote = 24

type stackEntry struct {
	note     uint8
	velocity uint8
}

// NoteStack tracks held notes with last-note priority. The most recently
// pressed still-held note is the one that sounds. When every note has been
// released the last sounding entry stays latched, so the pitch output does
// not jump on the final release; only a new note on (or Reset) changes it.
type NoteStack struct {
	entries [noteStackSize]stackEntry
	count   int
	last    stackEntry
}

// NewNoteStack returns an empty stack latched to the zero-volt note.
func NewNoteStack() *NoteStack {
	s := &NoteStack{}
	s.Reset()
	return s
}

// NoteOn appends a held note. Duplicate note numbers are ignored, and a note
// arriving on a full stack is silently dropped rather than stealing an older
// entry.
func (s *NoteStack) NoteOn(note, velocity uint8) {
	if s.find(note) >= 0 {
		return
	}
	if s.count >= noteStackSize {
		return
	}
	s.entries[s.count] = stackEntry{note: note, velocity: velocity}
	s.count++
	s.last = s.entries[s.count-1]
}

// NoteOff releases a held note, compacting the stack so the relative order
// of the remaining notes is preserved. Releasing an untracked note is a
// no-op.
func (s *NoteStack) NoteOff(note uint8) {
	i := s.find(note)
	if i < 0 {
		return
	}
	copy(s.entries[i:s.count-1], s.entries[i+1:s.count])
	s.count--
	s.entries[s.count] = stackEntry{}
	if s.count > 0 {
		// The note now on top becomes the latched pitch; releasing the
		// final note deliberately leaves the previous latch in place.
		s.last = s.entries[s.count-1]
	}
}

// Held returns the number of currently held notes.
func (s *NoteStack) Held() int {
	return s.count
}

// Sounding returns the note and velocity that should currently sound: the
// most recently pressed held note, or the latched last value when nothing
// is held.
func (s *NoteStack) Sounding() (note, velocity uint8) {
	return s.last.note, s.last.velocity
}

// Reset drops all held notes and latches the zero-volt note.
func (s *NoteStack) Reset() {
	s.count = 0
	for i := range s.entries {
		s.entries[i] = stackEntry{}
	}
	s.last = stackEntry{note: ZeroVoltNote, velocity: 0}
}

func (s *NoteStack) find(note uint8) int {
	for i := 0; i < s.count; i++ {
		if s.entries[i].note == note {
			return i
		}
	}
	return -1
}
