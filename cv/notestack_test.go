package cv

import "testing"

func TestLastNotePriority(t *testing.T) {
	s := NewNoteStack()

	s.NoteOn(60, 100)
	s.NoteOn(64, 90)

	if note, _ := s.Sounding(); note != 64 {
		t.Errorf("Expected most recent note 64 to sound, got %d", note)
	}

	s.NoteOff(64)
	if note, _ := s.Sounding(); note != 60 {
		t.Errorf("After releasing 64, expected 60 to sound, got %d", note)
	}

	s.NoteOff(60)
	if s.Held() != 0 {
		t.Errorf("Expected 0 held notes, got %d", s.Held())
	}
	// Latched: the pitch stays on the last sounding note after full release
	if note, _ := s.Sounding(); note != 60 {
		t.Errorf("Expected latched note 60, got %d", note)
	}

	s.NoteOn(72, 80)
	if note, _ := s.Sounding(); note != 72 {
		t.Errorf("New note on should replace the latch, got %d", note)
	}
}

func TestNoteOnIdempotent(t *testing.T) {
	s := NewNoteStack()

	s.NoteOn(60, 100)
	s.NoteOn(60, 50)

	if s.Held() != 1 {
		t.Errorf("Duplicate note on should not grow the stack, held=%d", s.Held())
	}
	if _, velocity := s.Sounding(); velocity != 100 {
		t.Errorf("Duplicate note on should not change the entry, velocity=%d", velocity)
	}
}

func TestNoteOffUnknownNote(t *testing.T) {
	s := NewNoteStack()
	s.NoteOn(60, 100)

	s.NoteOff(61)

	if s.Held() != 1 {
		t.Errorf("Releasing an untracked note must be a no-op, held=%d", s.Held())
	}
}

func TestNoteOffMiddleCompacts(t *testing.T) {
	s := NewNoteStack()
	s.NoteOn(60, 1)
	s.NoteOn(64, 2)
	s.NoteOn(67, 3)

	s.NoteOff(64)

	if s.Held() != 2 {
		t.Fatalf("Expected 2 held notes, got %d", s.Held())
	}
	if note, _ := s.Sounding(); note != 67 {
		t.Errorf("Top of stack should survive middle removal, got %d", note)
	}

	s.NoteOff(67)
	if note, _ := s.Sounding(); note != 60 {
		t.Errorf("Remaining order must be preserved, got %d", note)
	}
}

func TestCapacityOverflowDropsNewNote(t *testing.T) {
	s := NewNoteStack()

	for n := 0; n < 26; n++ {
		s.NoteOn(uint8(40+n), 100)
	}

	if s.Held() != 25 {
		t.Errorf("Expected 25 held notes, got %d", s.Held())
	}
	// The 26th note (40+25=65) was dropped, not an older one stolen
	if note, _ := s.Sounding(); note != 64 {
		t.Errorf("Expected note 64 on top (26th dropped), got %d", note)
	}
	s.NoteOff(65)
	if s.Held() != 25 {
		t.Errorf("Dropped note must not be tracked, held=%d", s.Held())
	}
}

func TestResetLatchesZeroVoltNote(t *testing.T) {
	s := NewNoteStack()
	s.NoteOn(60, 100)

	s.Reset()

	if s.Held() != 0 {
		t.Errorf("Expected empty stack after reset, held=%d", s.Held())
	}
	if note, _ := s.Sounding(); note != ZeroVoltNote {
		t.Errorf("Reset should latch note %d, got %d", ZeroVoltNote, note)
	}
}
