package monitor

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"monovox/cv"
)

func TestNoteName(t *testing.T) {
	cases := []struct {
		note uint8
		want string
	}{
		{0, "C-1"},
		{24, "C1"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
	}
	for _, tc := range cases {
		if got := NoteName(tc.note); got != tc.want {
			t.Errorf("NoteName(%d): expected %s, got %s", tc.note, tc.want, got)
		}
	}
}

func TestModelDecodesBytes(t *testing.T) {
	m := New("test", &bytes.Buffer{}, cv.Config{MIDIChannel: 1})

	updated, _ := m.Update(byteMsg{0x90, 60, 100})
	m = updated.(Model)

	if !m.sinks.gate {
		t.Error("Gate sink should be high after a note on")
	}
	if m.stats.bytes != 3 {
		t.Errorf("Expected 3 bytes counted, got %d", m.stats.bytes)
	}
	if len(*m.lines) != 1 {
		t.Errorf("Expected one log line, got %d", len(*m.lines))
	}
}

func TestReadLoopEndsOnExhaustedReader(t *testing.T) {
	// A reader that persistently returns (0, io.EOF) with no data, like a
	// closed port, must end the stream instead of retrying forever.
	m := New("test", &bytes.Buffer{}, cv.Config{MIDIChannel: 1})

	go m.readLoop()

	select {
	case _, ok := <-m.stream:
		if ok {
			t.Error("Expected the stream to close without delivering data")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read loop did not end on an exhausted reader")
	}
}

func TestReadLoopDeliversDataBeforeClosing(t *testing.T) {
	m := New("test", strings.NewReader("\x90\x3c\x64"), cv.Config{MIDIChannel: 1})

	go m.readLoop()

	select {
	case chunk, ok := <-m.stream:
		if !ok {
			t.Fatal("Expected a data chunk before the stream closes")
		}
		if len(chunk) != 3 || chunk[0] != 0x90 {
			t.Errorf("Unexpected chunk %v", chunk)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read loop delivered no data")
	}

	select {
	case _, ok := <-m.stream:
		if ok {
			t.Error("Expected the stream to close after the reader drained")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read loop did not end after the reader drained")
	}
}

func TestModelOverrunCounting(t *testing.T) {
	m := New("test", &bytes.Buffer{}, cv.Config{MIDIChannel: 1})

	// Push more than the queue holds in one chunk; Update drains after the
	// whole chunk is queued, so the excess must be counted as overruns.
	chunk := make(byteMsg, 200)
	for i := range chunk {
		chunk[i] = 0xF8 // real-time, harmless
	}
	updated, _ := m.Update(chunk)
	m = updated.(Model)

	if m.stats.overruns == 0 {
		t.Error("Expected overruns when a chunk exceeds queue capacity")
	}
}
