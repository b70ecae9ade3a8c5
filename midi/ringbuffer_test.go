package midi

import "testing"

func TestRingBufferFullEmpty(t *testing.T) {
	// Capacity 4 stores 3 bytes (one slot sacrificed)
	rb := NewRingBuffer(4)

	if !rb.IsEmpty() {
		t.Error("New ring buffer should be empty")
	}
	if rb.IsFull() {
		t.Error("New ring buffer should not be full")
	}

	for i := 0; i < 3; i++ {
		if !rb.Push(byte(i)) {
			t.Errorf("Push %d should succeed", i)
		}
	}

	if !rb.IsFull() {
		t.Error("Buffer should be full after 3 pushes")
	}
	if rb.Push(99) {
		t.Error("Push into full buffer should fail")
	}
	if rb.Available() != 3 {
		t.Errorf("Expected 3 available, got %d", rb.Available())
	}

	// Draining one slot makes room for exactly one more byte
	b, ok := rb.Pop()
	if !ok || b != 0 {
		t.Errorf("Expected Pop to return 0, got %d (ok=%v)", b, ok)
	}
	if !rb.Push(99) {
		t.Error("Push after Pop should succeed")
	}
	if !rb.IsFull() {
		t.Error("Buffer should be full again")
	}
}

func TestRingBufferFIFOOrder(t *testing.T) {
	rb := NewRingBuffer(8)
	input := []byte{0x90, 0x3C, 0x64, 0x80, 0x3C}

	if n := rb.Write(input); n != len(input) {
		t.Fatalf("Expected to write %d bytes, wrote %d", len(input), n)
	}

	for i, want := range input {
		got, ok := rb.Pop()
		if !ok {
			t.Fatalf("Pop %d: buffer unexpectedly empty", i)
		}
		if got != want {
			t.Errorf("Pop %d: expected %#x, got %#x", i, want, got)
		}
	}
	if _, ok := rb.Pop(); ok {
		t.Error("Pop from drained buffer should fail")
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	rb := NewRingBuffer(5)

	rb.Write([]byte{1, 2, 3, 4})
	buf := make([]byte, 2)
	rb.Read(buf)

	// These writes wrap past the end of the backing array
	if n := rb.Write([]byte{5, 6}); n != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", n)
	}

	out := make([]byte, 4)
	if n := rb.Read(out); n != 4 {
		t.Fatalf("Expected to read 4 bytes, read %d", n)
	}
	want := []byte{3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Wrap-around order mismatch: got %v, want %v", out, want)
			break
		}
	}
}

func TestRingBufferPeek(t *testing.T) {
	rb := NewRingBuffer(4)

	if _, ok := rb.Peek(); ok {
		t.Error("Peek on empty buffer should fail")
	}

	rb.Push(0xFE)
	for i := 0; i < 3; i++ {
		b, ok := rb.Peek()
		if !ok || b != 0xFE {
			t.Errorf("Peek %d: expected 0xFE, got %#x (ok=%v)", i, b, ok)
		}
	}
	if rb.Available() != 1 {
		t.Errorf("Peek must not consume: expected 1 available, got %d", rb.Available())
	}
}

func TestRingBufferPartialWrite(t *testing.T) {
	rb := NewRingBuffer(4)

	n := rb.Write([]byte{1, 2, 3, 4, 5})
	if n != 3 {
		t.Errorf("Expected to write 3 bytes to size-4 ring, wrote %d", n)
	}
	if rb.Free() != 0 {
		t.Errorf("Expected 0 free, got %d", rb.Free())
	}
}

func TestRingBufferReset(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]byte{1, 2, 3})

	rb.Reset()
	if !rb.IsEmpty() {
		t.Error("Buffer should be empty after Reset")
	}
	if rb.Free() != 7 {
		t.Errorf("Expected 7 free after Reset, got %d", rb.Free())
	}
}

func TestRingBufferMinimumCapacity(t *testing.T) {
	rb := NewRingBuffer(0)
	if !rb.Push(1) {
		t.Error("Capacity is raised to 2, so one byte must fit")
	}
	if rb.Push(2) {
		t.Error("Capacity-2 ring stores 1 byte; second push must fail")
	}
}
