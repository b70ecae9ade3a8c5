package midi

// DefaultBufferSize is the ring buffer capacity used for MIDI input.
// At 31250 baud the UART delivers at most ~3125 bytes/s, so 120 bytes of
// buffering covers well over 30ms of main-loop latency.
const DefaultBufferSize = 120

// RingBuffer is a fixed-capacity circular byte buffer connecting an
// interrupt-time byte source to the cooperative main loop.
//
// Precondition: exactly one producer (Push/Write) and one consumer
// (Pop/Read/Peek). The producer mutates only the write index and the
// consumer only the read index, so no locking is needed under that
// contract. Two concurrent producers (or consumers) are undefined.
//
// One slot is sacrificed to distinguish full from empty: a buffer of
// capacity N stores at most N-1 bytes.
type RingBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewRingBuffer creates a RingBuffer with the given capacity.
// Capacities below 2 are raised to 2 (a zero-storage ring is useless).
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 2 {
		capacity = 2
	}
	return &RingBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Push appends a single byte. It returns false and drops the byte when the
// buffer is full; it never blocks or allocates, making it safe to call from
// an interrupt-time producer.
func (r *RingBuffer) Push(b byte) bool {
	next := r.write + 1
	if next >= r.size {
		next = 0
	}
	if next == r.read {
		return false
	}
	r.buf[r.write] = b
	r.write = next
	return true
}

// Pop removes and returns the oldest byte. The second return is false when
// the buffer is empty.
func (r *RingBuffer) Pop() (byte, bool) {
	if r.read == r.write {
		return 0, false
	}
	b := r.buf[r.read]
	next := r.read + 1
	if next >= r.size {
		next = 0
	}
	r.read = next
	return b, true
}

// Peek returns the oldest byte without removing it.
func (r *RingBuffer) Peek() (byte, bool) {
	if r.read == r.write {
		return 0, false
	}
	return r.buf[r.read], true
}

// IsEmpty reports whether no data is buffered. Reads both indices and
// mutates neither, so it is safe from either side of the queue.
func (r *RingBuffer) IsEmpty() bool {
	return r.read == r.write
}

// IsFull reports whether another Push would fail.
func (r *RingBuffer) IsFull() bool {
	next := r.write + 1
	if next >= r.size {
		next = 0
	}
	return next == r.read
}

// Available returns the number of buffered bytes.
func (r *RingBuffer) Available() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return r.size - r.read + r.write
}

// Free returns the number of bytes that can still be pushed.
func (r *RingBuffer) Free() int {
	return r.size - r.Available() - 1
}

// Write pushes as many bytes of data as fit and returns the count written.
func (r *RingBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		if !r.Push(b) {
			break
		}
		written++
	}
	return written
}

// Read pops up to len(data) bytes into data and returns the count read.
func (r *RingBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		b, ok := r.Pop()
		if !ok {
			break
		}
		data[i] = b
		read++
	}
	return read
}

// Reset discards all buffered data. Consumer-side only; do not call while
// the producer may be pushing.
func (r *RingBuffer) Reset() {
	r.read = 0
	r.write = 0
}
