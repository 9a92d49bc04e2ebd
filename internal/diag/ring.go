// Package diag provides the diagnostic text stream: a small fixed-capacity
// byte ring, ASCII number formatting into it, and transmitters that drain it
// one byte at a time.
package diag

// Capacity is the size of the diagnostic ring in bytes.
const Capacity = 32

// Ring is a fixed-capacity byte FIFO. A push to a full ring is dropped.
// Not safe for concurrent use. The main loop appends and drains it from
// the same goroutine.
type Ring struct {
	buf     [Capacity]byte
	head    int // next write position
	tail    int // next read position
	count   int
	dropped uint64
}

// NewRing returns an empty ring.
func NewRing() *Ring {
	return &Ring{}
}

// Push appends b. It returns false, and counts the drop, when the ring is full.
func (r *Ring) Push(b byte) bool {
	if r.count == Capacity {
		r.dropped++
		return false
	}
	r.buf[r.head] = b
	r.head++
	if r.head >= Capacity {
		r.head = 0
	}
	r.count++
	return true
}

// Pop removes and returns the oldest byte.
func (r *Ring) Pop() (byte, bool) {
	if r.count == 0 {
		return 0, false
	}
	b := r.buf[r.tail]
	r.tail++
	if r.tail >= Capacity {
		r.tail = 0
	}
	r.count--
	return b, true
}

// Len returns the number of buffered bytes.
func (r *Ring) Len() int {
	return r.count
}

// Dropped returns how many bytes were discarded because the ring was full.
func (r *Ring) Dropped() uint64 {
	return r.dropped
}
