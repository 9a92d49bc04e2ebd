package diag

import "errors"

// FakeTransmitter records transmitted bytes for test assertions.
type FakeTransmitter struct {
	// Sent contains every byte written, in order.
	Sent []byte

	// Busy, if set, makes Ready return false.
	Busy bool

	// WriteError, if set, will be returned by WriteByte.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeTransmitter creates a ready FakeTransmitter.
func NewFakeTransmitter() *FakeTransmitter {
	return &FakeTransmitter{}
}

// Ready reports !Busy.
func (f *FakeTransmitter) Ready() bool {
	return !f.Busy
}

// WriteByte records b.
func (f *FakeTransmitter) WriteByte(b byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if f.Closed {
		return errors.New("transmitter closed")
	}
	f.Sent = append(f.Sent, b)
	return nil
}

// Close marks the transmitter as closed.
func (f *FakeTransmitter) Close() error {
	f.Closed = true
	return nil
}

// String returns the sent bytes as text.
func (f *FakeTransmitter) String() string {
	return string(f.Sent)
}
