package diag

import (
	"io"
)

// WriterTransmitter sends diagnostic bytes to an io.Writer, such as stdout
// when no serial port is configured. It is always ready.
type WriterTransmitter struct {
	w   io.Writer
	buf [1]byte
}

// NewWriterTransmitter wraps w.
func NewWriterTransmitter(w io.Writer) *WriterTransmitter {
	return &WriterTransmitter{w: w}
}

// Ready always returns true.
func (t *WriterTransmitter) Ready() bool {
	return true
}

// WriteByte writes b to the underlying writer.
func (t *WriterTransmitter) WriteByte(b byte) error {
	t.buf[0] = b
	_, err := t.w.Write(t.buf[:])
	return err
}

// Close closes the underlying writer if it is an io.Closer.
func (t *WriterTransmitter) Close() error {
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
