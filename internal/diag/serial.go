package diag

import (
	"errors"
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate is used when no baud rate is configured.
const DefaultBaudRate = 115200

// SerialTransmitter sends diagnostic bytes over a serial port.
// One byte can wait in the holding slot while the previous one is being
// written, like a UART holding register in front of its shift register.
type SerialTransmitter struct {
	port serial.Port
	slot chan byte
	done chan struct{}

	mu      sync.Mutex
	lastErr error
	closed  bool
}

// NewSerialTransmitter opens the named port at the given baud rate.
func NewSerialTransmitter(name string, baudRate int) (*SerialTransmitter, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return newSerialTransmitter(port), nil
}

func newSerialTransmitter(port serial.Port) *SerialTransmitter {
	t := &SerialTransmitter{
		port: port,
		slot: make(chan byte, 1),
		done: make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *SerialTransmitter) run() {
	defer close(t.done)
	buf := make([]byte, 1)
	for b := range t.slot {
		buf[0] = b
		if _, err := t.port.Write(buf); err != nil {
			t.mu.Lock()
			t.lastErr = err
			t.mu.Unlock()
		}
	}
}

// Ready reports whether the holding slot is free.
func (t *SerialTransmitter) Ready() bool {
	return len(t.slot) == 0
}

// WriteByte places b in the holding slot. It returns the error from an
// earlier failed write, if any.
func (t *SerialTransmitter) WriteByte(b byte) error {
	t.mu.Lock()
	err := t.lastErr
	t.lastErr = nil
	closed := t.closed
	t.mu.Unlock()

	if closed {
		return errors.New("serial transmitter closed")
	}
	if err != nil {
		return fmt.Errorf("serial write: %w", err)
	}

	select {
	case t.slot <- b:
		return nil
	default:
		return errors.New("serial transmitter busy")
	}
}

// Close waits for the pending byte and closes the port. WriteByte and Close
// must be called from the same goroutine.
func (t *SerialTransmitter) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	close(t.slot)
	<-t.done

	if err := t.port.Drain(); err != nil {
		t.port.Close()
		return fmt.Errorf("drain serial port: %w", err)
	}
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("close serial port: %w", err)
	}
	return nil
}
