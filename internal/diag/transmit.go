package diag

// Banner is written to the diagnostic stream at startup.
const Banner = "\n\n\n\nLevitator\n"

// Transmitter sends diagnostic bytes one at a time.
type Transmitter interface {
	// Ready reports whether the transmitter can take another byte now.
	Ready() bool
	// WriteByte hands one byte to the transmitter. Callers check Ready first.
	WriteByte(b byte) error

	// Close releases the underlying device.
	Close() error
}

// Service moves at most one byte from the ring to tx, and only when tx is
// ready. It never blocks.
func (r *Ring) Service(tx Transmitter) error {
	if r.count == 0 || !tx.Ready() {
		return nil
	}
	b, _ := r.Pop()
	return tx.WriteByte(b)
}

// Flush drains the whole ring into tx, calling kick between polls so a
// watchdog stays fed while waiting on a slow transmitter.
func (r *Ring) Flush(tx Transmitter, kick func()) error {
	for r.count > 0 {
		if kick != nil {
			kick()
		}
		if err := r.Service(tx); err != nil {
			return err
		}
	}
	return nil
}
