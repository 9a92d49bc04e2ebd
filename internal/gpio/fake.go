package gpio

// Write is one recorded output change.
type Write struct {
	Line string // "magnet" or "fan"
	On   bool
}

// FakeOutputs is a test double that records output writes.
type FakeOutputs struct {
	// Magnet and Fan hold the current line states.
	Magnet bool
	Fan    bool

	// Writes contains every SetMagnet/SetFan call, in order.
	Writes []Write

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs with both lines off.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// SetMagnet records the magnet state.
func (f *FakeOutputs) SetMagnet(on bool) {
	f.Magnet = on
	f.Writes = append(f.Writes, Write{Line: "magnet", On: on})
}

// SetFan records the fan state.
func (f *FakeOutputs) SetFan(on bool) {
	f.Fan = on
	f.Writes = append(f.Writes, Write{Line: "fan", On: on})
}

// Close drives both lines off and marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.Magnet = false
	f.Fan = false
	f.Closed = true
	return nil
}

// MagnetPulses returns how many times the magnet was switched on.
func (f *FakeOutputs) MagnetPulses() int {
	n := 0
	for _, w := range f.Writes {
		if w.Line == "magnet" && w.On {
			n++
		}
	}
	return n
}

// Reset clears recorded writes.
func (f *FakeOutputs) Reset() {
	f.Writes = nil
	f.Closed = false
}
