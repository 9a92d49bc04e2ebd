package sensor

import "errors"

// FakeSensor is a test double that returns scripted samples.
type FakeSensor struct {
	// Samples contains scripted values. Each trigger consumes the next one.
	// When exhausted, the last sample repeats.
	Samples []uint16

	// Latency is the number of Ready polls after a trigger before the
	// conversion completes.
	Latency int

	// Triggers counts Trigger calls.
	Triggers int

	index   int
	pending int
	busy    bool
	ready   bool
	value   uint16
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples ...uint16) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// Trigger starts a scripted conversion.
func (f *FakeSensor) Trigger() {
	f.Triggers++
	if f.busy {
		return
	}
	f.busy = true
	f.pending = f.Latency
	if len(f.Samples) > 0 {
		f.value = f.Samples[f.index]
		if f.index < len(f.Samples)-1 {
			f.index++
		}
	}
}

// Ready reports completion once Latency polls have passed.
func (f *FakeSensor) Ready() bool {
	if f.busy {
		if f.pending > 0 {
			f.pending--
		} else {
			f.busy = false
			f.ready = true
		}
	}
	return f.ready
}

// ClearReady clears the completion flag.
func (f *FakeSensor) ClearReady() {
	f.ready = false
}

// Read returns the current sample.
func (f *FakeSensor) Read() uint16 {
	return f.value
}

// FakeConverter is a Converter returning scripted values.
type FakeConverter struct {
	Values []uint16
	Err    error
	Closed bool

	index int
	// Block, if set, is received from before each conversion returns.
	Block chan struct{}
}

// Convert returns the next scripted value.
func (f *FakeConverter) Convert() (uint16, error) {
	if f.Block != nil {
		<-f.Block
	}
	if f.Err != nil {
		return 0, f.Err
	}
	if len(f.Values) == 0 {
		return 0, errors.New("no values configured")
	}
	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}

// Close marks the converter as closed.
func (f *FakeConverter) Close() error {
	f.Closed = true
	return nil
}
