package timer

// FakeTimer is a test double whose expiry is set by the test.
type FakeTimer struct {
	// Armed contains every offset passed to Arm, in order.
	Armed []int16

	// Latched is the expiry flag.
	Latched bool

	// Clears counts ClearExpired calls.
	Clears int
}

// NewFakeTimer creates a FakeTimer.
func NewFakeTimer() *FakeTimer {
	return &FakeTimer{}
}

// Arm records offset.
func (f *FakeTimer) Arm(offset int16) {
	f.Armed = append(f.Armed, offset)
}

// Expired returns Latched.
func (f *FakeTimer) Expired() bool {
	return f.Latched
}

// ClearExpired resets Latched.
func (f *FakeTimer) ClearExpired() {
	f.Latched = false
	f.Clears++
}

// Expire sets the expiry flag.
func (f *FakeTimer) Expire() {
	f.Latched = true
}
