package control

import "testing"

func TestFeedback(t *testing.T) {
	tests := []struct {
		sample uint16
		want   int16
	}{
		{500, 152},
		{575, 2},
		{576, 0},
		{600, -48},
		{0, 1152},
		{1023, -894},
	}
	for _, tt := range tests {
		if got := Feedback(tt.sample); got != tt.want {
			t.Errorf("Feedback(%d): got %d, want %d", tt.sample, got, tt.want)
		}
	}
}

func TestNextDuration(t *testing.T) {
	got := NextDuration(500, MagnetDelay0)
	if want := Duration(-15000 - 152); got != want {
		t.Errorf("NextDuration(500): got %d, want %d", got, want)
	}

	// Shortfall lengthens the pulse.
	if NextDuration(400, MagnetDelay0) >= NextDuration(500, MagnetDelay0) {
		t.Error("expected a larger shortfall to give a more negative duration")
	}
}

func TestNextDurationWraps(t *testing.T) {
	// -32768 - 2 wraps to +32766 in int16.
	got := NextDuration(575, Duration(-32768))
	if got != Duration(32766) {
		t.Errorf("expected wraparound to 32766, got %d", got)
	}

	// A sample far outside the 10-bit range wraps the diff itself.
	// int16(40000) = -25536, diff = 576 + 25536 = 26112, *2 wraps to -13312.
	if got := Feedback(40000); got != -13312 {
		t.Errorf("Feedback(40000): got %d, want -13312", got)
	}
}

func TestLeadCompensationInert(t *testing.T) {
	for _, n := range []uint16{0, 1, 50, SampleCap} {
		if got := leadCompensation(n); got != 0 {
			t.Errorf("leadCompensation(%d): got %d, want 0", n, got)
		}
	}
}

func TestDisabledSentinel(t *testing.T) {
	if Disabled.Enabled() {
		t.Error("Disabled should not be enabled")
	}
	d := Disabled
	if uint16(d) != 0xffff {
		t.Errorf("Disabled bit pattern: got %#x, want 0xffff", uint16(d))
	}
	if !MagnetDelay0.Enabled() {
		t.Error("MagnetDelay0 should be enabled")
	}
}
