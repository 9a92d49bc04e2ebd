package control

// Feedback returns the proportional correction for a sample, in timer ticks.
// The arithmetic is int16 and wraps.
func Feedback(sample uint16) int16 {
	diff := int16(TargetADC) - int16(sample)
	return diff * Gain
}

// NextDuration returns the on-time that follows sample when the pulse
// starts from base. A larger shortfall subtracts a larger feedback, which
// makes the countdown longer.
func NextDuration(sample uint16, base Duration) Duration {
	return base - Duration(Feedback(sample))
}

// leadCompensation is the term for samples taken since the magnet was last
// on. LeadGain is zero, so it contributes nothing.
func leadCompensation(sampleCount uint16) int16 {
	return int16(sampleCount) * LeadGain
}
