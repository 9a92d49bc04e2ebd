// Package control contains the levitator control loop: the state machine
// that sequences magnet pulses, dead time and ADC samples, and the
// proportional feedback law that sizes the next pulse.
// This package has NO I/O of its own. Every peripheral arrives through the
// small interfaces declared here, and nothing in it blocks.
package control

// Tunables. These are part of the build, not runtime configuration.
const (
	// TargetADC is the sensor reading at the desired elevation.
	TargetADC = 576

	// MaxPulses is how many consecutive below-target samples are tolerated
	// before the fan is shut off and the magnet stays off.
	MaxPulses = 256

	// MagnetDelay0 is the nominal magnet on-time, in timer ticks below rollover.
	MagnetDelay0 Duration = -15000

	// AdcDelay is the dead time between magnet off and ADC start.
	AdcDelay Duration = -7500

	// Gain is the proportional gain of the feedback law.
	Gain int16 = 2

	// LeadGain weights the samples taken since the last pulse. Zero keeps
	// lead compensation out of the loop.
	LeadGain int16 = 0

	// SampleCap bounds the sample counter.
	SampleCap = 100
)

// Duration is a timer load value: a two's-complement count of ticks below
// rollover. More negative means a longer delay.
type Duration int16

// Disabled is the sentinel duration meaning "do not energize, sample instead".
// It shares its bit pattern with 0xFFFF.
const Disabled Duration = -1

// Enabled reports whether d is a real on-time rather than the sentinel.
func (d Duration) Enabled() bool {
	return d != Disabled
}

// Phase is the active state of the control loop.
type Phase uint8

const (
	PhaseMagnetOff Phase = iota
	PhaseMagnetOn
	PhaseAdcDelay
	PhaseHandleAdc
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseMagnetOff:
		return "MAGNET_OFF"
	case PhaseMagnetOn:
		return "MAGNET_ON"
	case PhaseAdcDelay:
		return "ADC_DELAY"
	case PhaseHandleAdc:
		return "HANDLE_ADC"
	default:
		return "UNKNOWN"
	}
}

// Timer is a one-shot countdown with a latched expiry flag.
type Timer interface {
	// Arm loads the counter with offset ticks below rollover.
	Arm(offset int16)
	// Expired reports the latched expiry flag.
	Expired() bool
	// ClearExpired resets the latch.
	ClearExpired()
}

// Sensor is a single ADC channel with a latched conversion-complete flag.
type Sensor interface {
	// Trigger starts one conversion.
	Trigger()
	// Ready reports the latched conversion-complete flag.
	Ready() bool
	// ClearReady resets the latch.
	ClearReady()
	// Read returns the last converted sample (0..1023).
	Read() uint16
}

// Outputs drives the digital output lines.
type Outputs interface {
	SetMagnet(on bool)
	SetFan(on bool)
}

// Diagnostics accepts best-effort text for the diagnostic stream.
type Diagnostics interface {
	// PrintSigned writes n in decimal followed by a space.
	PrintSigned(n int16)
	// PrintText writes s verbatim.
	PrintText(s string)
}

// Snapshot is a point-in-time copy of the loop's state.
type Snapshot struct {
	Phase       Phase
	Duration    Duration
	PulseCount  uint16
	SampleCount uint16
	Magnet      bool
	Fan         bool
	// Faulted is true while the pulse limit holds the magnet off. That
	// includes power-on, until the first sample at or above target.
	Faulted bool
	// Pulses counts magnet activations since startup.
	Pulses uint64
	// Faults counts cutoffs that turned a running fan off.
	Faults uint64
}
