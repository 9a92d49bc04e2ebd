package control

// Loop is the magnet control state machine. It is not safe for concurrent
// use; Step is meant to be called once per main-loop iteration.
type Loop struct {
	timer   Timer
	sensor  Sensor
	outputs Outputs
	diag    Diagnostics

	phase       Phase
	duration    Duration
	pulseCount  uint16
	sampleCount uint16

	magnet bool
	fan    bool
	pulses uint64
	faults uint64
}

// NewLoop creates a loop in its power-on state: magnet off, no pulse
// scheduled and the pulse counter at its limit, so nothing is energized
// until a sample first reaches the target.
func NewLoop(t Timer, s Sensor, o Outputs, d Diagnostics) *Loop {
	return &Loop{
		timer:      t,
		sensor:     s,
		outputs:    o,
		diag:       d,
		phase:      PhaseMagnetOff,
		duration:   Disabled,
		pulseCount: MaxPulses,
	}
}

// Step runs the active state once. States whose signal has not arrived
// return without doing anything.
func (l *Loop) Step() {
	switch l.phase {
	case PhaseMagnetOff:
		l.magnetOff()
	case PhaseMagnetOn:
		l.magnetOn()
	case PhaseAdcDelay:
		l.adcDelay()
	case PhaseHandleAdc:
		l.handleAdc()
	}
}

// magnetOff starts the scheduled pulse, or goes straight to sampling when
// none is scheduled.
func (l *Loop) magnetOff() {
	if !l.duration.Enabled() {
		l.startSample()
		return
	}

	l.setFan(true)
	l.setMagnet(true)
	l.sampleCount = 0
	l.timer.Arm(int16(l.duration))
	l.timer.ClearExpired()
	l.phase = PhaseMagnetOn
	l.pulses++
}

// magnetOn ends the pulse when the timer expires and starts the dead time.
func (l *Loop) magnetOn() {
	if !l.timer.Expired() {
		return
	}

	l.setMagnet(false)
	l.timer.Arm(int16(AdcDelay))
	l.timer.ClearExpired()
	l.phase = PhaseAdcDelay
}

func (l *Loop) adcDelay() {
	if l.timer.Expired() {
		l.startSample()
	}
}

func (l *Loop) startSample() {
	l.sensor.Trigger()
	l.phase = PhaseHandleAdc
	if l.sampleCount < SampleCap {
		l.sampleCount++
	}
}

// handleAdc applies the feedback law to a completed conversion.
func (l *Loop) handleAdc() {
	if !l.sensor.Ready() {
		return
	}
	l.sensor.ClearReady()

	// Assume no pulse until the sample says otherwise.
	l.duration = Disabled
	l.phase = PhaseMagnetOff

	sample := l.sensor.Read()
	if sample >= TargetADC {
		l.pulseCount = 0
		return
	}

	if l.pulseCount >= MaxPulses {
		l.enterFault()
		return
	}

	l.pulseCount++
	feedback := Feedback(sample) + leadCompensation(l.sampleCount)
	l.duration = MagnetDelay0 - Duration(feedback)

	l.diag.PrintSigned(feedback)
	l.diag.PrintText("\n")
}

// enterFault shuts the fan off. The pulse counter is left at its limit,
// so the magnet stays off until a sample reaches the target again.
func (l *Loop) enterFault() {
	if l.fan {
		l.faults++
	}
	l.setFan(false)
}

func (l *Loop) setMagnet(on bool) {
	l.magnet = on
	l.outputs.SetMagnet(on)
}

func (l *Loop) setFan(on bool) {
	l.fan = on
	l.outputs.SetFan(on)
}

// Phase returns the active state.
func (l *Loop) Phase() Phase {
	return l.phase
}

// Snapshot returns a copy of the loop's state.
func (l *Loop) Snapshot() Snapshot {
	return Snapshot{
		Phase:       l.phase,
		Duration:    l.duration,
		PulseCount:  l.pulseCount,
		SampleCount: l.sampleCount,
		Magnet:      l.magnet,
		Fan:         l.fan,
		Faulted:     l.pulseCount >= MaxPulses,
		Pulses:      l.pulses,
		Faults:      l.faults,
	}
}
