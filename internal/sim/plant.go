// Package sim simulates the levitator hardware: a ferrous object under a
// single electromagnet with a position sensor, on a virtual clock. Plant
// implements the same output and sensor contracts as the real drivers so the
// control loop can run, and be tested, without hardware.
package sim

import (
	"math/rand"
	"time"

	"github.com/chewxy/math32"

	"github.com/sweeney/levitator/internal/config"
	"github.com/sweeney/levitator/internal/control"
	"github.com/sweeney/levitator/internal/sensor"
)

// Plant is the simulated object, coil and sensor. It is not safe for
// concurrent use; everything runs on the main loop goroutine.
type Plant struct {
	cfg config.SimConfig
	rng *rand.Rand

	now time.Time
	gap float32 // m, positive downward from the magnet face
	vel float32 // m/s, positive moving away from the magnet

	magnet bool
	fan    bool
	closed bool

	converting bool
	convDone   time.Time
	held       uint16
	ready      bool
	sample     uint16

	stats Stats
}

// Stats summarizes a simulation run.
type Stats struct {
	Elapsed     time.Duration
	MagnetOn    time.Duration
	Conversions uint64
	Contacts    uint64 // times the object hit the magnet face
	Landings    uint64 // times the object dropped onto its stand
}

// New creates a plant at cfg.InitialGap, at rest, with the clock at start.
func New(cfg config.SimConfig, start time.Time) *Plant {
	gap := cfg.InitialGap
	if gap == 0 {
		gap = cfg.TargetGap
	}
	return &Plant{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		now: start,
		gap: clamp(gap, cfg.MinGap, cfg.MaxGap),
	}
}

// Now returns the virtual time.
func (p *Plant) Now() time.Time {
	return p.now
}

// Gap returns the current distance between object and magnet.
func (p *Plant) Gap() float32 {
	return p.gap
}

// Stats returns run statistics.
func (p *Plant) Stats() Stats {
	return p.stats
}

// Advance moves the virtual clock forward by one step.
func (p *Plant) Advance() {
	p.AdvanceBy(p.cfg.Step)
}

// AdvanceBy moves the virtual clock forward by d, integrating the object's
// motion and completing any conversion that finishes within it.
func (p *Plant) AdvanceBy(d time.Duration) {
	if d <= 0 {
		return
	}
	p.integrate(float32(d.Seconds()))
	p.now = p.now.Add(d)
	p.stats.Elapsed += d
	if p.magnet {
		p.stats.MagnetOn += d
	}

	if p.converting && !p.now.Before(p.convDone) {
		p.converting = false
		p.sample = p.held
		p.ready = true
		p.stats.Conversions++
	}
}

func (p *Plant) integrate(dt float32) {
	accel := p.cfg.Gravity
	if p.magnet {
		ratio := p.cfg.ReferenceGap / math32.Max(p.gap, p.cfg.MinGap)
		accel -= p.cfg.MagnetAccel * ratio * ratio
	}

	// Semi-implicit Euler with exponential drag.
	prev := p.gap
	p.vel += accel * dt
	p.vel *= math32.Exp(-p.cfg.Damping * dt)
	p.gap += p.vel * dt

	if p.gap <= p.cfg.MinGap {
		if prev > p.cfg.MinGap {
			p.stats.Contacts++
		}
		p.gap = p.cfg.MinGap
		p.vel = math32.Max(p.vel, 0)
	}
	if p.gap >= p.cfg.MaxGap {
		if prev < p.cfg.MaxGap {
			p.stats.Landings++
		}
		p.gap = p.cfg.MaxGap
		p.vel = math32.Min(p.vel, 0)
	}
}

// Reading returns the sensor value for the current gap, with noise.
// A closer object reads higher.
func (p *Plant) Reading() uint16 {
	v := float32(control.TargetADC) + p.cfg.SensorSlope*(p.gap-p.cfg.TargetGap)
	if p.cfg.Noise > 0 {
		v += (p.rng.Float32()*2 - 1) * p.cfg.Noise
	}
	return uint16(clamp(math32.Round(v), 0, sensor.MaxSample))
}

// SetMagnet switches the coil.
func (p *Plant) SetMagnet(on bool) {
	p.magnet = on
}

// SetFan switches the fan. The fan has no effect on the object.
func (p *Plant) SetFan(on bool) {
	p.fan = on
}

// Magnet reports the coil state.
func (p *Plant) Magnet() bool {
	return p.magnet
}

// Fan reports the fan state.
func (p *Plant) Fan() bool {
	return p.fan
}

// Close switches coil and fan off.
func (p *Plant) Close() error {
	p.magnet = false
	p.fan = false
	p.closed = true
	return nil
}

// Trigger samples the gap now and completes the conversion after
// cfg.Conversion of virtual time. A trigger during a conversion is ignored.
func (p *Plant) Trigger() {
	if p.converting {
		return
	}
	p.held = p.Reading()
	p.converting = true
	p.convDone = p.now.Add(p.cfg.Conversion)
}

// Ready reports the conversion-complete flag.
func (p *Plant) Ready() bool {
	return p.ready
}

// ClearReady clears the conversion-complete flag.
func (p *Plant) ClearReady() {
	p.ready = false
}

// Read returns the last converted sample.
func (p *Plant) Read() uint16 {
	return p.sample
}

// Convert returns an immediate reading, for one-off state queries.
func (p *Plant) Convert() (uint16, error) {
	return p.Reading(), nil
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}
