// Package status provides a thread-safe status tracker for the levitator
// daemon. The main loop writes it; the heartbeat log and the watchdog expiry
// handler read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/levitator/internal/control"
)

// Config contains daemon configuration for display.
type Config struct {
	Mode      string // "hardware" or "sim"
	Tick      time.Duration
	Poll      time.Duration
	Heartbeat time.Duration
	Serial    string // serial port, empty for stdout
	Watchdog  string // watchdog device, empty for software watchdog
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Control      control.Snapshot
	Iterations   uint64
	DiagDropped  uint64
	SensorErrors uint64
	StartTime    time.Time
	Now          time.Time
	Config       Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the control state and loop counters.
// Called from runLoop after each step.
func (t *Tracker) Update(ctl control.Snapshot, iterations, diagDropped uint64) {
	t.mu.Lock()
	t.snap.Control = ctl
	t.snap.Iterations = iterations
	t.snap.DiagDropped = diagDropped
	t.mu.Unlock()
}

// SetSensorErrors sets the failed conversion count.
func (t *Tracker) SetSensorErrors(n uint64) {
	t.mu.Lock()
	t.snap.SensorErrors = n
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
