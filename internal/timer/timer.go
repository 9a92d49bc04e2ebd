// Package timer emulates a 16-bit free-running hardware counter with an
// overflow flag. Loading it with a negative offset makes the flag latch
// after that many ticks.
package timer

import "time"

// Period is the number of ticks in one full counter revolution.
const Period = 1 << 16

// DefaultTick is the tick period used when none is configured.
const DefaultTick = 200 * time.Nanosecond

// Ticks returns the number of ticks until rollover after loading offset.
// Offset 0 is a full revolution.
func Ticks(offset int16) int64 {
	return Period - int64(uint16(offset))
}

// Countdown is a software countdown driven by a clock. It is not safe for
// concurrent use.
type Countdown struct {
	now      func() time.Time
	tick     time.Duration
	deadline time.Time
	running  bool
	expired  bool
}

// NewCountdown creates a stopped countdown reading time from now. A zero
// tick selects DefaultTick.
func NewCountdown(now func() time.Time, tick time.Duration) *Countdown {
	if now == nil {
		now = time.Now
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Countdown{now: now, tick: tick}
}

// Arm loads the counter. The expiry latch is left as it was, the same as
// writing the hardware count register; callers clear it explicitly.
func (c *Countdown) Arm(offset int16) {
	c.deadline = c.now().Add(time.Duration(Ticks(offset)) * c.tick)
	c.running = true
}

// Expired reports the latched overflow flag. The counter keeps running
// after an overflow, so an uncleared-and-unloaded counter overflows again
// every Period ticks.
func (c *Countdown) Expired() bool {
	if !c.running {
		return c.expired
	}
	now := c.now()
	if !now.Before(c.deadline) {
		c.expired = true
		revolution := time.Duration(Period) * c.tick
		for !now.Before(c.deadline) {
			c.deadline = c.deadline.Add(revolution)
		}
	}
	return c.expired
}

// ClearExpired clears the overflow flag.
func (c *Countdown) ClearExpired() {
	c.expired = false
}

// Tick returns the tick period.
func (c *Countdown) Tick() time.Duration {
	return c.tick
}
