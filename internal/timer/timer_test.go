package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type manualClock struct {
	t time.Time
}

func (m *manualClock) now() time.Time { return m.t }

func (m *manualClock) advance(d time.Duration) { m.t = m.t.Add(d) }

func newClock() *manualClock {
	return &manualClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTicks(t *testing.T) {
	assert.Equal(t, int64(15000), Ticks(-15000))
	assert.Equal(t, int64(7500), Ticks(-7500))
	assert.Equal(t, int64(1), Ticks(-1))
	assert.Equal(t, int64(Period), Ticks(0))
	assert.Equal(t, int64(Period-1), Ticks(1))
}

func TestCountdownExpiresAfterTicks(t *testing.T) {
	clk := newClock()
	c := NewCountdown(clk.now, time.Microsecond)

	c.Arm(-15000)
	c.ClearExpired()
	assert.False(t, c.Expired())

	clk.advance(14999 * time.Microsecond)
	assert.False(t, c.Expired())

	clk.advance(time.Microsecond)
	assert.True(t, c.Expired())
}

func TestCountdownLatchesUntilCleared(t *testing.T) {
	clk := newClock()
	c := NewCountdown(clk.now, time.Microsecond)

	c.Arm(-100)
	clk.advance(200 * time.Microsecond)
	assert.True(t, c.Expired())
	assert.True(t, c.Expired(), "flag should stay latched")

	c.ClearExpired()
	assert.False(t, c.Expired())
}

func TestCountdownArmKeepsLatch(t *testing.T) {
	clk := newClock()
	c := NewCountdown(clk.now, time.Microsecond)

	c.Arm(-10)
	clk.advance(10 * time.Microsecond)
	assert.True(t, c.Expired())

	c.Arm(-7500)
	assert.True(t, c.Expired(), "loading the counter does not clear the flag")
	c.ClearExpired()
	assert.False(t, c.Expired())
}

func TestCountdownFreeRuns(t *testing.T) {
	clk := newClock()
	tick := time.Microsecond
	c := NewCountdown(clk.now, tick)

	c.Arm(-10)
	clk.advance(10 * tick)
	assert.True(t, c.Expired())
	c.ClearExpired()

	// Not reloaded: next overflow is a full revolution later.
	clk.advance(time.Duration(Period-1) * tick)
	assert.False(t, c.Expired())
	clk.advance(tick)
	assert.True(t, c.Expired())
}

func TestCountdownUnarmedNeverExpires(t *testing.T) {
	clk := newClock()
	c := NewCountdown(clk.now, 0)
	clk.advance(time.Hour)
	assert.False(t, c.Expired())
	assert.Equal(t, DefaultTick, c.Tick())
}

func TestFakeTimer(t *testing.T) {
	f := NewFakeTimer()
	f.Arm(-5)
	assert.False(t, f.Expired())
	f.Expire()
	assert.True(t, f.Expired())
	f.ClearExpired()
	assert.False(t, f.Expired())
	assert.Equal(t, []int16{-5}, f.Armed)
	assert.Equal(t, 1, f.Clears)
}
