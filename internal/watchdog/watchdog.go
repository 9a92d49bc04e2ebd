// Package watchdog keeps a liveness watchdog fed from the main loop.
// Device drives the Linux watchdog character device; Soft is an in-process
// equivalent for platforms without one.
package watchdog

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// Watchdog is fed once per main-loop iteration.
type Watchdog interface {
	Kick()
	Close() error
}

// DefaultDevice is the Linux watchdog device.
const DefaultDevice = "/dev/watchdog"

// Device feeds a kernel watchdog. Kicks are rate limited to one write per
// interval because the main loop calls Kick far more often than the timeout
// requires.
type Device struct {
	f        *os.File
	now      func() time.Time
	interval time.Duration
	last     time.Time
	errs     atomic.Uint64
}

// OpenDevice opens path. The kernel arms the watchdog on open.
func OpenDevice(path string, interval time.Duration) (*Device, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open watchdog %s: %w", path, err)
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Device{f: f, now: time.Now, interval: interval}, nil
}

// Kick writes a keepalive if the interval has passed since the last one.
func (d *Device) Kick() {
	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return
	}
	d.last = now
	if _, err := d.f.Write([]byte{0}); err != nil {
		d.errs.Add(1)
	}
}

// Errors returns the number of failed keepalive writes.
func (d *Device) Errors() uint64 {
	return d.errs.Load()
}

// Close disarms the watchdog with the magic close character and closes the
// device. Drivers built with nowayout ignore the magic character and will
// still reset the machine.
func (d *Device) Close() error {
	if _, err := d.f.Write([]byte{'V'}); err != nil {
		d.f.Close()
		return fmt.Errorf("disarm watchdog: %w", err)
	}
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("close watchdog: %w", err)
	}
	return nil
}

// Soft is an in-process watchdog. If Kick is not called within timeout,
// onExpire runs once on the watchdog's goroutine.
type Soft struct {
	timeout  time.Duration
	onExpire func()
	now      func() time.Time

	last  atomic.Int64
	fired atomic.Bool
	stop  chan struct{}
	done  chan struct{}
}

// NewSoft starts a software watchdog.
func NewSoft(timeout time.Duration, onExpire func()) *Soft {
	return newSoft(timeout, onExpire, time.Now)
}

func newSoft(timeout time.Duration, onExpire func(), now func() time.Time) *Soft {
	s := &Soft{
		timeout:  timeout,
		onExpire: onExpire,
		now:      now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.last.Store(now().UnixNano())
	go s.run()
	return s
}

func (s *Soft) run() {
	defer close(s.done)
	check := s.timeout / 4
	if check <= 0 {
		check = time.Millisecond
	}
	ticker := time.NewTicker(check)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			last := time.Unix(0, s.last.Load())
			if s.now().Sub(last) >= s.timeout {
				if s.fired.CompareAndSwap(false, true) && s.onExpire != nil {
					s.onExpire()
				}
				return
			}
		}
	}
}

// Kick records liveness.
func (s *Soft) Kick() {
	s.last.Store(s.now().UnixNano())
}

// Fired reports whether the watchdog expired.
func (s *Soft) Fired() bool {
	return s.fired.Load()
}

// Close stops the watchdog.
func (s *Soft) Close() error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
	return nil
}

// Nop is a watchdog that does nothing.
type Nop struct{}

// Kick does nothing.
func (Nop) Kick() {}

// Close does nothing.
func (Nop) Close() error { return nil }
