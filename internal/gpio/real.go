//go:build linux

package gpio

import (
	"fmt"
	"log"

	"github.com/warthog618/go-gpiocdev"
)

// RealOutputs drives the output lines on actual hardware using the Linux GPIO
// character device.
type RealOutputs struct {
	chip   *gpiocdev.Chip
	magnet *gpiocdev.Line
	fan    *gpiocdev.Line

	errors int
}

// NewRealOutputs requests both lines as outputs, initially low.
func NewRealOutputs(chipName string, magnetLine, fanLine int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	magnet, err := chip.RequestLine(magnetLine, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("levitator-magnet"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request magnet line %d: %w", magnetLine, err)
	}

	fan, err := chip.RequestLine(fanLine, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("levitator-fan"))
	if err != nil {
		magnet.Close()
		chip.Close()
		return nil, fmt.Errorf("request fan line %d: %w", fanLine, err)
	}

	return &RealOutputs{
		chip:   chip,
		magnet: magnet,
		fan:    fan,
	}, nil
}

// SetMagnet drives the magnet line.
func (o *RealOutputs) SetMagnet(on bool) {
	o.set(o.magnet, "magnet", on)
}

// SetFan drives the fan line.
func (o *RealOutputs) SetFan(on bool) {
	o.set(o.fan, "fan", on)
}

// set writes a line value. Failures are logged rather than returned since the
// control loop has no error path; only the first few are logged.
func (o *RealOutputs) set(line *gpiocdev.Line, name string, on bool) {
	if err := line.SetValue(boolToValue(on)); err != nil {
		o.errors++
		if o.errors <= 5 {
			log.Printf("gpio: set %s=%v: %v", name, on, err)
		}
	}
}

// Close drives both lines low, then reconfigures them as inputs with
// pull-down so the coil driver stays off while nothing owns the lines.
func (o *RealOutputs) Close() error {
	var errs []error

	for _, l := range []struct {
		name string
		line *gpiocdev.Line
	}{
		{"magnet", o.magnet},
		{"fan", o.fan},
	} {
		if l.line == nil {
			continue
		}
		if err := l.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s line: %w", l.name, err))
		}
		if err := l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s line: %w", l.name, err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s line: %w", l.name, err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
