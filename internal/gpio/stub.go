//go:build !linux

package gpio

import "errors"

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(chipName string, magnetLine, fanLine int) (*RealOutputs, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetMagnet is not implemented on non-Linux platforms.
func (o *RealOutputs) SetMagnet(on bool) {}

// SetFan is not implemented on non-Linux platforms.
func (o *RealOutputs) SetFan(on bool) {}

// Close is not implemented on non-Linux platforms.
func (o *RealOutputs) Close() error {
	return nil
}
