// Package gpio provides the digital output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Outputs drives the magnet and fan lines.
type Outputs interface {
	// SetMagnet energizes or releases the electromagnet coil.
	SetMagnet(on bool)

	// SetFan switches the cooling fan.
	SetFan(on bool)

	// Close drives both lines off and releases GPIO resources.
	Close() error
}

// Default line offsets on gpiochip0 (BCM numbering on a Raspberry Pi).
const (
	DefaultChip   = "gpiochip0"
	DefaultMagnet = 17
	DefaultFan    = 27
)

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
