package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// ADS1115Config selects the converter and channel.
type ADS1115Config struct {
	Bus         string // I²C bus name, "" for the first one
	Address     uint16 // I²C address, 0 for 0x48
	Channel     int    // single-ended channel 0..3
	ReferenceMV int    // voltage mapped to full scale, 0 for 5000
	RateHz      int    // data rate, 0 for 860
}

var channels = [...]ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// ADS1115 reads the sensor through an ADS1115 over I²C and maps the reading
// onto the 10-bit scale the control constants are tuned for.
type ADS1115 struct {
	bus       i2c.BusCloser
	pin       ads1x15.PinADC
	reference physic.ElectricPotential
}

// NewADS1115 initializes periph, opens the bus and configures the channel.
func NewADS1115(cfg ADS1115Config) (*ADS1115, error) {
	if cfg.Channel < 0 || cfg.Channel >= len(channels) {
		return nil, fmt.Errorf("adc channel %d out of range 0..%d", cfg.Channel, len(channels)-1)
	}
	if cfg.ReferenceMV == 0 {
		cfg.ReferenceMV = 5000
	}
	if cfg.RateHz == 0 {
		cfg.RateHz = 860
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	opts := ads1x15.DefaultOpts
	if cfg.Address != 0 {
		opts.I2cAddress = cfg.Address
	}
	adc, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ads1115: %w", err)
	}

	reference := physic.ElectricPotential(cfg.ReferenceMV) * physic.MilliVolt
	pin, err := adc.PinForChannel(channels[cfg.Channel], reference, physic.Frequency(cfg.RateHz)*physic.Hertz, ads1x15.BestQuality)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("configure adc channel %d: %w", cfg.Channel, err)
	}

	return &ADS1115{
		bus:       bus,
		pin:       pin,
		reference: reference,
	}, nil
}

// Convert performs one single-shot conversion.
func (a *ADS1115) Convert() (uint16, error) {
	s, err := a.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("read adc: %w", err)
	}
	return scaleSample(s, a.reference), nil
}

func scaleSample(s analog.Sample, reference physic.ElectricPotential) uint16 {
	return Scale(int64(s.V), int64(reference))
}

// Close halts the channel and releases the bus.
func (a *ADS1115) Close() error {
	var errs []error
	if err := a.pin.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt adc: %w", err))
	}
	if err := a.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
