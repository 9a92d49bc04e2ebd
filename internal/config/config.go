// Package config holds the platform wiring of the levitator daemon: which
// devices and lines it drives, and the simulated plant used when no hardware
// is attached. The control tunables are not configurable; they are
// constants in package control.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration.
type Config struct {
	GPIO     GPIOConfig     `yaml:"gpio"`
	Serial   SerialConfig   `yaml:"serial"`
	ADC      ADCConfig      `yaml:"adc"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	Timer    TimerConfig    `yaml:"timer"`
	Sim      SimConfig      `yaml:"sim"`
}

// GPIOConfig selects the output lines.
type GPIOConfig struct {
	Chip   string `yaml:"chip"`
	Magnet int    `yaml:"magnet"`
	Fan    int    `yaml:"fan"`
}

// SerialConfig selects the diagnostic link. An empty port writes
// diagnostics to stdout.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ADCConfig selects the ADS1115 converter and channel.
type ADCConfig struct {
	Bus         string `yaml:"bus"`
	Address     uint16 `yaml:"address"`
	Channel     int    `yaml:"channel"`
	ReferenceMV int    `yaml:"reference_mv"` // voltage mapped to full scale
	RateHz      int    `yaml:"rate_hz"`
}

// WatchdogConfig selects the liveness watchdog. An empty device uses the
// in-process watchdog with Timeout.
type WatchdogConfig struct {
	Device   string        `yaml:"device"`
	Interval time.Duration `yaml:"interval"` // minimum time between device keepalives
	Timeout  time.Duration `yaml:"timeout"`  // software watchdog timeout
}

// TimerConfig sets the countdown tick period.
type TimerConfig struct {
	Tick time.Duration `yaml:"tick"`
}

// SimConfig contains simulated plant parameters.
type SimConfig struct {
	Step         time.Duration `yaml:"step"`          // virtual time per main-loop iteration
	Conversion   time.Duration `yaml:"conversion"`    // ADC conversion time
	Gravity      float32       `yaml:"gravity"`       // m/s²
	MagnetAccel  float32       `yaml:"magnet_accel"`  // lift at the reference gap, m/s²
	ReferenceGap float32       `yaml:"reference_gap"` // m
	MaxGap       float32       `yaml:"max_gap"`       // object rests on its stand here, m
	MinGap       float32       `yaml:"min_gap"`       // object touches the magnet here, m
	TargetGap    float32       `yaml:"target_gap"`    // gap that reads as the target sample, m
	SensorSlope  float32       `yaml:"sensor_slope"`  // sample counts per metre of gap
	Noise        float32       `yaml:"noise"`         // sample noise amplitude, counts
	Seed         int64         `yaml:"seed"`
	Damping      float32       `yaml:"damping"`     // 1/s
	InitialGap   float32       `yaml:"initial_gap"` // m
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		GPIO: GPIOConfig{
			Chip:   "gpiochip0",
			Magnet: 17,
			Fan:    27,
		},
		Serial: SerialConfig{
			Port:     "",
			BaudRate: 115200,
		},
		ADC: ADCConfig{
			Bus:         "",
			Address:     0x48,
			Channel:     0,
			ReferenceMV: 5000,
			RateHz:      860,
		},
		Watchdog: WatchdogConfig{
			Device:   "",
			Interval: time.Second,
			Timeout:  2 * time.Second,
		},
		Timer: TimerConfig{
			Tick: 200 * time.Nanosecond,
		},
		Sim: SimConfig{
			Step:         10 * time.Microsecond,
			Conversion:   20 * time.Microsecond,
			Gravity:      9.81,
			MagnetAccel:  37,
			ReferenceGap: 0.010,
			MaxGap:       0.020,
			MinGap:       0.002,
			TargetGap:    0.010,
			SensorSlope:  -20000,
			Noise:        2,
			Seed:         1,
			Damping:      5,
			InitialGap:   0.008,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a driver.
func (c *Config) Validate() error {
	var errs []error
	if c.GPIO.Magnet < 0 || c.GPIO.Fan < 0 {
		errs = append(errs, errors.New("gpio lines must be non-negative"))
	}
	if c.GPIO.Magnet == c.GPIO.Fan {
		errs = append(errs, fmt.Errorf("gpio magnet and fan share line %d", c.GPIO.Magnet))
	}
	if c.Serial.BaudRate < 0 {
		errs = append(errs, fmt.Errorf("serial baud_rate %d is negative", c.Serial.BaudRate))
	}
	if c.ADC.Channel < 0 || c.ADC.Channel > 3 {
		errs = append(errs, fmt.Errorf("adc channel %d out of range 0..3", c.ADC.Channel))
	}
	if c.ADC.ReferenceMV <= 0 {
		errs = append(errs, errors.New("adc reference_mv must be positive"))
	}
	if c.Timer.Tick <= 0 {
		errs = append(errs, errors.New("timer tick must be positive"))
	}
	if c.Watchdog.Device == "" && c.Watchdog.Timeout <= 0 {
		errs = append(errs, errors.New("watchdog timeout must be positive"))
	}
	if c.Sim.Step <= 0 {
		errs = append(errs, errors.New("sim step must be positive"))
	}
	if c.Sim.MinGap >= c.Sim.MaxGap {
		errs = append(errs, errors.New("sim min_gap must be below max_gap"))
	}
	return errors.Join(errs...)
}
