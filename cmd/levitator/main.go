// Command levitator holds a ferromagnetic object under a single coil by
// pulsing the magnet from ADC feedback, with a fan cooling the coil.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/levitator/internal/config"
	"github.com/sweeney/levitator/internal/control"
	"github.com/sweeney/levitator/internal/diag"
	"github.com/sweeney/levitator/internal/gpio"
	"github.com/sweeney/levitator/internal/sensor"
	"github.com/sweeney/levitator/internal/sim"
	"github.com/sweeney/levitator/internal/status"
	"github.com/sweeney/levitator/internal/timer"
	"github.com/sweeney/levitator/internal/watchdog"
)

func main() {
	configPath := flag.String("config", "/etc/levitator.yaml", "Platform configuration file")
	simMode := flag.Bool("sim", false, "Run against the simulated plant instead of hardware")
	printState := flag.Bool("print-state", false, "Take one ADC sample, print it and exit")
	heartbeat := flag.Duration("heartbeat", time.Minute, "Heartbeat log interval (0 to disable)")
	poll := flag.Duration("poll", 0, "Delay between main-loop iterations (0 to run flat out)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg, *simMode, *printState, *heartbeat, *poll); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// peripherals is everything runLoop drives.
type peripherals struct {
	timer   control.Timer
	sensor  control.Sensor
	outputs gpio.Outputs
	tx      diag.Transmitter
	wd      watchdog.Watchdog

	// plant is advanced once per iteration in sim mode, nil on hardware.
	plant *sim.Plant
	// sensorErrors reports failed conversions, nil when the sensor cannot fail.
	sensorErrors func() uint64
}

func run(cfg *config.Config, simMode, printState bool, heartbeat, poll time.Duration) error {
	var p peripherals
	mode := "hardware"

	if simMode {
		mode = "sim"
		plant := sim.New(cfg.Sim, time.Now())
		p.plant = plant
		p.timer = timer.NewCountdown(plant.Now, cfg.Timer.Tick)
		p.sensor = plant
		p.outputs = plant

		if printState {
			return printSample(plant)
		}
	} else {
		adc, err := sensor.NewADS1115(sensor.ADS1115Config{
			Bus:         cfg.ADC.Bus,
			Address:     cfg.ADC.Address,
			Channel:     cfg.ADC.Channel,
			ReferenceMV: cfg.ADC.ReferenceMV,
			RateHz:      cfg.ADC.RateHz,
		})
		if err != nil {
			return fmt.Errorf("init adc: %w", err)
		}
		if printState {
			defer adc.Close()
			return printSample(adc)
		}
		async := sensor.NewAsync(adc)
		defer async.Close()
		p.sensor = async
		p.sensorErrors = async.Errors

		outputs, err := gpio.NewRealOutputs(cfg.GPIO.Chip, cfg.GPIO.Magnet, cfg.GPIO.Fan)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		p.outputs = outputs
		p.timer = timer.NewCountdown(time.Now, cfg.Timer.Tick)
	}
	defer p.outputs.Close()

	if cfg.Serial.Port != "" {
		tx, err := diag.NewSerialTransmitter(cfg.Serial.Port, cfg.Serial.BaudRate)
		if err != nil {
			return fmt.Errorf("init serial: %w", err)
		}
		p.tx = tx
	} else {
		p.tx = diag.NewWriterTransmitter(os.Stdout)
	}
	defer p.tx.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Mode:      mode,
		Tick:      cfg.Timer.Tick,
		Poll:      poll,
		Heartbeat: heartbeat,
		Serial:    cfg.Serial.Port,
		Watchdog:  cfg.Watchdog.Device,
	})

	if cfg.Watchdog.Device != "" {
		wd, err := watchdog.OpenDevice(cfg.Watchdog.Device, cfg.Watchdog.Interval)
		if err != nil {
			return fmt.Errorf("init watchdog: %w", err)
		}
		p.wd = wd
	} else {
		outputs := p.outputs
		p.wd = watchdog.NewSoft(cfg.Watchdog.Timeout, func() {
			outputs.SetMagnet(false)
			outputs.SetFan(false)
			log.Printf("watchdog: main loop stalled for %v, %s", cfg.Watchdog.Timeout, status.FormatLine(tracker.Snapshot()))
			os.Exit(2)
		})
	}
	defer p.wd.Close()

	log.Printf("started: mode=%s tick=%v poll=%v heartbeat=%v serial=%q", mode, cfg.Timer.Tick, poll, heartbeat, cfg.Serial.Port)

	var tick <-chan time.Time
	if poll > 0 {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		tick = ticker.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(p, tracker, heartbeat, time.Now, tick, sigCh)
}

// runLoop is the main loop: feed the watchdog, move one diagnostic byte out,
// then run the control state machine once. A nil tick runs iterations back
// to back.
func runLoop(p peripherals, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	ring := diag.NewRing()
	ring.PrintText(diag.Banner)
	if err := ring.Flush(p.tx, p.wd.Kick); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}

	loop := control.NewLoop(p.timer, p.sensor, p.outputs, ring)
	faulted := loop.Snapshot().Faulted
	lastHeartbeat := now()

	var iterations, txErrors uint64
	for {
		if tick != nil {
			select {
			case s := <-sig:
				return shutdown(s, p, ring, loop, tracker, iterations)
			case <-tick:
			}
		} else {
			select {
			case s := <-sig:
				return shutdown(s, p, ring, loop, tracker, iterations)
			default:
			}
		}

		p.wd.Kick()
		if err := ring.Service(p.tx); err != nil {
			txErrors++
			if txErrors <= 5 {
				log.Printf("diag: %v", err)
			}
		}
		loop.Step()
		if p.plant != nil {
			p.plant.Advance()
		}
		iterations++

		snap := loop.Snapshot()
		if snap.Faulted != faulted {
			faulted = snap.Faulted
			if faulted {
				log.Printf("control: pulse limit reached after %d pulses, holding magnet off", snap.Pulses)
			} else {
				log.Printf("control: sample at target, pulsing enabled")
			}
		}
		tracker.Update(snap, iterations, ring.Dropped())

		if heartbeat > 0 {
			if t := now(); t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				if p.sensorErrors != nil {
					tracker.SetSensorErrors(p.sensorErrors())
				}
				log.Printf("heartbeat: %s", status.FormatLine(tracker.Snapshot()))
			}
		}
	}
}

// shutdown turns the coil and fan off and drains what is left of the
// diagnostic stream. Devices are closed by run.
func shutdown(s os.Signal, p peripherals, ring *diag.Ring, loop *control.Loop, tracker *status.Tracker, iterations uint64) error {
	log.Printf("received %v, shutting down", s)

	p.outputs.SetMagnet(false)
	p.outputs.SetFan(false)
	if err := ring.Flush(p.tx, p.wd.Kick); err != nil {
		log.Printf("diag: flush: %v", err)
	}

	snap := loop.Snapshot()
	snap.Magnet = false
	snap.Fan = false
	tracker.Update(snap, iterations, ring.Dropped())
	if p.sensorErrors != nil {
		tracker.SetSensorErrors(p.sensorErrors())
	}
	log.Printf("%s", status.FormatStatusEvent(tracker.Snapshot(), "shutdown"))
	return nil
}

// printSample takes one conversion and reports it against the target.
func printSample(conv sensor.Converter) error {
	v, err := conv.Convert()
	if err != nil {
		return fmt.Errorf("read adc: %w", err)
	}
	fmt.Printf("ADC: %d (target %d, %s)\n", v, control.TargetADC, targetString(v))
	return nil
}

func targetString(v uint16) string {
	if v >= control.TargetADC {
		return "AT_OR_ABOVE"
	}
	return "BELOW"
}
