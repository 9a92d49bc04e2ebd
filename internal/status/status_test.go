package status

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/levitator/internal/control"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Mode: "sim", Tick: 200 * time.Nanosecond, Serial: "/dev/ttyAMA0"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Mode != "sim" {
		t.Errorf("Config.Mode: got %q, want sim", snap.Config.Mode)
	}
	if snap.Config.Serial != "/dev/ttyAMA0" {
		t.Errorf("Config.Serial: got %q, want /dev/ttyAMA0", snap.Config.Serial)
	}
	if snap.Iterations != 0 {
		t.Errorf("expected zero iterations initially, got %d", snap.Iterations)
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(control.Snapshot{Phase: control.PhaseMagnetOn, Magnet: true, Fan: true, Pulses: 3}, 42, 1)
	tr.SetSensorErrors(2)

	snap := tr.Snapshot()
	if snap.Control.Phase != control.PhaseMagnetOn {
		t.Errorf("Phase: got %v, want MAGNET_ON", snap.Control.Phase)
	}
	if !snap.Control.Magnet || !snap.Control.Fan {
		t.Error("expected magnet and fan on")
	}
	if snap.Control.Pulses != 3 {
		t.Errorf("Pulses: got %d, want 3", snap.Control.Pulses)
	}
	if snap.Iterations != 42 {
		t.Errorf("Iterations: got %d, want 42", snap.Iterations)
	}
	if snap.DiagDropped != 1 {
		t.Errorf("DiagDropped: got %d, want 1", snap.DiagDropped)
	}
	if snap.SensorErrors != 2 {
		t.Errorf("SensorErrors: got %d, want 2", snap.SensorErrors)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(control.Snapshot{Phase: control.PhaseAdcDelay}, 1, 0)

	snap1 := tr.Snapshot()

	tr.Update(control.Snapshot{Phase: control.PhaseHandleAdc}, 2, 0)

	if snap1.Control.Phase != control.PhaseAdcDelay {
		t.Error("snapshot should be a copy; Phase was modified")
	}
	if snap1.Iterations != 1 {
		t.Error("snapshot should be a copy; Iterations was modified")
	}
}

func TestFormatStatus(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Control: control.Snapshot{
			Phase:       control.PhaseMagnetOn,
			Duration:    -15152,
			PulseCount:  4,
			SampleCount: 1,
			Magnet:      true,
			Fan:         true,
			Pulses:      10,
			Faults:      1,
		},
		Iterations: 1234,
		StartTime:  start,
		Now:        start.Add(15 * time.Minute),
		Config:     Config{Mode: "hardware", Tick: 200 * time.Nanosecond, Poll: 5 * time.Microsecond, Heartbeat: 10 * time.Second},
	}

	data := FormatStatusEvent(snap, "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	s := parsed.Status
	if s.Phase != "MAGNET_ON" {
		t.Errorf("Phase: got %q, want MAGNET_ON", s.Phase)
	}
	if !s.Magnet || !s.Fan || s.Faulted {
		t.Errorf("outputs: got magnet=%v fan=%v faulted=%v", s.Magnet, s.Fan, s.Faulted)
	}
	if s.Duration == nil || *s.Duration != -15152 {
		t.Errorf("Duration: got %v, want -15152", s.Duration)
	}
	if s.PulseCount != 4 {
		t.Errorf("PulseCount: got %d, want 4", s.PulseCount)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if s.Counts.Pulses != 10 || s.Counts.Faults != 1 || s.Counts.Iterations != 1234 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Config.Mode != "hardware" || s.Config.TickNs != 200 || s.Config.PollUs != 5 || s.Config.HeartbeatMs != 10000 {
		t.Errorf("Config: got %+v", s.Config)
	}
	if s.Event != "" {
		t.Errorf("expected no event, got %q", s.Event)
	}
}

func TestFormatStatusOmitsDisabledDuration(t *testing.T) {
	snap := Snapshot{Control: control.Snapshot{Duration: control.Disabled, PulseCount: control.MaxPulses, Faulted: true}}

	data := FormatStatusEvent(snap, "")
	if strings.Contains(string(data), `"duration"`) {
		t.Errorf("expected duration omitted, got %s", data)
	}

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Status.Faulted {
		t.Error("expected faulted=true")
	}
	if parsed.Status.Phase != "MAGNET_OFF" {
		t.Errorf("Phase: got %q, want MAGNET_OFF", parsed.Status.Phase)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(time.Minute)}

	data := FormatStatusEvent(snap, "shutdown")
	if strings.Contains(string(data), "\n") {
		t.Errorf("expected single-line JSON, got %q", data)
	}

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Status.Event != "shutdown" {
		t.Errorf("Event: got %q, want shutdown", parsed.Status.Event)
	}
	if parsed.Status.UptimeSeconds != 60 {
		t.Errorf("UptimeSeconds: got %d, want 60", parsed.Status.UptimeSeconds)
	}
}

func TestFormatLine(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Control:    control.Snapshot{Phase: control.PhaseHandleAdc, Pulses: 7},
		Iterations: 99,
		StartTime:  start,
		Now:        start.Add(90 * time.Second),
	}

	line := FormatLine(snap)
	for _, want := range []string{"phase=HANDLE_ADC", "pulses=7", "iterations=99", "uptime=1m30s"} {
		if !strings.Contains(line, want) {
			t.Errorf("FormatLine: %q missing %q", line, want)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(control.Snapshot{Pulses: uint64(i)}, uint64(i), 0)
			tr.SetSensorErrors(uint64(i))
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
		}
	}()

	wg.Wait()
}
