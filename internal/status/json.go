package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Phase         string     `json:"phase"`
	Magnet        bool       `json:"magnet"`
	Fan           bool       `json:"fan"`
	Faulted       bool       `json:"faulted"`
	Duration      *int16     `json:"duration,omitempty"` // nil when no pulse is scheduled
	PulseCount    uint16     `json:"pulse_count"`
	SampleCount   uint16     `json:"sample_count"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of the loop counters.
type CountsJSON struct {
	Iterations   uint64 `json:"iterations"`
	Pulses       uint64 `json:"pulses"`
	Faults       uint64 `json:"faults"`
	DiagDropped  uint64 `json:"diag_dropped"`
	SensorErrors uint64 `json:"sensor_errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Mode        string `json:"mode"`
	TickNs      int64  `json:"tick_ns"`
	PollUs      int64  `json:"poll_us"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Serial      string `json:"serial,omitempty"`
	Watchdog    string `json:"watchdog,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	ctl := snap.Control
	inner := StatusInner{
		Phase:         ctl.Phase.String(),
		Magnet:        ctl.Magnet,
		Fan:           ctl.Fan,
		Faulted:       ctl.Faulted,
		PulseCount:    ctl.PulseCount,
		SampleCount:   ctl.SampleCount,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Iterations:   snap.Iterations,
			Pulses:       ctl.Pulses,
			Faults:       ctl.Faults,
			DiagDropped:  snap.DiagDropped,
			SensorErrors: snap.SensorErrors,
		},
		Config: ConfigJSON{
			Mode:        snap.Config.Mode,
			TickNs:      snap.Config.Tick.Nanoseconds(),
			PollUs:      snap.Config.Poll.Microseconds(),
			HeartbeatMs: snap.Config.Heartbeat.Milliseconds(),
			Serial:      snap.Config.Serial,
			Watchdog:    snap.Config.Watchdog,
		},
	}
	if ctl.Duration.Enabled() {
		d := int16(ctl.Duration)
		inner.Duration = &d
	}
	return inner
}

// FormatStatusEvent returns the single-line JSON status tagged with event.
// An empty event is omitted.
func FormatStatusEvent(snap Snapshot, event string) []byte {
	inner := buildInner(snap)
	inner.Event = event

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

// FormatLine returns a one-line human-readable summary for the log.
func FormatLine(snap Snapshot) string {
	ctl := snap.Control
	return fmt.Sprintf("phase=%s magnet=%v fan=%v faulted=%v pulse_count=%d pulses=%d faults=%d iterations=%d diag_dropped=%d uptime=%v",
		ctl.Phase, ctl.Magnet, ctl.Fan, ctl.Faulted, ctl.PulseCount, ctl.Pulses, ctl.Faults,
		snap.Iterations, snap.DiagDropped, snap.Uptime().Truncate(time.Second))
}
