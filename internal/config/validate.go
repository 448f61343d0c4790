// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	lg := &cfg.Logger

	// ------------------------------------------------------------
	// CAPTURE CLOCK AND BUFFER GEOMETRY
	// ------------------------------------------------------------

	if lg.Capture.TickHz == 0 {
		return fmt.Errorf("capture: tick_hz must be positive")
	}

	n := lg.Capture.BufferSize
	if n < 2 || n > 256 {
		return fmt.Errorf("capture: buffer_size %d out of range (2..256)", n)
	}
	if n&(n-1) != 0 {
		return fmt.Errorf("capture: buffer_size %d is not a power of two", n)
	}

	// ------------------------------------------------------------
	// SWITCH AND TIMING WINDOWS
	// ------------------------------------------------------------

	if lg.Switch.DebounceMs < 0 {
		return fmt.Errorf("switch: debounce_ms must not be negative")
	}
	if lg.HeartbeatMs <= 0 {
		return fmt.Errorf("heartbeat_ms must be positive")
	}
	if lg.PollIntervalUs <= 0 {
		return fmt.Errorf("poll_interval_us must be positive")
	}

	// Both windows are converted to ticks downstream and MUST fit the
	// 32-bit tick line at the configured clock rate.
	const maxTickSpan = 1<<32 - 1
	if uint64(lg.Capture.TickHz)*uint64(lg.Switch.DebounceMs)/1000 > maxTickSpan {
		return fmt.Errorf("switch: debounce_ms %d exceeds the tick range at %d Hz", lg.Switch.DebounceMs, lg.Capture.TickHz)
	}
	if uint64(lg.Capture.TickHz)*uint64(lg.HeartbeatMs)/1000 > maxTickSpan {
		return fmt.Errorf("heartbeat_ms %d exceeds the tick range at %d Hz", lg.HeartbeatMs, lg.Capture.TickHz)
	}

	// ------------------------------------------------------------
	// OUTPUT TRANSPORT
	// ------------------------------------------------------------

	switch lg.Output.Kind {
	case "console":
		// nothing to check
	case "serial":
		if lg.Output.Device == "" {
			return fmt.Errorf("output: serial output requires a device")
		}
		if lg.Output.Baud <= 0 {
			return fmt.Errorf("output: baud must be positive")
		}
	case "tcp":
		if lg.Output.Address == "" {
			return fmt.Errorf("output: tcp output requires an address")
		}
		if lg.Output.TimeoutMs < 0 {
			return fmt.Errorf("output: timeout_ms must not be negative")
		}
	default:
		return fmt.Errorf("output: unknown kind %q", lg.Output.Kind)
	}

	// ------------------------------------------------------------
	// EDGE SOURCE
	// ------------------------------------------------------------

	if lg.Source.Kind != "sim" {
		return fmt.Errorf("source: unknown kind %q", lg.Source.Kind)
	}
	if lg.Source.HighTicks == 0 || lg.Source.LowTicks == 0 {
		return fmt.Errorf("source: high_ticks and low_ticks must be positive")
	}

	// ------------------------------------------------------------
	// SUPERVISION STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if lg.Status == nil {
		return nil
	}

	if lg.Status.Endpoint == "" {
		return fmt.Errorf("status: endpoint is required")
	}
	if lg.Status.IntervalMs < 0 {
		return fmt.Errorf("status: interval_ms must not be negative")
	}
	if lg.Status.TimeoutMs < 0 {
		return fmt.Errorf("status: timeout_ms must not be negative")
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(lg.Status.DeviceName); i++ {
		if lg.Status.DeviceName[i] > 0x7F {
			return fmt.Errorf("status: device_name must contain ASCII characters only")
		}
	}

	return nil
}
