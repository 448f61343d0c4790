// internal/logctl/builder.go
package logctl

import (
	"github.com/tamzrod/edge-logger/internal/capture"
	"github.com/tamzrod/edge-logger/internal/config"
	"github.com/tamzrod/edge-logger/internal/pins"
	"github.com/tamzrod/edge-logger/internal/record"
)

// Build wires a machine from declarative configuration, converting the
// millisecond knobs to ticks of the configured capture clock.
// Assumes the configuration has already passed validation, so both
// windows fit the 32-bit tick line.
func Build(cfg config.LoggerConfig, q *capture.Queue, now func() uint32, sw pins.Input, led pins.Output, rec *record.Writer) (*Machine, error) {
	mc := Config{
		DebounceTicks:  msToTicks(cfg.Capture.TickHz, uint32(cfg.Switch.DebounceMs)),
		HeartbeatTicks: msToTicks(cfg.Capture.TickHz, uint32(cfg.HeartbeatMs)),
	}
	return New(mc, q, now, sw, led, rec)
}

func msToTicks(hz uint32, ms uint32) uint32 {
	return uint32(uint64(hz) * uint64(ms) / 1000)
}
