// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration: an 8 MHz capture clock,
// a 64-slot buffer, console output and the simulated square-wave source.
// It matches the hardware profile the wire format was defined against.
func Default() *Config {
	return &Config{
		Logger: LoggerConfig{
			Capture: CaptureConfig{
				TickHz:     8_000_000,
				BufferSize: 64,
			},
			Switch: SwitchConfig{
				DebounceMs: 50,
			},
			Output: OutputConfig{
				Kind:      "console",
				Baud:      115200,
				TimeoutMs: 5000,
			},
			Source: SourceConfig{
				Kind:      "sim",
				HighTicks: 120_000,
				LowTicks:  280_000,
			},
			HeartbeatMs:    1000,
			PollIntervalUs: 500,
		},
	}
}

// Load reads a YAML file and overlays it on Default().
// An empty path returns Default() unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
