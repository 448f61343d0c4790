// internal/sim/builder.go
package sim

import (
	"fmt"

	"github.com/tamzrod/edge-logger/internal/config"
)

// Build constructs the simulated timer from source and capture settings.
// Assumes the configuration has already passed validation.
func Build(src config.SourceConfig, cc config.CaptureConfig) (*Timer, error) {
	if src.Kind != "sim" {
		return nil, fmt.Errorf("sim: unsupported source kind %q", src.Kind)
	}

	filter := cc.NoiseFilter != nil && *cc.NoiseFilter

	return NewTimer(Config{
		HighTicks:   uint64(src.HighTicks),
		LowTicks:    uint64(src.LowTicks),
		NoiseFilter: filter,
	}), nil
}
