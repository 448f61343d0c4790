// internal/output/builder.go
package output

import (
	"fmt"

	"github.com/tamzrod/edge-logger/internal/config"
)

// Build opens the configured output port.
// Assumes the configuration has already passed validation.
func Build(cfg config.OutputConfig) (Port, error) {
	switch cfg.Kind {
	case "console":
		return Console(), nil
	case "serial":
		return openSerial(cfg)
	case "tcp":
		return dialTCP(cfg)
	default:
		return nil, fmt.Errorf("output: unknown kind %q", cfg.Kind)
	}
}
