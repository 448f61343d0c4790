// internal/output/serial.go
package output

import (
	"fmt"
	"time"

	"github.com/goburrow/serial"

	"github.com/tamzrod/edge-logger/internal/config"
)

// openSerial opens the configured device as an 8N1 line. The returned
// port blocks per write up to the configured timeout.
func openSerial(cfg config.OutputConfig) (Port, error) {
	p, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  time.Duration(cfg.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("output: open serial %s: %w", cfg.Device, err)
	}
	return p, nil
}
