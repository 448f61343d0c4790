// internal/writer/builder.go
package writer

import (
	"time"

	"github.com/tamzrod/edge-logger/internal/config"
	wmodbus "github.com/tamzrod/edge-logger/internal/writer/modbus"
)

// Build connects the mirror endpoint and assembles the status writer.
// A nil status config means the mirror is disabled.
func Build(sc *config.StatusConfig) (*deviceStatusWriter, func() error, error) {
	if sc == nil {
		return nil, nil, nil
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: sc.Endpoint,
		UnitID:   sc.UnitID,
		Timeout:  time.Duration(sc.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw, err := NewDeviceStatusWriter(cli, sc.BaseAddress, sc.DeviceName)
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}

	return sw, cli.Close, nil
}
