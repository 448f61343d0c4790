// internal/logctl/runner.go
package logctl

import (
	"context"
	"time"
)

// Run drives the mainline loop at a fixed cadence until ctx ends. One
// Tick per wakeup. No overlap. No catch-up.
func (m *Machine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick()
		}
	}
}
