// internal/writer/runner.go
package writer

import (
	"context"
	"log"
	"time"

	"github.com/tamzrod/edge-logger/internal/status"
)

// Run mirrors snapshots at a fixed interval until ctx ends. Delivery
// failures are logged and retried on the next cycle; the mirror must
// never take the logger down.
func Run(ctx context.Context, sw StatusWriter, interval time.Duration, collect func() status.Snapshot) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sw.WriteStatus(collect()); err != nil {
				log.Printf("writer: %v", err)
			}
		}
	}
}
