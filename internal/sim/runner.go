// internal/sim/runner.go
package sim

import (
	"context"
	"errors"
	"time"
)

// advanceEvery is the wall-clock granularity of the virtual tick line.
const advanceEvery = 200 * time.Microsecond

// Runner paces the virtual tick line against the wall clock so the
// simulated peripheral free-runs like hardware. The goroutine that calls
// Run owns every handler dispatch.
type Runner struct {
	t      *Timer
	tickHz uint32
}

// NewRunner creates a runner with an immutable tick rate.
func NewRunner(t *Timer, tickHz uint32) (*Runner, error) {
	if t == nil {
		return nil, errors.New("sim: timer required")
	}
	if tickHz == 0 {
		return nil, errors.New("sim: tick rate must be > 0")
	}
	return &Runner{t: t, tickHz: tickHz}, nil
}

// Run advances the timer until ctx ends. No overlap, no catch-up skew:
// the target is always recomputed from total elapsed time.
func (r *Runner) Run(ctx context.Context) {
	start := time.Now()
	ticker := time.NewTicker(advanceEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.t.AdvanceTo(r.targetTicks(time.Since(start)))
		}
	}
}

// targetTicks converts elapsed wall time to absolute ticks without
// overflowing the intermediate product on long runs.
func (r *Runner) targetTicks(elapsed time.Duration) uint64 {
	secs := uint64(elapsed / time.Second)
	rem := uint64(elapsed % time.Second)
	return secs*uint64(r.tickHz) + rem*uint64(r.tickHz)/uint64(time.Second)
}
