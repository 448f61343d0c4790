// internal/capture/builder.go
package capture

import (
	"github.com/tamzrod/edge-logger/internal/clock"
	"github.com/tamzrod/edge-logger/internal/config"
)

// Pipeline is the assembled capture path for one input line.
type Pipeline struct {
	Queue    *Queue
	Clock    *clock.Extension
	Producer *Producer
}

// Build assembles queue, clock extension and producer for the given
// timer. Assumes the configuration has already passed validation.
func Build(cfg config.CaptureConfig, t CaptureTimer) (*Pipeline, error) {
	q, err := NewQueue(cfg.BufferSize)
	if err != nil {
		return nil, err
	}

	clk, err := clock.New(t)
	if err != nil {
		return nil, err
	}

	p, err := NewProducer(t, clk, q)
	if err != nil {
		return nil, err
	}

	return &Pipeline{Queue: q, Clock: clk, Producer: p}, nil
}
