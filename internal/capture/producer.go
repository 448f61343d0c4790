// internal/capture/producer.go
package capture

import (
	"errors"

	"github.com/tamzrod/edge-logger/internal/clock"
)

// Producer is the capture-context half of the pipeline. The timer
// implementation dispatches OnCapture once per qualifying edge and
// OnOverflow once per counter wrap, always from one single context;
// neither handler is re-entered before it returns.
type Producer struct {
	t   CaptureTimer
	clk *clock.Extension
	q   *Queue
}

// NewProducer wires the handlers to their timer, clock and queue, and
// arms the first capture on the rising edge.
func NewProducer(t CaptureTimer, clk *clock.Extension, q *Queue) (*Producer, error) {
	if t == nil {
		return nil, errors.New("capture: timer required")
	}
	if clk == nil {
		return nil, errors.New("capture: clock extension required")
	}
	if q == nil {
		return nil, errors.New("capture: queue required")
	}

	t.Arm(Rising)
	return &Producer{t: t, clk: clk, q: q}, nil
}

// OnCapture services one latched edge: resolve the absolute tick, enqueue
// or count the drop, acknowledge the capture flag, then re-arm for the
// opposite polarity so successive captures alternate and reconstruct the
// full input period.
//
// The armed polarity is sampled before the re-arm toggle; it identifies
// the edge that actually fired. Constant-time, allocation-free, never
// blocks.
func (p *Producer) OnCapture() {
	edge := p.t.Armed()
	raw := p.t.Latched()
	ticks := p.clk.Resolve(raw, p.t.OverflowPending())

	p.q.TrySend(Event{Ticks: ticks, Edge: edge})

	p.t.AckCapture()
	p.t.Arm(edge.Opposite())
}

// OnOverflow advances the software clock half, then acknowledges the
// wrap.
func (p *Producer) OnOverflow() {
	p.clk.OnOverflow()
	p.t.AckOverflow()
}
