// internal/sim/timer.go
package sim

import (
	"sync"

	"github.com/tamzrod/edge-logger/internal/capture"
)

// noiseWindow is the filter span in ticks: a transition closer than this
// to the previous one is treated as a runt and never latched.
const noiseWindow = 4

// Handler receives capture and overflow dispatches from the timer, in
// event order, always on the advancing goroutine. That goroutine is the
// capture context of the pipeline.
type Handler interface {
	OnCapture()
	OnOverflow()
}

// Config describes the simulated input line and filter.
type Config struct {
	HighTicks   uint64
	LowTicks    uint64
	NoiseFilter bool
}

// Timer simulates a free-running 16-bit timer with one input-capture
// channel, fed by a square wave on a virtual 64-bit tick line. The line
// starts low; the first transition is a rising edge after LowTicks.
//
// Captures latch only when the transition polarity matches the armed
// edge, exactly like the hardware channel. At each 16-bit wrap the
// overflow flag raises first and any same-tick capture dispatches before
// the overflow handler, reproducing capture-interrupt priority; that
// ordering is what the clock extension's boundary guard exists for.
type Timer struct {
	mu sync.Mutex

	total uint64 // virtual absolute tick line

	armed           capture.Edge
	latched         uint16
	capturePending  bool
	overflowPending bool

	level      bool // current line level
	nextToggle uint64
	lastToggle uint64
	highTicks  uint64
	lowTicks   uint64
	filter     bool

	h Handler
}

// NewTimer builds an unbound timer. Bind a handler before advancing, or
// events pass without dispatch.
func NewTimer(cfg Config) *Timer {
	return &Timer{
		armed:      capture.Rising,
		nextToggle: cfg.LowTicks,
		highTicks:  cfg.HighTicks,
		lowTicks:   cfg.LowTicks,
		filter:     cfg.NoiseFilter,
	}
}

// Bind attaches the capture-context handler.
func (t *Timer) Bind(h Handler) {
	t.mu.Lock()
	t.h = h
	t.mu.Unlock()
}

// AdvanceTo moves the virtual tick line forward to target, applying every
// wave transition and counter wrap on the way in tick order and
// dispatching the bound handler for each. Targets at or before the
// current position are no-ops. Dispatch happens outside the timer lock so
// handlers are free to call back into the register surface.
func (t *Timer) AdvanceTo(target uint64) {
	for {
		t.mu.Lock()

		nextWrap := ((t.total >> 16) + 1) << 16
		next := nextWrap
		if t.nextToggle < next {
			next = t.nextToggle
		}
		if next > target {
			if target > t.total {
				t.total = target
			}
			t.mu.Unlock()
			return
		}

		t.total = next
		wrapHere := next == nextWrap
		fireCapture := false

		if wrapHere {
			t.overflowPending = true
		}

		if next == t.nextToggle {
			t.level = !t.level

			polarity := capture.Falling
			if t.level {
				polarity = capture.Rising
			}

			runt := t.filter && next-t.lastToggle < noiseWindow
			t.lastToggle = next
			if t.level {
				t.nextToggle = next + t.highTicks
			} else {
				t.nextToggle = next + t.lowTicks
			}

			if !runt && polarity == t.armed {
				t.latched = uint16(next)
				t.capturePending = true
				fireCapture = true
			}
		}

		h := t.h
		t.mu.Unlock()

		if h == nil {
			continue
		}
		if fireCapture {
			h.OnCapture()
		}
		if wrapHere {
			h.OnOverflow()
		}
	}
}

// ---- register surface (capture.CaptureTimer / clock.Counter) ----

func (t *Timer) Arm(edge capture.Edge) {
	t.mu.Lock()
	t.armed = edge
	t.mu.Unlock()
}

func (t *Timer) Armed() capture.Edge {
	t.mu.Lock()
	e := t.armed
	t.mu.Unlock()
	return e
}

func (t *Timer) Latched() uint16 {
	t.mu.Lock()
	v := t.latched
	t.mu.Unlock()
	return v
}

func (t *Timer) Count() uint16 {
	t.mu.Lock()
	v := uint16(t.total)
	t.mu.Unlock()
	return v
}

func (t *Timer) OverflowPending() bool {
	t.mu.Lock()
	p := t.overflowPending
	t.mu.Unlock()
	return p
}

func (t *Timer) AckCapture() {
	t.mu.Lock()
	t.capturePending = false
	t.mu.Unlock()
}

func (t *Timer) AckOverflow() {
	t.mu.Lock()
	t.overflowPending = false
	t.mu.Unlock()
}
