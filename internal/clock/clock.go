// internal/clock/clock.go
package clock

import (
	"errors"
	"sync/atomic"
)

// Counter is the live view of the 16-bit hardware clock the extension
// widens. Count returns the free-running counter; OverflowPending reports
// a counter wrap that has not been serviced yet.
type Counter interface {
	Count() uint16
	OverflowPending() bool
}

// Extension widens the 16-bit hardware counter into a 32-bit monotonic
// tick count. The high half lives in software and advances once per
// hardware wrap.
//
// OnOverflow and Resolve run in the capture context; Now runs in the
// mainline loop concurrently. The high half is therefore accessed
// atomically, never under a lock.
type Extension struct {
	t  Counter
	hi atomic.Uint32 // low 16 bits hold the overflow count
}

// New creates an extension over the given counter.
func New(t Counter) (*Extension, error) {
	if t == nil {
		return nil, errors.New("clock: counter required")
	}
	return &Extension{t: t}, nil
}

// OnOverflow advances the software high half by one. It MUST be called
// exactly once per hardware counter wrap, from the same context that
// services captures.
func (x *Extension) OnOverflow() {
	x.hi.Store((x.hi.Load() + 1) & 0xFFFF)
}

// Resolve combines a latched counter value with the software high half.
//
// A capture can race the wrap it belongs to: the hardware latches a small
// counter value while the wrap is still pending and the high half is
// stale. In that window the event happened after the wrap, so the next
// high half applies. A large latched value with a pending wrap means the
// capture predates the wrap and keeps the current high half. Without this
// guard, a capture in the first half-cycle concurrent with an unserviced
// wrap reads 65536 ticks low.
func (x *Extension) Resolve(raw uint16, overflowPending bool) uint32 {
	hi := uint16(x.hi.Load())
	if overflowPending && raw < 0x8000 {
		hi++
	}
	return uint32(hi)<<16 | uint32(raw)
}

// Now returns the current absolute tick, composed from the live counter
// and the high half under the same wrap guard as Resolve.
//
// The high half and pending flag are sampled on both sides of the raw
// counter read; if a wrap is serviced between the two samples the read
// retries, so Now never steps backward.
func (x *Extension) Now() uint32 {
	for {
		hiA := uint16(x.hi.Load())
		pendA := x.t.OverflowPending()
		raw := x.t.Count()
		pendB := x.t.OverflowPending()
		hiB := uint16(x.hi.Load())

		if hiA != hiB || pendA != pendB {
			continue
		}

		hi := hiA
		if pendA && raw < 0x8000 {
			hi++
		}
		return uint32(hi)<<16 | uint32(raw)
	}
}

// Reset zeroes the software high half. Hardware state is untouched.
func (x *Extension) Reset() {
	x.hi.Store(0)
}
