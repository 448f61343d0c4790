// internal/capture/producer_test.go
package capture

import (
	"testing"

	"github.com/tamzrod/edge-logger/internal/clock"
)

// fake capture timer recording register traffic
type fakeTimer struct {
	armed   Edge
	latched uint16
	count   uint16
	pending bool

	calls []string
}

func (f *fakeTimer) Arm(e Edge) {
	f.armed = e
	f.calls = append(f.calls, "arm:"+string(e.Char()))
}

func (f *fakeTimer) Armed() Edge { return f.armed }

func (f *fakeTimer) Latched() uint16 { return f.latched }

func (f *fakeTimer) Count() uint16 { return f.count }

func (f *fakeTimer) OverflowPending() bool { return f.pending }

func (f *fakeTimer) AckCapture() {
	f.calls = append(f.calls, "ack_capture")
}

func (f *fakeTimer) AckOverflow() {
	f.pending = false
	f.calls = append(f.calls, "ack_overflow")
}

func newPipeline(t *testing.T, ft *fakeTimer, queueSize int) (*Producer, *clock.Extension, *Queue) {
	t.Helper()

	q, err := NewQueue(queueSize)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	clk, err := clock.New(ft)
	if err != nil {
		t.Fatalf("clock.New: %v", err)
	}
	p, err := NewProducer(ft, clk, q)
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	return p, clk, q
}

// ---- tests ----

func TestNewProducer_RequiresCollaborators(t *testing.T) {
	ft := &fakeTimer{}
	q, _ := NewQueue(4)
	clk, _ := clock.New(ft)

	if _, err := NewProducer(nil, clk, q); err == nil {
		t.Fatalf("expected error for nil timer")
	}
	if _, err := NewProducer(ft, nil, q); err == nil {
		t.Fatalf("expected error for nil clock")
	}
	if _, err := NewProducer(ft, clk, nil); err == nil {
		t.Fatalf("expected error for nil queue")
	}
}

func TestNewProducer_ArmsRisingFirst(t *testing.T) {
	ft := &fakeTimer{armed: Falling}
	newPipeline(t, ft, 8)

	if ft.armed != Rising {
		t.Fatalf("initial armed edge = %v, want rising", ft.armed)
	}
}

func TestOnCapture_StoresResolvedEvent(t *testing.T) {
	ft := &fakeTimer{latched: 0x1234}
	p, _, q := newPipeline(t, ft, 8)

	p.OnCapture()

	ev, ok := q.TryReceive()
	if !ok {
		t.Fatalf("no event queued")
	}
	if ev.Ticks != 0x1234 || ev.Edge != Rising {
		t.Fatalf("event = %+v, want ticks 0x1234 rising", ev)
	}
}

func TestOnCapture_EdgeSampledBeforeToggle(t *testing.T) {
	ft := &fakeTimer{latched: 10}
	p, _, q := newPipeline(t, ft, 8)

	p.OnCapture()

	// recorded edge is the polarity armed at entry, not the re-armed one
	ev, _ := q.TryReceive()
	if ev.Edge != Rising {
		t.Fatalf("edge = %v, want the armed-at-entry rising", ev.Edge)
	}
	if ft.armed != Falling {
		t.Fatalf("re-armed edge = %v, want falling", ft.armed)
	}
}

func TestOnCapture_AlternatesPolarity(t *testing.T) {
	ft := &fakeTimer{}
	p, _, q := newPipeline(t, ft, 8)

	want := []Edge{Rising, Falling, Rising, Falling}
	for i, w := range want {
		ft.latched = uint16(100 * (i + 1))
		p.OnCapture()

		ev, ok := q.TryReceive()
		if !ok || ev.Edge != w {
			t.Fatalf("capture %d edge = %v ok=%v, want %v", i, ev.Edge, ok, w)
		}
	}
}

func TestOnCapture_AckBeforeRearm(t *testing.T) {
	ft := &fakeTimer{latched: 42}
	p, _, _ := newPipeline(t, ft, 8)

	ft.calls = nil
	p.OnCapture()

	want := []string{"ack_capture", "arm:F"}
	if len(ft.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", ft.calls, want)
	}
	for i := range want {
		if ft.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, ft.calls[i], want[i])
		}
	}
}

func TestOnCapture_BoundaryRaceUsesNextHighHalf(t *testing.T) {
	// Capture latched a small value while the wrap it belongs to is still
	// pending: the resolved tick must use the incremented high half.
	ft := &fakeTimer{latched: 0x0042, pending: true}
	p, _, q := newPipeline(t, ft, 8)

	p.OnCapture()

	ev, _ := q.TryReceive()
	if ev.Ticks != 0x0001_0042 {
		t.Fatalf("ticks = %#08x, want 0x00010042", ev.Ticks)
	}
}

func TestOnCapture_LargeValuePredatesPendingWrap(t *testing.T) {
	ft := &fakeTimer{latched: 0x9FFF, pending: true}
	p, _, q := newPipeline(t, ft, 8)

	p.OnCapture()

	ev, _ := q.TryReceive()
	if ev.Ticks != 0x0000_9FFF {
		t.Fatalf("ticks = %#08x, want 0x00009FFF", ev.Ticks)
	}
}

func TestOnCapture_FullQueueCountsDropAndStillRearms(t *testing.T) {
	ft := &fakeTimer{}
	p, _, q := newPipeline(t, ft, 2)

	ft.latched = 100
	p.OnCapture() // fills the single usable slot
	ft.latched = 200
	p.OnCapture() // dropped
	ft.latched = 300
	p.OnCapture() // dropped

	if got := q.Dropped(); got != 2 {
		t.Fatalf("dropped = %d, want 2", got)
	}

	// alternation continued across the drops
	if ft.armed != Falling {
		t.Fatalf("armed after three captures = %v, want falling", ft.armed)
	}

	ev, ok := q.TryReceive()
	if !ok || ev.Ticks != 100 {
		t.Fatalf("stored event = %+v ok=%v, want ticks 100", ev, ok)
	}
}

func TestOnOverflow_AdvancesClockThenAcks(t *testing.T) {
	ft := &fakeTimer{pending: true}
	p, clk, _ := newPipeline(t, ft, 8)

	ft.calls = nil
	p.OnOverflow()

	if ft.pending {
		t.Fatalf("overflow flag not acknowledged")
	}
	if len(ft.calls) != 1 || ft.calls[0] != "ack_overflow" {
		t.Fatalf("calls = %v, want [ack_overflow]", ft.calls)
	}
	if got := clk.Resolve(0x0500, false); got != 0x0001_0500 {
		t.Fatalf("resolved = %#08x, want high half advanced", got)
	}
}
