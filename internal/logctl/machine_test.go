// internal/logctl/machine_test.go
package logctl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tamzrod/edge-logger/internal/capture"
	"github.com/tamzrod/edge-logger/internal/pins"
	"github.com/tamzrod/edge-logger/internal/record"
)

// rig is a machine wired to in-memory pins, a settable clock and a
// buffer transport, so every scenario is deterministic.
type rig struct {
	q   *capture.Queue
	sw  *pins.Mem
	led *pins.Mem
	out bytes.Buffer
	m   *Machine
	now uint32
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	return newRigSize(t, cfg, 8)
}

func newRigSize(t *testing.T, cfg Config, queueSize int) *rig {
	t.Helper()

	q, err := capture.NewQueue(queueSize)
	if err != nil {
		t.Fatalf("NewQueue(%d): %v", queueSize, err)
	}

	r := &rig{q: q, sw: pins.NewMem(true), led: pins.NewMem(false)}
	m, err := New(cfg, q, func() uint32 { return r.now }, r.sw, r.led, record.NewWriter(&r.out))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.m = m
	return r
}

func (r *rig) press()   { r.sw.Set(false) }
func (r *rig) release() { r.sw.Set(true) }

func (r *rig) send(t *testing.T, ticks uint32, e capture.Edge) {
	t.Helper()
	if !r.q.TrySend(capture.Event{Ticks: ticks, Edge: e}) {
		t.Fatalf("queue unexpectedly full at tick %d", ticks)
	}
}

func (r *rig) tickAt(now uint32) {
	r.now = now
	r.m.Tick()
}

func lines(buf *bytes.Buffer) []string {
	s := strings.TrimSuffix(buf.String(), "\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\r\n")
}

func defaultCfg() Config {
	return Config{DebounceTicks: 100, HeartbeatTicks: 1000}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	q, err := capture.NewQueue(8)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	now := func() uint32 { return 0 }
	sw := pins.NewMem(true)
	led := pins.NewMem(false)
	rec := record.NewWriter(&bytes.Buffer{})
	cfg := defaultCfg()

	cases := []struct {
		name  string
		build func() (*Machine, error)
	}{
		{"nil queue", func() (*Machine, error) { return New(cfg, nil, now, sw, led, rec) }},
		{"nil clock", func() (*Machine, error) { return New(cfg, q, nil, sw, led, rec) }},
		{"nil switch", func() (*Machine, error) { return New(cfg, q, now, nil, led, rec) }},
		{"nil indicator", func() (*Machine, error) { return New(cfg, q, now, sw, nil, rec) }},
		{"nil writer", func() (*Machine, error) { return New(cfg, q, now, sw, led, nil) }},
		{"zero heartbeat", func() (*Machine, error) {
			return New(Config{DebounceTicks: 100}, q, now, sw, led, rec)
		}},
	}
	for _, tc := range cases {
		if _, err := tc.build(); err == nil {
			t.Fatalf("%s: New accepted, want error", tc.name)
		}
	}
}

func TestMachine_PressStartsRun(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	r.tickAt(0)

	if got := r.m.State(); got != Active {
		t.Fatalf("state = %v, want %v", got, Active)
	}
	if !r.led.Read() {
		t.Fatalf("indicator off after start, want on")
	}

	want := "# START\r\nticks,edge,dt_ticks,dropped\r\n"
	if got := r.out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestMachine_SecondPressStopsRun(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	r.tickAt(0)
	r.release()
	r.tickAt(200)
	r.press()
	r.tickAt(300)

	if got := r.m.State(); got != Idle {
		t.Fatalf("state = %v, want %v", got, Idle)
	}
	if r.led.Read() {
		t.Fatalf("indicator on after stop, want off")
	}
	if got := r.m.Snapshot().Transitions; got != 2 {
		t.Fatalf("transitions = %d, want 2", got)
	}

	// The stop tick ends idle, so the stale heartbeat deadline fires
	// right after the marker.
	want := "# START\r\nticks,edge,dt_ticks,dropped\r\n# STOP\r\nalive\r\n"
	if got := r.out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestMachine_BounceInsideLockoutIgnored(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	r.tickAt(0)
	r.release()
	r.tickAt(10)
	r.press()
	r.tickAt(20)
	r.release()
	r.tickAt(30)

	if got := r.m.Snapshot().Transitions; got != 1 {
		t.Fatalf("transitions after bounce = %d, want 1", got)
	}
	if got := r.m.State(); got != Active {
		t.Fatalf("state = %v, want %v", got, Active)
	}

	// A clean press after the lockout is a real gesture again.
	r.press()
	r.tickAt(150)
	if got := r.m.Snapshot().Transitions; got != 2 {
		t.Fatalf("transitions after lockout expiry = %d, want 2", got)
	}
}

func TestMachine_HeldSwitchIsOneGesture(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	for _, now := range []uint32{0, 150, 300, 450} {
		r.tickAt(now)
	}

	if got := r.m.Snapshot().Transitions; got != 1 {
		t.Fatalf("transitions while held = %d, want 1", got)
	}
}

func TestMachine_StartDiscardsStaleEvents(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.send(t, 900, capture.Rising)
	r.send(t, 950, capture.Falling)

	r.press()
	r.tickAt(0)

	r.send(t, 1000, capture.Rising)
	r.tickAt(10)

	snap := r.m.Snapshot()
	if snap.Drained != 3 {
		t.Fatalf("drained = %d, want 3", snap.Drained)
	}
	if snap.Discarded != 2 {
		t.Fatalf("discarded = %d, want 2", snap.Discarded)
	}
	if snap.Printed != 1 {
		t.Fatalf("printed = %d, want 1", snap.Printed)
	}

	got := lines(&r.out)
	wantLast := "1000,R,0,0"
	if len(got) == 0 || got[len(got)-1] != wantLast {
		t.Fatalf("lines = %q, want last %q", got, wantLast)
	}
	for _, ln := range got {
		if strings.HasPrefix(ln, "900,") || strings.HasPrefix(ln, "950,") {
			t.Fatalf("stale event leaked into output: %q", ln)
		}
	}
}

func TestMachine_DeltaChain(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	r.tickAt(0)

	r.send(t, 1000, capture.Rising)
	r.tickAt(10)
	r.send(t, 1500, capture.Falling)
	r.tickAt(20)
	r.send(t, 2200, capture.Rising)
	r.tickAt(30)

	got := lines(&r.out)
	want := []string{
		"# START",
		"ticks,edge,dt_ticks,dropped",
		"1000,R,0,0",
		"1500,F,500,0",
		"2200,R,700,0",
	}
	if len(got) != len(want) {
		t.Fatalf("line count = %d, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMachine_DeltaResetsPerRun(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	r.tickAt(0)
	r.send(t, 5000, capture.Rising)
	r.tickAt(10)

	r.release()
	r.tickAt(150)
	r.press()
	r.tickAt(300)
	r.release()
	r.tickAt(450)

	r.press()
	r.tickAt(600)
	r.send(t, 9000, capture.Rising)
	r.tickAt(610)

	got := lines(&r.out)
	wantLast := "9000,R,0,0"
	if len(got) == 0 || got[len(got)-1] != wantLast {
		t.Fatalf("lines = %q, want last %q", got, wantLast)
	}
}

func TestMachine_IdleDrainDiscards(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.tickAt(0)
	for i := uint32(0); i < 5; i++ {
		r.send(t, 100*i, capture.Rising)
	}
	r.tickAt(10)

	if r.q.Available() {
		t.Fatalf("queue not empty after idle drain")
	}
	if got := r.q.Dropped(); got != 0 {
		t.Fatalf("dropped = %d, want 0", got)
	}

	snap := r.m.Snapshot()
	if snap.Discarded != 5 || snap.Printed != 0 {
		t.Fatalf("discarded = %d printed = %d, want 5 and 0", snap.Discarded, snap.Printed)
	}

	if got, want := r.out.String(), "alive\r\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestMachine_HeartbeatCadence(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.tickAt(0)
	r.tickAt(500)
	r.tickAt(999)
	r.tickAt(1000)

	if got := strings.Count(r.out.String(), record.Heartbeat); got != 2 {
		t.Fatalf("heartbeats = %d, want 2: %q", got, r.out.String())
	}

	r.press()
	r.tickAt(1500)
	r.tickAt(2500)
	r.tickAt(3500)

	if got := strings.Count(r.out.String(), record.Heartbeat); got != 2 {
		t.Fatalf("heartbeats while active = %d, want still 2", got)
	}
}

func TestMachine_HeartbeatSurvivesTickWrap(t *testing.T) {
	r := newRig(t, Config{DebounceTicks: 100, HeartbeatTicks: 0x400})

	// Walk the poll clock across 2^32 in sub-period steps, the way the
	// counter actually moves. Once the deadline wraps ahead of the
	// counter every poll satisfies now >= next_heartbeat (beats at
	// 0xFFFFFD00, 0xFFFFFE00 and 0xFFFFFF00), then the counter wraps
	// too and the normal cadence resumes.
	const step = 0x100
	start := uint32(0xFFFF_F000)
	for i := uint32(0); i <= 32; i++ {
		r.tickAt(start + i*step)
	}

	if got := strings.Count(r.out.String(), record.Heartbeat); got != 11 {
		t.Fatalf("heartbeats across wrap = %d, want 11: %q", got, r.out.String())
	}
}

func TestMachine_FirstPressAcceptedAtAnyUptime(t *testing.T) {
	r := newRig(t, defaultCfg())

	// The boot lockout deadline is zero, so a session's first press must
	// satisfy now >= lockout_until no matter how far the tick line has
	// already advanced.
	r.press()
	r.tickAt(0x8000_2000)

	if got := r.m.State(); got != Active {
		t.Fatalf("state after first press = %v, want %v", got, Active)
	}
	if got := r.m.Snapshot().Transitions; got != 1 {
		t.Fatalf("transitions = %d, want 1", got)
	}
}

func TestMachine_StopAcceptedAfterLongRun(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	r.tickAt(1000)
	r.release()
	r.tickAt(1200)

	// 2.4e9 ticks into the run the lockout from the start press is long
	// past; the stop press must still satisfy now >= lockout_until.
	r.press()
	r.tickAt(2_400_001_000)

	if got := r.m.State(); got != Idle {
		t.Fatalf("state after stop press = %v, want %v", got, Idle)
	}

	// The heartbeat deadline went stale during the run, so the first
	// idle iteration beats right after the stop marker.
	want := "# START\r\nticks,edge,dt_ticks,dropped\r\n# STOP\r\nalive\r\n"
	if got := r.out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestMachine_RowsCarryDropCount(t *testing.T) {
	r := newRigSize(t, defaultCfg(), 2)

	r.press()
	r.tickAt(0)

	r.send(t, 100, capture.Rising)
	if r.q.TrySend(capture.Event{Ticks: 200, Edge: capture.Falling}) {
		t.Fatalf("TrySend on full queue succeeded, want drop")
	}
	r.tickAt(10)

	r.send(t, 300, capture.Falling)
	r.tickAt(20)

	got := lines(&r.out)
	want := []string{
		"# START",
		"ticks,edge,dt_ticks,dropped",
		"100,R,0,1",
		"300,F,200,1",
	}
	if len(got) != len(want) {
		t.Fatalf("line count = %d, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMachine_StopDiscardsQueuedEvents(t *testing.T) {
	r := newRig(t, defaultCfg())

	r.press()
	r.tickAt(0)
	r.send(t, 1000, capture.Rising)
	r.tickAt(10)

	r.release()
	r.tickAt(150)

	// Lands in the queue between mainline iterations; the stopping tick
	// resolves the switch before it drains.
	r.send(t, 2000, capture.Falling)
	r.press()
	r.tickAt(300)

	for _, ln := range lines(&r.out) {
		if strings.HasPrefix(ln, "2000,") {
			t.Fatalf("event queued at stop leaked into output: %q", ln)
		}
	}
	if got := r.m.Snapshot().Discarded; got != 1 {
		t.Fatalf("discarded = %d, want 1", got)
	}
	if r.q.Available() {
		t.Fatalf("queue not empty after stop")
	}
}
