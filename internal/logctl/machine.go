// internal/logctl/machine.go
package logctl

import (
	"errors"
	"log"

	"github.com/tamzrod/edge-logger/internal/capture"
	"github.com/tamzrod/edge-logger/internal/pins"
	"github.com/tamzrod/edge-logger/internal/record"
)

// State is the logging gate.
type State uint8

const (
	// Idle drains and discards; only heartbeats reach the output.
	Idle State = 0
	// Active drains and serializes every event as a data row.
	Active State = 1
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Config is the machine's timing, expressed in ticks of the capture
// clock.
type Config struct {
	DebounceTicks  uint32
	HeartbeatTicks uint32
}

// Machine is the mainline consumer: it debounces the physical toggle,
// gates serialization on the logging state, and drains the capture queue
// on every iteration regardless of state. Draining while idle is what
// keeps the producer from filling the queue and inflating the drop count
// with data nobody wants.
//
// All fields are owned by the mainline loop; capture context never
// touches them. Counter reads for other goroutines go through Snapshot.
type Machine struct {
	cfg Config

	q   *capture.Queue
	now func() uint32
	sw  pins.Input
	led pins.Output
	rec *record.Writer

	lastTick     uint32
	lastTickSet  bool
	lockoutUntil uint32
	switchPrev   bool
	nextBeat     uint32

	stats Stats
}

// New assembles a machine in the Idle state. The first heartbeat fires on
// the first idle iteration.
func New(cfg Config, q *capture.Queue, now func() uint32, sw pins.Input, led pins.Output, rec *record.Writer) (*Machine, error) {
	if q == nil {
		return nil, errors.New("logctl: queue required")
	}
	if now == nil {
		return nil, errors.New("logctl: clock required")
	}
	if sw == nil {
		return nil, errors.New("logctl: switch input required")
	}
	if led == nil {
		return nil, errors.New("logctl: indicator output required")
	}
	if rec == nil {
		return nil, errors.New("logctl: record writer required")
	}
	if cfg.HeartbeatTicks == 0 {
		return nil, errors.New("logctl: heartbeat period must be > 0")
	}

	return &Machine{
		cfg: cfg,
		q:   q,
		now: now,
		sw:  sw,
		led: led,
		rec: rec,
		// released level is high on the pulled-up input
		switchPrev: true,
	}, nil
}

// State returns the current logging state.
func (m *Machine) State() State {
	return State(m.stats.state.Load())
}

// Tick runs one mainline iteration: sample the toggle, heartbeat while
// idle, then drain. Never blocks beyond the record writer's transport.
func (m *Machine) Tick() {
	now := m.now()

	m.pollSwitch(now)
	m.heartbeat(now)
	m.drain()
}

// pollSwitch accepts a press only on a high-to-low transition of the raw
// level outside the lockout window. Both transitions ride the same
// gesture; the lockout swallows contact bounce.
func (m *Machine) pollSwitch(now uint32) {
	raw := m.sw.Read()

	if !raw && m.switchPrev && tickReached(now, m.lockoutUntil) {
		m.lockoutUntil = now + m.cfg.DebounceTicks
		if m.State() == Idle {
			m.start()
		} else {
			m.stop()
		}
	}

	m.switchPrev = raw
}

func (m *Machine) start() {
	m.stats.state.Store(uint32(Active))
	m.stats.transitions.Add(1)

	if err := m.led.Set(true); err != nil {
		log.Printf("logctl: indicator on failed: %v", err)
	}
	if err := m.rec.Start(); err != nil {
		log.Printf("logctl: start marker failed: %v", err)
	}
	if err := m.rec.ColumnHeader(); err != nil {
		log.Printf("logctl: header failed: %v", err)
	}

	// The first printed row of a run has no predecessor.
	m.lastTickSet = false

	// Queued events predate this run; report none of them.
	for {
		if _, ok := m.q.TryReceive(); !ok {
			break
		}
		m.stats.drained.Add(1)
		m.stats.discarded.Add(1)
	}
}

func (m *Machine) stop() {
	m.stats.state.Store(uint32(Idle))
	m.stats.transitions.Add(1)

	if err := m.led.Set(false); err != nil {
		log.Printf("logctl: indicator off failed: %v", err)
	}
	if err := m.rec.Stop(); err != nil {
		log.Printf("logctl: stop marker failed: %v", err)
	}
}

// heartbeat emits the liveness marker once per period, idle only, so it
// can never interleave with data rows.
func (m *Machine) heartbeat(now uint32) {
	if m.State() != Idle {
		return
	}
	if !tickReached(now, m.nextBeat) {
		return
	}

	if err := m.rec.Beat(); err != nil {
		log.Printf("logctl: heartbeat failed: %v", err)
	}
	m.stats.heartbeats.Add(1)
	m.nextBeat = now + m.cfg.HeartbeatTicks
}

// drain empties the queue. While active, each event becomes a row with
// its delta to the previous printed row (zero for the first) and the
// drop count as read at emit time.
func (m *Machine) drain() {
	for {
		ev, ok := m.q.TryReceive()
		if !ok {
			return
		}
		m.stats.drained.Add(1)

		if m.State() != Active {
			m.stats.discarded.Add(1)
			continue
		}

		var dt uint32
		if m.lastTickSet {
			dt = ev.Ticks - m.lastTick
		}
		m.lastTick = ev.Ticks
		m.lastTickSet = true

		if err := m.rec.Row(ev.Ticks, ev.Edge, dt, m.q.Dropped()); err != nil {
			log.Printf("logctl: row write failed: %v", err)
		}
		m.stats.printed.Add(1)
	}
}

// tickReached reports now >= deadline, the literal acceptance test for
// the lockout and heartbeat deadlines. Deadlines go stale in normal
// operation (the boot lockout is zero, the heartbeat deadline freezes
// during a run) and a stale deadline stays satisfied at any uptime;
// once the counter wraps past zero it waits for now to catch back up.
func tickReached(now, deadline uint32) bool {
	return now >= deadline
}
