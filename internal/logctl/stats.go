// internal/logctl/stats.go
package logctl

import "sync/atomic"

// Stats carries the machine's counters. The mainline loop is the only
// writer; atomics exist so the status mirror can read a coherent value
// per counter from its own goroutine without a lock.
type Stats struct {
	state       atomic.Uint32
	transitions atomic.Uint32
	drained     atomic.Uint32
	discarded   atomic.Uint32
	printed     atomic.Uint32
	heartbeats  atomic.Uint32
}

// Snapshot is a point-in-time copy of the counters. Counters are read
// one at a time, so a snapshot taken mid-drain may be internally skewed
// by a single event; the mirror tolerates that.
type Snapshot struct {
	State       State
	Transitions uint32
	Drained     uint32
	Discarded   uint32
	Printed     uint32
	Heartbeats  uint32
	Dropped     uint16
}

// Snapshot reads the counters and the queue's drop count.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:       State(m.stats.state.Load()),
		Transitions: m.stats.transitions.Load(),
		Drained:     m.stats.drained.Load(),
		Discarded:   m.stats.discarded.Load(),
		Printed:     m.stats.printed.Load(),
		Heartbeats:  m.stats.heartbeats.Load(),
		Dropped:     m.q.Dropped(),
	}
}
