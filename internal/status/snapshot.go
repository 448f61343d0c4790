// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	State       uint16
	Dropped     uint16
	Printed     uint32
	Drained     uint32
	Discarded   uint32
	Transitions uint32
	Heartbeats  uint32
	UptimeSec   uint32
}
