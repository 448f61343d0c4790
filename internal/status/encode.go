// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// Layout is register-map-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotStateCode] = s.State
	regs[SlotDropped] = s.Dropped
	regs[SlotPrintedHi] = uint16(s.Printed >> 16)
	regs[SlotPrintedLo] = uint16(s.Printed)
	regs[SlotDrainedHi] = uint16(s.Drained >> 16)
	regs[SlotDrainedLo] = uint16(s.Drained)
	regs[SlotDiscardedHi] = uint16(s.Discarded >> 16)
	regs[SlotDiscardedLo] = uint16(s.Discarded)
	regs[SlotTransitions] = uint16(s.Transitions)
	regs[SlotHeartbeats] = uint16(s.Heartbeats)

	// ------------------------------------------------------------
	// HARD INVARIANT: uptime_seconds MUST NOT wrap
	// ------------------------------------------------------------
	up := s.UptimeSec
	if up > 65535 {
		up = 65535
	}
	regs[SlotUptimeSec] = uint16(up)

	return regs
}
