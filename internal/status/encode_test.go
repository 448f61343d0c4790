// internal/status/encode_test.go
package status

import "testing"

func TestEncode_FullBlockLayout(t *testing.T) {
	s := Snapshot{
		State:       StateActive,
		Dropped:     7,
		Printed:     0x0001_0002,
		Drained:     0x0003_0004,
		Discarded:   0x0005_0006,
		Transitions: 0x0001_0009,
		Heartbeats:  0x0002_000A,
		UptimeSec:   1234,
	}

	regs := Encode(s)
	if len(regs) != SlotsPerBlock {
		t.Fatalf("block length = %d, want %d", len(regs), SlotsPerBlock)
	}

	cases := []struct {
		slot int
		want uint16
	}{
		{SlotStateCode, StateActive},
		{SlotDropped, 7},
		{SlotPrintedHi, 0x0001},
		{SlotPrintedLo, 0x0002},
		{SlotDrainedHi, 0x0003},
		{SlotDrainedLo, 0x0004},
		{SlotDiscardedHi, 0x0005},
		{SlotDiscardedLo, 0x0006},
		{SlotTransitions, 0x0009},
		{SlotUptimeSec, 1234},
		{SlotHeartbeats, 0x000A},
	}
	for _, tc := range cases {
		if got := regs[tc.slot]; got != tc.want {
			t.Fatalf("slot %d = 0x%04X, want 0x%04X", tc.slot, got, tc.want)
		}
	}
}

func TestEncode_UptimeSaturates(t *testing.T) {
	regs := Encode(Snapshot{UptimeSec: 70_000})
	if got := regs[SlotUptimeSec]; got != 65535 {
		t.Fatalf("uptime slot = %d, want saturated 65535", got)
	}
}

func TestEncode_ReservedAndNameSlotsStayZero(t *testing.T) {
	regs := Encode(Snapshot{State: StateIdle, Printed: 999})
	for slot := SlotReserved; slot <= SlotDeviceNameEnd; slot++ {
		if regs[slot] != 0 {
			t.Fatalf("slot %d = %d, want 0", slot, regs[slot])
		}
	}
}
