// internal/status/constants.go
package status

// Status block layout constants.
// These values define the register map and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of holding registers in the block.
const SlotsPerBlock = 20

// ---- SLOT INDICES ----

// SlotStateCode holds the logging state.
const SlotStateCode = 0

// SlotDropped holds the capture drop counter. 16-bit, wrapping, exactly
// as the queue counts it.
const SlotDropped = 1

// SlotPrintedHi and SlotPrintedLo hold the printed-row counter.
const SlotPrintedHi = 2
const SlotPrintedLo = 3

// SlotDrainedHi and SlotDrainedLo hold the drained-event counter.
const SlotDrainedHi = 4
const SlotDrainedLo = 5

// SlotDiscardedHi and SlotDiscardedLo hold the discarded-event counter.
const SlotDiscardedHi = 6
const SlotDiscardedLo = 7

// SlotTransitions holds the low 16 bits of the start/stop transition count.
const SlotTransitions = 8

// SlotUptimeSec holds process uptime in seconds. Saturates at 65535.
const SlotUptimeSec = 9

// SlotHeartbeats holds the low 16 bits of the heartbeat count.
const SlotHeartbeats = 10

// ---- RESERVED RANGE ----

// Slot 11 is reserved for future use.
const SlotReserved = 11

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 12

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- STATE CODES ----

// StateUnknown represents an unknown or boot state.
const StateUnknown uint16 = 0

// StateIdle represents the heartbeat-only idle state.
const StateIdle uint16 = 1

// StateActive represents an active logging run.
const StateActive uint16 = 2
