// internal/writer/types.go
package writer

import "github.com/tamzrod/edge-logger/internal/status"

// endpointClient is the transport contract the status writer needs: a
// register write against one endpoint, unit already bound.
type endpointClient interface {
	WriteRegisters(addr uint16, regs []uint16) error
}

// StatusWriter is the delivery-only contract for the status mirror.
// It receives a snapshot and writes it verbatim.
// No logic, no state, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}
