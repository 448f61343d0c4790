// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/edge-logger/internal/status"
)

// deviceStatusWriter mirrors the logger's status block into holding
// registers on one endpoint. It remembers the last delivered block and
// writes only the slots that changed.
type deviceStatusWriter struct {
	base uint16
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

// NewDeviceStatusWriter builds a status writer against a connected
// endpoint client. base is the first holding register of the block.
func NewDeviceStatusWriter(cli endpointClient, base uint16, deviceName string) (*deviceStatusWriter, error) {
	if cli == nil {
		return nil, errors.New("status writer: endpoint client required")
	}

	return &deviceStatusWriter{
		base:     base,
		cli:      cli,
		needFull: true, // full assert on first write
		nameRegs: encodeDeviceNameRegs(deviceName),
	}, nil
}

// WriteStatus delivers one snapshot into the status block.
// On any write failure, the next successful call re-asserts the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	regs := sw.blockRegs(s)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.base, regs); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = regs
		return nil
	}

	var errs []string

	for slot := 0; slot < status.SlotsPerBlock; slot++ {
		if regs[slot] == sw.last[slot] {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.base+uint16(slot), regs[slot:slot+1]); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
			continue
		}
		sw.last[slot] = regs[slot]
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt. Re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

// blockRegs is the encoded snapshot with the device name overlaid on the
// tail slots.
func (sw *deviceStatusWriter) blockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)
	for i := 0; i < status.SlotDeviceNameSlots && i < len(sw.nameRegs); i++ {
		regs[status.SlotDeviceNameStart+i] = sw.nameRegs[i]
	}
	return regs
}

// encodeDeviceNameRegs packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func encodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, status.SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > status.DeviceNameMaxChars {
		b = b[:status.DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < status.DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
