// internal/capture/timer.go
package capture

// CaptureTimer is the minimal register-level contract the capture
// subsystem needs from a free-running 16-bit timer with one input-capture
// channel. Any peripheral or simulation satisfying it is substitutable.
//
// Arm selects the polarity that triggers the next capture; Armed reads the
// current selection. Latched returns the counter value recorded at the
// last capture. Count returns the live counter and, together with
// OverflowPending, backs the mainline clock. AckCapture and AckOverflow
// clear the respective pending flags.
//
// Feature toggles such as input noise filtering belong to the concrete
// implementation's constructor, not to this contract.
type CaptureTimer interface {
	Arm(edge Edge)
	Armed() Edge
	Latched() uint16
	Count() uint16
	OverflowPending() bool
	AckCapture()
	AckOverflow()
}
