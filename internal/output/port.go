// internal/output/port.go
package output

import (
	"io"
	"os"
)

// Port is the blocking byte transport records are serialized onto.
// Writes deliver whole lines in call order; the only timing contract is
// "eventually transmits, blocking the caller". Mainline use only.
type Port interface {
	io.Writer
	Close() error
}

// Console returns the stdout port.
func Console() Port { return &consolePort{w: os.Stdout} }

type consolePort struct{ w io.Writer }

func (c *consolePort) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *consolePort) Close() error { return nil }

// writeAll pushes every byte of b, retrying short writes.
func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
