// internal/output/tcp.go
package output

import (
	"fmt"
	"net"
	"time"

	"github.com/tamzrod/edge-logger/internal/config"
)

// tcpPort streams lines to a collector over one long-lived connection.
type tcpPort struct {
	conn    net.Conn
	timeout time.Duration
}

func dialTCP(cfg config.OutputConfig) (Port, error) {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	conn, err := net.DialTimeout("tcp", cfg.Address, timeout)
	if err != nil {
		return nil, fmt.Errorf("output: dial %s: %w", cfg.Address, err)
	}
	return &tcpPort{conn: conn, timeout: timeout}, nil
}

func (t *tcpPort) Write(p []byte) (int, error) {
	_ = t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	if err := writeAll(t.conn, p); err != nil {
		return 0, fmt.Errorf("output: tcp write: %w", err)
	}
	return len(p), nil
}

func (t *tcpPort) Close() error { return t.conn.Close() }
