// internal/record/format.go
package record

import (
	"io"
	"strconv"

	"github.com/tamzrod/edge-logger/internal/capture"
)

// Wire protocol lines. Any downstream analysis tool parses these exact
// strings; they MUST NOT be configurable.
const (
	MarkerStart = "# START"
	MarkerStop  = "# STOP"
	Heartbeat   = "alive"
	Header      = "ticks,edge,dt_ticks,dropped"
)

// Every line, markers included, ends carriage-return line-feed.
const crlf = "\r\n"

// BannerInfo is the self-description emitted once at startup.
type BannerInfo struct {
	TickHz      uint32
	NoiseFilter bool
	BufferSize  int
}

// Writer serializes the textual wire format onto a blocking byte
// transport: one Write call per line, delivery in call order. Lines are
// assembled in a reusable buffer so the data path stays allocation-free.
// Mainline context only; a port has exactly one Writer.
type Writer struct {
	w   io.Writer
	buf []byte
}

// NewWriter wraps a port.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, 64)}
}

func (wr *Writer) line(s string) error {
	wr.buf = wr.buf[:0]
	wr.buf = append(wr.buf, s...)
	wr.buf = append(wr.buf, crlf...)
	_, err := wr.w.Write(wr.buf)
	return err
}

// Start emits the run-start marker.
func (wr *Writer) Start() error { return wr.line(MarkerStart) }

// Stop emits the run-stop marker.
func (wr *Writer) Stop() error { return wr.line(MarkerStop) }

// Beat emits the idle liveness marker.
func (wr *Writer) Beat() error { return wr.line(Heartbeat) }

// ColumnHeader emits the data row header.
func (wr *Writer) ColumnHeader() error { return wr.line(Header) }

// Row emits one data row: absolute tick, edge character, delta since the
// previous printed row, cumulative drop count.
func (wr *Writer) Row(ticks uint32, edge capture.Edge, dt uint32, dropped uint16) error {
	wr.buf = wr.buf[:0]
	wr.buf = strconv.AppendUint(wr.buf, uint64(ticks), 10)
	wr.buf = append(wr.buf, ',')
	wr.buf = append(wr.buf, edge.Char())
	wr.buf = append(wr.buf, ',')
	wr.buf = strconv.AppendUint(wr.buf, uint64(dt), 10)
	wr.buf = append(wr.buf, ',')
	wr.buf = strconv.AppendUint(wr.buf, uint64(dropped), 10)
	wr.buf = append(wr.buf, crlf...)
	_, err := wr.w.Write(wr.buf)
	return err
}

// Banner emits the startup self-description block. Comment lines only,
// terminated by the "# ---" divider, so stream parsers can skip it.
func (wr *Writer) Banner(info BannerInfo) error {
	filter := "OFF"
	if info.NoiseFilter {
		filter = "ON"
	}

	lines := []string{
		"# edge-logger",
		"# tick_hz=" + strconv.FormatUint(uint64(info.TickHz), 10),
		"# noise_filter=" + filter,
		"# capture_buffer_size=" + strconv.Itoa(info.BufferSize),
		"# ---",
	}
	for _, s := range lines {
		if err := wr.line(s); err != nil {
			return err
		}
	}
	return nil
}
