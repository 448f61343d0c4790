// cmd/logger/main.go
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/tamzrod/edge-logger/internal/capture"
	"github.com/tamzrod/edge-logger/internal/config"
	"github.com/tamzrod/edge-logger/internal/logctl"
	"github.com/tamzrod/edge-logger/internal/output"
	"github.com/tamzrod/edge-logger/internal/pins"
	"github.com/tamzrod/edge-logger/internal/record"
	"github.com/tamzrod/edge-logger/internal/sim"
	"github.com/tamzrod/edge-logger/internal/status"
	"github.com/tamzrod/edge-logger/internal/writer"
)

func main() {
	cfgPath := flag.String("config", "", "config file (empty: built-in defaults)")
	selftest := flag.Bool("selftest", false, "run the deterministic self-test and exit")
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	if *selftest {
		if err := runSelftest(cfg.Logger); err != nil {
			log.Fatalf("%v", err)
		}
		log.Print("selftest passed")
		return
	}

	if err := runDaemon(cfg.Logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func runDaemon(lc config.LoggerConfig) error {
	// ---- capture source ----
	timer, err := sim.Build(lc.Source, lc.Capture)
	if err != nil {
		return err
	}
	pipe, err := capture.Build(lc.Capture, timer)
	if err != nil {
		return err
	}
	timer.Bind(pipe.Producer)

	// ---- pins ----
	if lc.Switch.Pin != "" || lc.Indicator.Pin != "" {
		if err := pins.Init(); err != nil {
			return err
		}
	}

	var swIn pins.Input
	var virtualSwitch *pins.Mem
	if lc.Switch.Pin != "" {
		swIn, err = pins.Switch(lc.Switch.Pin)
		if err != nil {
			return err
		}
	} else {
		virtualSwitch = pins.NewMem(true)
		swIn = virtualSwitch
	}

	var led pins.Output
	if lc.Indicator.Pin != "" {
		led, err = pins.Indicator(lc.Indicator.Pin)
		if err != nil {
			return err
		}
	} else {
		led = pins.Null{}
	}

	// ---- output + record stream ----
	port, err := output.Build(lc.Output)
	if err != nil {
		return err
	}
	defer port.Close()

	rec := record.NewWriter(port)
	if err := rec.Banner(record.BannerInfo{
		TickHz:      lc.Capture.TickHz,
		NoiseFilter: lc.Capture.NoiseFilter != nil && *lc.Capture.NoiseFilter,
		BufferSize:  pipe.Queue.Size(),
	}); err != nil {
		return fmt.Errorf("banner write failed: %w", err)
	}

	machine, err := logctl.Build(lc, pipe.Queue, pipe.Clock.Now, swIn, led, rec)
	if err != nil {
		return err
	}

	runner, err := sim.NewRunner(timer, lc.Capture.TickHz)
	if err != nil {
		return err
	}

	// ---- status mirror (optional) ----
	mirror, closeMirror, err := writer.Build(lc.Status)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("edge-logger: %d Hz capture, output %s", lc.Capture.TickHz, lc.Output.Kind)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		machine.Run(ctx, time.Duration(lc.PollIntervalUs)*time.Microsecond)
	}()

	if mirror != nil {
		defer closeMirror()

		start := time.Now()
		collect := func() status.Snapshot {
			snap := machine.Snapshot()
			return status.Snapshot{
				State:       stateCode(snap.State),
				Dropped:     snap.Dropped,
				Printed:     snap.Printed,
				Drained:     snap.Drained,
				Discarded:   snap.Discarded,
				Transitions: snap.Transitions,
				Heartbeats:  snap.Heartbeats,
				UptimeSec:   uint32(time.Since(start) / time.Second),
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			writer.Run(ctx, mirror, time.Duration(lc.Status.IntervalMs)*time.Millisecond, collect)
		}()
	}

	// No physical switch: an optional synthetic press opens the run.
	if virtualSwitch != nil && lc.Switch.AutoStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pressVirtual(ctx, virtualSwitch)
		}()
	}

	<-ctx.Done()
	stop()
	wg.Wait()

	log.Print("edge-logger: shutdown")
	return nil
}

// pressVirtual holds the virtual switch low long enough for the
// mainline poll to see the edge, then releases it.
func pressVirtual(ctx context.Context, sw *pins.Mem) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(250 * time.Millisecond):
	}
	sw.Set(false)

	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
	}
	sw.Set(true)
}

func stateCode(s logctl.State) uint16 {
	switch s {
	case logctl.Idle:
		return status.StateIdle
	case logctl.Active:
		return status.StateActive
	default:
		return status.StateUnknown
	}
}

// --------------------
// Self-test
// --------------------

// runSelftest assembles the full in-memory rig, drives virtual time
// through a scripted start/stop run and checks the emitted stream.
func runSelftest(lc config.LoggerConfig) error {
	timer, err := sim.Build(lc.Source, lc.Capture)
	if err != nil {
		return err
	}
	pipe, err := capture.Build(lc.Capture, timer)
	if err != nil {
		return err
	}
	timer.Bind(pipe.Producer)

	swIn := pins.NewMem(true)
	led := pins.NewMem(false)
	var out bytes.Buffer

	machine, err := logctl.Build(lc, pipe.Queue, pipe.Clock.Now, swIn, led, record.NewWriter(&out))
	if err != nil {
		return err
	}

	// ---- scripted run ----
	// Press before the first wave edge, let twenty periods of the square
	// wave stream through, then press again to close the run. Draining
	// every 50k ticks keeps the queue well under capacity.
	swIn.Set(false)
	timer.AdvanceTo(1_000)
	machine.Tick()
	swIn.Set(true)

	const step = 50_000
	for target := uint64(step); target <= 8_000_000; target += step {
		timer.AdvanceTo(target)
		machine.Tick()
	}

	swIn.Set(false)
	machine.Tick()
	swIn.Set(true)

	return verifyStream(out.String(), pipe.Queue.Dropped())
}

// verifyStream checks marker placement, header, strict R/F alternation,
// monotonic ticks, dt consistency and the absence of drops.
func verifyStream(stream string, dropped uint16) error {
	if dropped != 0 {
		return fmt.Errorf("selftest: %d events dropped", dropped)
	}

	s := strings.TrimSuffix(stream, "\r\n")
	lines := strings.Split(s, "\r\n")
	if len(lines) < 5 {
		return fmt.Errorf("selftest: stream too short (%d lines)", len(lines))
	}
	if lines[0] != record.MarkerStart {
		return fmt.Errorf("selftest: line 0 = %q, want %q", lines[0], record.MarkerStart)
	}
	if lines[1] != record.Header {
		return fmt.Errorf("selftest: line 1 = %q, want %q", lines[1], record.Header)
	}

	var (
		prevTicks uint32
		prevEdge  byte
		havePrev  bool
		rows      int
		stopped   bool
	)
	for _, ln := range lines[2:] {
		if ln == record.MarkerStop {
			stopped = true
			continue
		}
		if stopped {
			// Only idle heartbeats may follow the stop marker.
			if ln != record.Heartbeat {
				return fmt.Errorf("selftest: unexpected line after stop: %q", ln)
			}
			continue
		}

		ticks, dt, edge, drop, err := parseRow(ln)
		if err != nil {
			return err
		}
		if drop != 0 {
			return fmt.Errorf("selftest: row reports %d drops: %q", drop, ln)
		}
		if havePrev {
			if ticks <= prevTicks {
				return fmt.Errorf("selftest: ticks not increasing: %d after %d", ticks, prevTicks)
			}
			if dt != ticks-prevTicks {
				return fmt.Errorf("selftest: dt = %d, want %d: %q", dt, ticks-prevTicks, ln)
			}
			if edge == prevEdge {
				return fmt.Errorf("selftest: polarity repeated: %q", ln)
			}
		} else {
			if dt != 0 {
				return fmt.Errorf("selftest: first row dt = %d, want 0", dt)
			}
			if edge != 'R' {
				return fmt.Errorf("selftest: first edge = %c, want R", edge)
			}
		}
		prevTicks, prevEdge, havePrev = ticks, edge, true
		rows++
	}

	if !stopped {
		return errors.New("selftest: stop marker missing")
	}
	if rows < 10 {
		return fmt.Errorf("selftest: only %d rows captured", rows)
	}
	return nil
}

func parseRow(ln string) (ticks, dt uint32, edge byte, dropped uint16, err error) {
	parts := strings.Split(ln, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("selftest: malformed row %q", ln)
	}

	t, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("selftest: bad ticks in row %q", ln)
	}
	if len(parts[1]) != 1 || (parts[1][0] != 'R' && parts[1][0] != 'F') {
		return 0, 0, 0, 0, fmt.Errorf("selftest: bad edge in row %q", ln)
	}
	d, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("selftest: bad dt in row %q", ln)
	}
	dr, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("selftest: bad drop count in row %q", ln)
	}

	return uint32(t), uint32(d), parts[1][0], uint16(dr), nil
}
