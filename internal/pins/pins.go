// internal/pins/pins.go
package pins

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Input is a single digital level read. True is the high level. No
// buffering, no edge detection; debouncing is the caller's business.
type Input interface {
	Read() bool
}

// Output is a single digital level write.
type Output interface {
	Set(on bool) error
}

// Init registers the host platform drivers. Call once before resolving
// named pins.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("pins: host init: %w", err)
	}
	return nil
}

// Switch resolves a named pin as a pulled-up input. The toggle switch
// shorts the pin to ground, so pressed reads low.
func Switch(name string) (Input, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pins: no pin named %q", name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("pins: configure %s: %w", name, err)
	}
	return &inPin{p: p}, nil
}

// Indicator resolves a named pin as an output, driven low to start.
func Indicator(name string) (Output, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pins: no pin named %q", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("pins: configure %s: %w", name, err)
	}
	return &outPin{p: p}, nil
}

type inPin struct{ p gpio.PinIn }

func (i *inPin) Read() bool { return i.p.Read() == gpio.High }

type outPin struct{ p gpio.PinOut }

func (o *outPin) Set(on bool) error { return o.p.Out(gpio.Level(on)) }

// Mem is an in-memory level for tests and the simulated rig. It serves
// both directions. NewMem picks the initial level; a released pulled-up
// switch is NewMem(true).
type Mem struct {
	mu    sync.Mutex
	level bool
}

func NewMem(level bool) *Mem { return &Mem{level: level} }

func (m *Mem) Read() bool {
	m.mu.Lock()
	v := m.level
	m.mu.Unlock()
	return v
}

func (m *Mem) Set(on bool) error {
	m.mu.Lock()
	m.level = on
	m.mu.Unlock()
	return nil
}

// Null is an output wired to nothing, for rigs without an indicator.
type Null struct{}

func (Null) Set(bool) error { return nil }
