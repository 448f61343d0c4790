// internal/config/config.go
package config

type Config struct {
	Logger LoggerConfig `yaml:"logger"`
}

type LoggerConfig struct {
	Capture   CaptureConfig   `yaml:"capture"`
	Switch    SwitchConfig    `yaml:"switch"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Output    OutputConfig    `yaml:"output"`
	Source    SourceConfig    `yaml:"source"`

	HeartbeatMs    int `yaml:"heartbeat_ms"`
	PollIntervalUs int `yaml:"poll_interval_us"`

	// Supervision status block (optional, opt-in)
	Status *StatusConfig `yaml:"status"`
}

// ---- CAPTURE ----

type CaptureConfig struct {
	TickHz     uint32 `yaml:"tick_hz"`
	BufferSize int    `yaml:"buffer_size"`

	// nil means "use the default" (filter enabled)
	NoiseFilter *bool `yaml:"noise_filter"`
}

// ---- SWITCH / INDICATOR ----

type SwitchConfig struct {
	Pin        string `yaml:"pin"`
	DebounceMs int    `yaml:"debounce_ms"`
	AutoStart  bool   `yaml:"auto_start"`
}

type IndicatorConfig struct {
	Pin string `yaml:"pin"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Kind      string `yaml:"kind"` // console | serial | tcp
	Device    string `yaml:"device"`
	Baud      int    `yaml:"baud"`
	Address   string `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Kind      string `yaml:"kind"` // sim
	HighTicks uint32 `yaml:"high_ticks"`
	LowTicks  uint32 `yaml:"low_ticks"`
}

// ---- STATUS ----

type StatusConfig struct {
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"`
	DeviceName  string `yaml:"device_name"`
	IntervalMs  int    `yaml:"interval_ms"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}
