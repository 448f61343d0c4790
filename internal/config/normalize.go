// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	lg := &cfg.Logger

	// ------------------------------------------------------------
	// NOISE FILTER DEFAULT (ENABLED)
	// ------------------------------------------------------------

	if lg.Capture.NoiseFilter == nil {
		on := true
		lg.Capture.NoiseFilter = &on
	}

	// ------------------------------------------------------------
	// SUPERVISION STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	// Skip when supervision is not configured
	if lg.Status == nil {
		return
	}

	if lg.Status.IntervalMs == 0 {
		lg.Status.IntervalMs = 1000
	}
	if lg.Status.TimeoutMs == 0 {
		lg.Status.TimeoutMs = 2000
	}

	// Normalize device_name:
	// - ASCII already validated
	// - Truncate to max 16 characters
	if len(lg.Status.DeviceName) > 16 {
		lg.Status.DeviceName = lg.Status.DeviceName[:16]
	}
}
