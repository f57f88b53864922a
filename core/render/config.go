package render

import "time"

// Config holds scheduler settings.
type Config struct {
	// ReloadThreshold is the script size above which a Reloader adapter is reloaded
	// instead of patched. Zero or less disables reloading.
	ReloadThreshold int `mapstructure:"reload_threshold" default:"20"`
	// ApplyTimeoutSeconds bounds each adapter call.
	ApplyTimeoutSeconds int `mapstructure:"apply_timeout_seconds" default:"10"`
	// DropEmptySections removes sections without rows before diffing.
	DropEmptySections bool `mapstructure:"drop_empty_sections" default:"false"`
}

// ApplyTimeout returns the adapter call timeout, defaulting to ten seconds.
func (c Config) ApplyTimeout() time.Duration {
	if c.ApplyTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ApplyTimeoutSeconds) * time.Second
}
