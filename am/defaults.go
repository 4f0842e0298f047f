package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultFormat          = FormatCapnp
	DefaultWatchDebounceMS = 300
	DefaultLogLevel        = "warn"
)

// SetDefaults configures default values for all configuration options.
// Every key needs a default so that environment overrides are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generate.packages", []string{})
	v.SetDefault("generate.output", "")
	v.SetDefault("generate.format", DefaultFormat)
	v.SetDefault("generate.watch_debounce_ms", DefaultWatchDebounceMS)
	v.SetDefault("generate.require_version", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", DefaultLogLevel)
}

// StarterConfig returns the configuration WriteDefault writes: the defaults plus
// every package in the module.
func StarterConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			Packages:        []string{"./..."},
			Format:          DefaultFormat,
			WatchDebounceMS: DefaultWatchDebounceMS,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// WatchDebounce returns the watch debounce as a duration
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Generate.WatchDebounceMS) * time.Millisecond
}

// String returns a one-line summary of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Packages: %v, Output: %q, Format: %s, Log: %s}",
		c.Generate.Packages, c.Generate.Output, c.Generate.Format, c.Log.Level)
}
