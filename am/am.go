// Package am loads schemagen configuration.
//
// Values are merged from, lowest precedence first: built-in defaults,
// /etc/schemagen/config.toml, ~/.schemagen/config.toml, the nearest
// schemagen.toml found walking up from the working directory, and SCHEMAGEN_*
// environment variables. Command line flags override all of them.
package am

// File names and locations searched by Load
const (
	ProjectConfigName = "schemagen.toml"
	UserConfigDir     = ".schemagen"
	UserConfigName    = "config.toml"
	SystemConfigPath  = "/etc/schemagen/config.toml"
	EnvPrefix         = "SCHEMAGEN"
)

// Output formats
const (
	FormatCapnp = "capnp"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the supported output formats
var Formats = []string{FormatCapnp, FormatJSON, FormatYAML}

// Config is the schemagen configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate" toml:"generate" json:"generate"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log"`
}

// GenerateConfig controls what is generated and where it goes
type GenerateConfig struct {
	// Package patterns to load, as accepted by go list
	Packages []string `mapstructure:"packages" toml:"packages" json:"packages,omitempty" validate:"dive,required" jsonschema:"description=Package patterns to generate schemas for"`

	// Output directory; empty writes to stdout
	Output string `mapstructure:"output" toml:"output" json:"output,omitempty" jsonschema:"description=Output directory (empty for stdout)"`

	Format string `mapstructure:"format" toml:"format" json:"format,omitempty" validate:"oneof=capnp json yaml" jsonschema:"enum=capnp,enum=json,enum=yaml,default=capnp"`

	// Debounce for watch mode, in milliseconds
	WatchDebounceMS int `mapstructure:"watch_debounce_ms" toml:"watch_debounce_ms" json:"watch_debounce_ms,omitempty" validate:"gte=0" jsonschema:"minimum=0,default=300"`

	// Semver constraint the running schemagen must satisfy, e.g. ">= 1.2"
	RequireVersion string `mapstructure:"require_version" toml:"require_version" json:"require_version,omitempty" jsonschema:"description=Semver constraint on the schemagen version"`
}

// LogConfig controls diagnostic output on stderr
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json,omitempty"`
	Level string `mapstructure:"level" toml:"level" json:"level,omitempty" validate:"oneof=debug info warn warning error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=warn"`
}
