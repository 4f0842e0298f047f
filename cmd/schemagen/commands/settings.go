package commands

import (
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/schemagen/am"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/typegen/capnp"
	"github.com/teranos/schemagen/typegen/modeldump"
)

// Format is an output format flag value
type Format string

func (f *Format) String() string { return string(*f) }

func (f *Format) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(am.Formats, s) {
		return errors.Newf("unknown format %q (supported: %s)", s, strings.Join(am.Formats, ", "))
	}
	*f = Format(s)
	return nil
}

func (f *Format) Type() string { return "format" }

var _ pflag.Value = (*Format)(nil)

// Settings is the effective configuration of one run: config file values with
// command line flags applied on top
type Settings struct {
	Packages []string
	Output   string
	Format   Format
	Watch    bool
	Debounce time.Duration
}

var (
	settings Settings

	flagPackages []string
	flagOutput   string
	flagFormat   = Format(am.DefaultFormat)
	flagWatch    bool
)

// RegisterGenerateFlags adds the flags shared by generation and check
func RegisterGenerateFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringSliceVarP(&flagPackages, "packages", "p", nil, "Package patterns to process (default from config, else ./...)")
	flags.StringVarP(&flagOutput, "output", "o", "", "Output directory (default: stdout)")
	flags.VarP(&flagFormat, "format", "f", "Output format: capnp, json, yaml")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "Regenerate when Go sources change; new package directories are watched after the next regeneration")
}

// ResolveSettings merges cfg with the flags the user actually set
func ResolveSettings(cmd *cobra.Command, cfg *am.Config) Settings {
	s := Settings{
		Packages: cfg.Generate.Packages,
		Output:   cfg.Generate.Output,
		Format:   Format(cfg.Generate.Format),
		Debounce: cfg.WatchDebounce(),
	}

	flags := cmd.Flags()
	if flags.Changed("packages") {
		s.Packages = flagPackages
	}
	if flags.Changed("output") {
		s.Output = flagOutput
	}
	if flags.Changed("format") {
		s.Format = flagFormat
	}
	if flags.Changed("watch") {
		s.Watch = flagWatch
	}

	if len(s.Packages) == 0 {
		s.Packages = []string{"./..."}
	}
	if s.Format == "" {
		s.Format = am.DefaultFormat
	}

	settings = s
	return s
}

// GeneratorFor returns the file generator of format
func GeneratorFor(format Format) (typegen.Generator, error) {
	switch string(format) {
	case am.FormatCapnp:
		return capnp.NewGenerator(), nil
	case am.FormatJSON:
		return modeldump.NewJSON(), nil
	case am.FormatYAML:
		return modeldump.NewYAML(), nil
	default:
		return nil, errors.Newf("unknown format %q", format)
	}
}
