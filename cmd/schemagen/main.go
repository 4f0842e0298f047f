package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/am"
	"github.com/teranos/schemagen/cmd/schemagen/commands"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

var (
	configPath string
	jsonLog    bool
)

var rootCmd = &cobra.Command{
	Use:   "schemagen",
	Short: "Generate Cap'n Proto schemas from Go types",
	Long: `schemagen - Generate Cap'n Proto schemas from Go types.

Loads Go packages, analyzes their exported enums, interfaces and serializable
records, and writes one schema file per package.

A struct opts in with a doc comment directive or a marker method:

  //capnp:record
  //capnp:id 0xE1C2A3B4D5F60718
  type Person struct { ... }

  func (Person) CapnpRecord() {}

Examples:
  schemagen                              # ./... to stdout as Cap'n Proto
  schemagen -p ./models -o schema/       # Write schema/models.capnp
  schemagen -p ./models -f json          # Dump the intermediate model
  schemagen -o schema/ --watch           # Regenerate on change
  schemagen check -o schema/             # Fail if schema/ is stale
  schemagen init                         # Write a starter schemagen.toml`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              commands.RunGenerate,
}

// setup loads configuration and initializes the logger before any command runs.
// init and version work without a valid config.
func setup(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	switch cmd.Name() {
	case "init", "version", "schema":
		return initLogger(jsonLog, am.DefaultLogLevel, verbosity)
	}

	if configPath != "" {
		am.SetConfigFile(configPath)
	}
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := initLogger(jsonLog || cfg.Log.JSON, cfg.Log.Level, verbosity); err != nil {
		return err
	}

	s := commands.ResolveSettings(cmd, cfg)
	logger.Debugw("resolved settings",
		logger.FieldPackage, s.Packages,
		logger.FieldFormat, string(s.Format),
		logger.FieldDir, s.Output)
	return nil
}

func initLogger(json bool, level string, verbosity int) error {
	base, err := logger.ParseLevel(level)
	if err != nil {
		return err
	}
	effective := logger.VerbosityToLevel(verbosity, base)
	if err := logger.Initialize(json, effective.String()); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Read this config file instead of searching for one")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log as JSON on stderr")
	commands.RegisterGenerateFlags(rootCmd)

	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		logger.Cleanup()
		os.Exit(1)
	}
}
