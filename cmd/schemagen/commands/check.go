package commands

import (
	"context"
	"io"
	"os"
	"path"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/typegen"
)

// CheckCmd checks if generated schemas are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated schemas are up to date",
	Long: `Check if the schemas in the output directory match the current Go source.

Schemas are generated to a temporary directory and compared byte for byte
with the output directory.

Exit codes:
  0 - Schemas are up to date
  1 - Schemas are out of date, or the check failed

Examples:
  schemagen check -o schema/          # Check schema/*.capnp
  schemagen check -f json -o model/   # Check JSON model dumps`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	return Check(cmd.Context(), settings, cmd.OutOrStdout())
}

// Check regenerates s into a temp directory and compares it with s.Output
func Check(ctx context.Context, s Settings, out io.Writer) error {
	if s.Output == "" {
		return errors.WithHint(errors.New("check needs an output directory"),
			"pass --output or set generate.output in schemagen.toml")
	}

	gen, err := GeneratorFor(s.Format)
	if err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp("", "schemagen-check-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	if _, err := Generate(ctx, s, tempDir, io.Discard); err != nil {
		return errors.Wrap(err, "failed to generate schemas")
	}

	result, err := typegen.CompareDirectories(tempDir, s.Output)
	if err != nil {
		return errors.Wrap(err, "failed to compare directories")
	}

	// Files of other formats may share the output directory
	ext := "." + gen.FileExtension()
	var extra []string
	for _, rel := range result.Extra {
		if path.Ext(rel) == ext {
			extra = append(extra, rel)
		}
	}

	if len(result.Missing)+len(result.Changed)+len(extra) == 0 {
		pterm.Success.WithWriter(out).Println("Schemas are up to date")
		return nil
	}

	pterm.Warning.WithWriter(out).Println("Schemas are out of date")
	for _, rel := range result.Changed {
		pterm.Info.WithWriter(out).Printfln("changed: %s", rel)
	}
	for _, rel := range result.Missing {
		pterm.Info.WithWriter(out).Printfln("missing: %s", rel)
	}
	for _, rel := range extra {
		pterm.Info.WithWriter(out).Printfln("stale:   %s", rel)
	}

	return errors.WithHint(errors.New("schemas are out of date"),
		"run schemagen with the same flags to regenerate them")
}
